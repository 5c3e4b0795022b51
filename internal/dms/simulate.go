package dms

import (
	"context"

	"golang.org/x/sync/errgroup"

	gerrors "github.com/gridrelax/gridrelax/pkg/errors"
	"github.com/gridrelax/gridrelax/pkg/grid"
	"github.com/gridrelax/gridrelax/pkg/utils"
)

// RunSimulated partitions initial into participants row strips and runs all
// of them as in-process goroutines connected by net.Pipe links, reassembling
// the converged global grid on return. It is the harness used by tests (and
// by `gridrelax dms` when run without --spawn) to validate DMS behavior
// without launching real OS processes.
func RunSimulated(ctx context.Context, d int, eps float64, participants int, initial *grid.Grid, logger utils.Logger) (*grid.Grid, int, error) {
	bands, err := grid.Partition(d, participants)
	if err != nil {
		return nil, 0, gerrors.Wrap(gerrors.CodeInvalidArgument, "invalid peer decomposition", err)
	}
	if initial == nil || initial.Rows != d || initial.Cols != d {
		return nil, 0, gerrors.New(gerrors.CodeResourceError, "initial grid shape mismatch")
	}

	links := NewPipeTopology(d, participants)
	peers := make([]*Peer, participants)
	for rank, band := range bands {
		strip := grid.NewRect(band.Len(), d)
		for r := 0; r < band.Len(); r++ {
			strip.CopyRow(r, initial.Row(band.Start+r))
		}
		peer, err := NewPeer(rank, participants, d, eps, band, strip, links[rank], logger)
		if err != nil {
			return nil, 0, err
		}
		peers[rank] = peer
	}

	results := make([]*grid.Grid, participants)
	iterations := make([]int, participants)

	g, gctx := errgroup.WithContext(ctx)
	for rank := range peers {
		rank := rank
		g.Go(func() error {
			out, iters, err := peers[rank].Run(gctx)
			if err != nil {
				return err
			}
			results[rank] = out
			iterations[rank] = iters
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	out := grid.NewRect(d, d)
	for rank, band := range bands {
		for r := 0; r < band.Len(); r++ {
			out.CopyRow(band.Start+r, results[rank].Row(r))
		}
	}

	return out, iterations[0], nil
}
