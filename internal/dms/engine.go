package dms

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/gridrelax/gridrelax/pkg/errors"
	"github.com/gridrelax/gridrelax/pkg/grid"
	"github.com/gridrelax/gridrelax/pkg/utils"
)

// Peer relaxes one contiguous row strip of the global grid, exchanging halo
// rows with its immediate neighbors each iteration via Links.
type Peer struct {
	rank         int
	participants int
	d            int
	eps          float64
	band         grid.Band // global row range [Start, End)

	links Links
	pair  *grid.BufferPair

	topHalo []float64 // snapshot of global row band.Start-1, nil for rank 0
	botHalo []float64 // snapshot of global row band.End, nil for rank P-1

	logger utils.Logger
}

// NewPeer builds a DMS peer for the given rank. initial must be the peer's
// local strip (R rows, D columns) already loaded with input data, including
// correct global-boundary values where the strip touches row 0 or row D-1.
func NewPeer(rank, participants, d int, eps float64, band grid.Band, initial *grid.Grid, links Links, logger utils.Logger) (*Peer, error) {
	if eps <= 0 {
		return nil, gerrors.New(gerrors.CodeInvalidArgument, "precision must be positive")
	}
	if band.Len() < 1 {
		return nil, gerrors.New(gerrors.CodeInvalidArgument, "peer allocation must have at least one row")
	}
	if initial == nil || initial.Rows != band.Len() || initial.Cols != d {
		return nil, gerrors.New(gerrors.CodeResourceError, "initial strip shape mismatch")
	}

	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, os.Stdout)
	}

	a := initial.Clone()
	b := initial.Clone()
	// copyEdges: global boundary rows/columns must be present in both
	// buffers before the first swap, since the buffer-pair invariant
	// requires output to carry correct boundary cells at iteration entry.
	copyBoundaries(a, b, rank, participants, d)

	p := &Peer{
		rank:         rank,
		participants: participants,
		d:            d,
		eps:          eps,
		band:         band,
		links:        links,
		pair:         grid.NewBufferPair(a, b),
		logger:       logger,
	}
	if rank > 0 {
		p.topHalo = make([]float64, d)
	}
	if rank < participants-1 {
		p.botHalo = make([]float64, d)
	}
	return p, nil
}

// copyBoundaries copies the global grid's boundary row into out wherever the
// strip includes it, matching the original's startup copyEdges step.
func copyBoundaries(a, b *grid.Grid, rank, participants, d int) {
	if rank == 0 {
		b.CopyRow(0, a.Row(0))
	}
	if rank == participants-1 {
		last := a.Rows - 1
		b.CopyRow(last, a.Row(last))
	}
	for r := 0; r < a.Rows; r++ {
		b.Set(r, 0, a.At(r, 0))
		b.Set(r, d-1, a.At(r, d-1))
	}
}

// Run executes the peer's relaxation loop until the global AND all-reduce
// reports every peer has converged, returning the peer's final local strip
// and the iteration count.
func (p *Peer) Run(ctx context.Context) (*grid.Grid, int, error) {
	tracer := otel.Tracer("gridrelax")
	iteration := 0

	for {
		iteration++
		_, span := tracer.Start(ctx, "dms.iteration")

		in := p.pair.Input()
		out := p.pair.Output()

		g, _ := errgroup.WithContext(ctx)

		if p.rank > 0 {
			g.Go(func() error {
				return p.links.Up.SendRow(TagTop, in.Row(0))
			})
		}
		if p.rank < p.participants-1 {
			g.Go(func() error {
				return p.links.Down.SendRow(TagBottom, in.Row(in.Rows-1))
			})
		}

		if p.rank > 0 {
			g.Go(func() error {
				row, err := p.links.Up.RecvRow(TagBottom)
				if err != nil {
					return err
				}
				copy(p.topHalo, row)
				return nil
			})
		}
		if p.rank < p.participants-1 {
			g.Go(func() error {
				row, err := p.links.Down.RecvRow(TagTop)
				if err != nil {
					return err
				}
				copy(p.botHalo, row)
				return nil
			})
		}

		// Interior rows depend only on locally held data, so they relax
		// while halo messages are in flight.
		grid.RelaxRows(in, out, 1, in.Rows-1)

		if err := g.Wait(); err != nil {
			span.End()
			return nil, iteration, gerrors.Wrap(gerrors.CodeCommunicationError, "halo exchange failed", err)
		}

		p.relaxEdges(in, out)

		localConverged := p.localConverged(in, out)
		finished, err := AllReduceAnd(p.links, p.rank, p.participants, localConverged)
		if err != nil {
			span.End()
			return nil, iteration, gerrors.Wrap(gerrors.CodeCommunicationError, "all-reduce failed", err)
		}

		span.SetAttributes(
			attribute.Int("gridrelax.iteration", iteration),
			attribute.Bool("gridrelax.local_converged", localConverged),
			attribute.Bool("gridrelax.finished", finished),
		)
		span.End()

		if finished {
			return out, iteration, nil
		}
		p.pair.Swap()
	}
}

// relaxEdges computes the strip's local top/bottom row using the received
// halo as the "row above"/"row below", writing only into out. Peer 0 never
// relaxes its local row 0 (the global top boundary); peer P-1 never relaxes
// its local last row (the global bottom boundary). In a one-row strip that
// row is both edges: a middle peer relaxes it between its two halos, and an
// end peer leaves it alone because it is a global boundary row.
func (p *Peer) relaxEdges(in, out *grid.Grid) {
	if in.Rows == 1 {
		if p.rank > 0 && p.rank < p.participants-1 {
			p.relaxWithHalo(in, out, 0, p.topHalo, p.botHalo)
		}
		return
	}
	if p.rank > 0 {
		p.relaxWithHalo(in, out, 0, p.topHalo, in.Row(1))
	}
	if p.rank < p.participants-1 {
		last := in.Rows - 1
		p.relaxWithHalo(in, out, last, in.Row(last-1), p.botHalo)
	}
}

// relaxWithHalo applies the four-neighbor mean to local row r using explicit
// north/south rows instead of reading them out of in, since one of them
// lives in a halo buffer rather than the strip itself.
func (p *Peer) relaxWithHalo(in, out *grid.Grid, r int, north, south []float64) {
	cols := in.Cols
	row := in.Row(r)
	for c := 1; c <= cols-2; c++ {
		out.Set(r, c, (north[c]+south[c]+row[c-1]+row[c+1])/4)
	}
}

// localConverged evaluates the convergence predicate over the entire local
// strip, excluding the global boundary row where this peer owns one.
func (p *Peer) localConverged(in, out *grid.Grid) bool {
	rowLo := 0
	rowHi := in.Rows
	if p.rank == 0 {
		rowLo = 1
	}
	if p.rank == p.participants-1 {
		rowHi = in.Rows - 1
	}
	return grid.Converged(in, out, rowLo, rowHi, p.eps)
}
