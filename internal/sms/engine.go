// Package sms implements the shared-memory relaxation engine: W worker
// goroutines plus one coordinator relaxing a single in-memory grid via a
// two-buffer, two-barrier protocol.
package sms

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	gerrors "github.com/gridrelax/gridrelax/pkg/errors"
	"github.com/gridrelax/gridrelax/pkg/grid"
	"github.com/gridrelax/gridrelax/pkg/utils"
)

// Engine relaxes a single grid using W worker goroutines and a coordinator.
type Engine struct {
	d       int
	eps     float64
	workers int
	bands   []grid.Band

	pair      *grid.BufferPair
	barrier1  *Barrier
	barrier2  *Barrier
	terminate atomic.Bool

	logger utils.Logger

	// Set once in Run before the worker goroutines start, read only from
	// decide (the BARRIER-1 completion action); never mutated concurrently.
	ctx       context.Context
	tracer    trace.Tracer
	iteration int
}

// NewEngine builds an SMS engine over the given initial grid. initial is
// used, unmutated, to populate both buffers of the pair. workers must not
// exceed D-2 (the interior height) or ErrInvalidDecomposition is returned.
func NewEngine(d int, eps float64, workers int, initial *grid.Grid, logger utils.Logger) (*Engine, error) {
	if d < 3 {
		return nil, gerrors.New(gerrors.CodeInvalidArgument, "dimension must be >= 3")
	}
	if eps <= 0 {
		return nil, gerrors.New(gerrors.CodeInvalidArgument, "precision must be positive")
	}
	if workers < 1 {
		return nil, gerrors.New(gerrors.CodeInvalidArgument, "worker count must be >= 1")
	}

	bands, err := grid.Partition(d-2, workers)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.CodeInvalidArgument, "invalid worker decomposition", err)
	}

	if initial == nil || initial.D != d {
		return nil, gerrors.New(gerrors.CodeResourceError, "initial grid shape mismatch")
	}

	a := initial.Clone()
	b := initial.Clone()

	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, os.Stdout)
	}

	eng := &Engine{
		d:       d,
		eps:     eps,
		workers: workers,
		bands:   bands,
		pair:    grid.NewBufferPair(a, b),
		logger:  logger,
	}
	// BARRIER-1's completion action runs the convergence decision exactly
	// once, inside the barrier's critical section, before any of the
	// workers+1 parties (including the coordinator itself) can return from
	// Wait. That gives every party a happens-before edge to the decision
	// instead of racing to read it after an unsynchronized release.
	eng.barrier1 = NewBarrier(workers+1, eng.decide)
	eng.barrier2 = NewBarrier(workers+1, nil)
	return eng, nil
}

// Run executes the relaxation loop to convergence and returns the final
// output grid plus the number of iterations performed.
func (e *Engine) Run(ctx context.Context) (*grid.Grid, int, error) {
	e.ctx = ctx
	e.tracer = otel.Tracer("gridrelax")

	var wg sync.WaitGroup
	wg.Add(e.workers)
	for _, band := range e.bands {
		band := band
		go func() {
			defer wg.Done()
			e.workerLoop(band)
		}()
	}

	for {
		e.barrier1.Wait()
		terminate := e.terminate.Load()
		e.barrier2.Wait()
		if terminate {
			break
		}
	}

	wg.Wait()
	return e.pair.Output(), e.iteration, nil
}

// decide is BARRIER-1's completion action: it runs exactly once per
// iteration, on whichever goroutine is the last of the workers+1 parties to
// arrive, while that goroutine still holds the barrier's internal lock. It
// compares the input and output buffers, stores the terminate flag, and
// swaps the pair if relaxation should continue — all before BARRIER-1
// releases anyone, so every worker's and the coordinator's read of the
// terminate flag right after Wait is guaranteed to observe this iteration's
// decision, never a stale one.
func (e *Engine) decide() {
	e.iteration++

	_, span := e.tracer.Start(e.ctx, "sms.iteration")
	in := e.pair.Input()
	out := e.pair.Output()
	converged := grid.Converged(in, out, 1, e.d-1, e.eps)
	span.SetAttributes(
		attribute.Int("gridrelax.iteration", e.iteration),
		attribute.Bool("gridrelax.converged", converged),
	)
	span.End()

	if converged {
		e.terminate.Store(true)
	} else {
		e.pair.Swap()
	}
}

// workerLoop relaxes band's rows each iteration until the terminate flag is
// observed after BARRIER-1.
func (e *Engine) workerLoop(band grid.Band) {
	rowLo := band.Start + 1
	rowHi := band.End + 1

	for {
		in := e.pair.Input()
		out := e.pair.Output()
		grid.RelaxRows(in, out, rowLo, rowHi)

		e.barrier1.Wait()
		terminate := e.terminate.Load()
		e.barrier2.Wait()
		if terminate {
			return
		}
	}
}
