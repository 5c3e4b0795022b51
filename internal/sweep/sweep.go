// Package sweep runs the scalability matrix described by the original
// Slurm batch generator (original_source/slurm_writer.c): the solver
// exercised across a grid of dimension / precision / participant-count
// combinations. Where the original emitted one sbatch script per cell for
// an external scheduler, sweep instead runs the matrix in-process using a
// bounded worker pool, while --emit-slurm still reproduces the original
// batch-script contract for environments with a real scheduler.
package sweep

import (
	"context"
	"time"

	"github.com/gridrelax/gridrelax/pkg/model"
	"github.com/gridrelax/gridrelax/pkg/parallel"
)

// Cell is one point in the scalability matrix.
type Cell struct {
	Label        string // "precision", "dimension", "simple", "processes", "di_pro" — matches the original's scan names
	Dimension    int
	Precision    float64
	Participants int
	Mode         model.Mode
}

// CellResult is the outcome of running one Cell.
type CellResult struct {
	Cell       Cell
	Iterations int
	DurationMS int64
	Converged  bool
	Error      string
}

// Report summarizes a completed sweep.
type Report struct {
	Cells []CellResult
}

// Solve runs a single matrix cell and is supplied by the caller (the CLI
// wires this to internal/sms.Engine.Run or internal/dms.RunSimulated).
type Solve func(ctx context.Context, cell Cell) (iterations int, converged bool, err error)

// RunMatrix executes cells through solve using a bounded worker pool,
// returning one CellResult per cell in input order.
func RunMatrix(ctx context.Context, cells []Cell, maxConcurrency int, solve Solve) Report {
	pool := parallel.NewWorkerPool[Cell, CellResult](
		parallel.DefaultPoolConfig().WithWorkers(maxConcurrency),
	)

	results := pool.ExecuteFunc(ctx, cells, func(ctx context.Context, cell Cell) (CellResult, error) {
		start := time.Now()
		iterations, converged, err := solve(ctx, cell)
		res := CellResult{
			Cell:       cell,
			Iterations: iterations,
			DurationMS: time.Since(start).Milliseconds(),
			Converged:  converged,
		}
		if err != nil {
			res.Error = err.Error()
		}
		return res, nil
	})

	report := Report{Cells: make([]CellResult, len(results))}
	for i, r := range results {
		report.Cells[i] = r.Result
	}
	return report
}
