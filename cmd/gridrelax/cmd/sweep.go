package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridrelax/gridrelax/internal/dms"
	"github.com/gridrelax/gridrelax/internal/sms"
	"github.com/gridrelax/gridrelax/internal/sweep"
	"github.com/gridrelax/gridrelax/pkg/compression"
	"github.com/gridrelax/gridrelax/pkg/grid"
	"github.com/gridrelax/gridrelax/pkg/model"
)

var (
	sweepDimension     int
	sweepPrecision     float64
	sweepParticipants  int
	sweepMode          string
	sweepMaxConcurrent int
	sweepReportPath    string
	sweepGzip          bool
	sweepZstd          bool
	sweepEmitSlurm     bool
	sweepSlurmDir      string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the scalability scan across dimension/precision/participant-count",
	Long: `sweep runs the five scan families (precision, dimension, simple-boundary,
processes, di_pro) the original Slurm batch generator parameterized one
sbatch script per cell, but in-process via a bounded worker pool instead of
submitting to an external scheduler. Pass --emit-slurm to additionally write
the original's batch-script contract to disk.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	binName := BinName()
	sweepCmd.Example = fmt.Sprintf(`  # Run the default scan and write a gzip report
  %s sweep --report sweep-report.json.gz --gzip

  # Emit Slurm batch scripts for the scan instead of/in addition to running it
  %s sweep --emit-slurm --slurm-dir ./batches`,
		binName, binName)

	sweepCmd.Flags().IntVarP(&sweepDimension, "dimension", "d", 20, "Base grid dimension for scan families that hold it fixed")
	sweepCmd.Flags().Float64VarP(&sweepPrecision, "precision", "p", 0.01, "Base precision for scan families that hold it fixed")
	sweepCmd.Flags().IntVarP(&sweepParticipants, "participants", "n", 4, "Base participant count for scan families that hold it fixed")
	sweepCmd.Flags().StringVar(&sweepMode, "mode", "sms", "Solver core for fixed-participant scans: sms or dms")
	sweepCmd.Flags().IntVar(&sweepMaxConcurrent, "max-concurrency", 4, "Maximum concurrent cell runs")
	sweepCmd.Flags().StringVar(&sweepReportPath, "report", "sweep-report.json", "Report output path")
	sweepCmd.Flags().BoolVar(&sweepGzip, "gzip", false, "Gzip-compress the report")
	sweepCmd.Flags().BoolVar(&sweepZstd, "zstd", false, "Zstd-compress the report instead of gzip (overrides --gzip)")
	sweepCmd.Flags().BoolVar(&sweepEmitSlurm, "emit-slurm", false, "Also write one Slurm batch script per cell")
	sweepCmd.Flags().StringVar(&sweepSlurmDir, "slurm-dir", "./batches", "Output directory for --emit-slurm")
}

func runSweep(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	mode := model.ModeSMS
	if sweepMode == "dms" {
		mode = model.ModeDMS
	}

	base := sweep.Cell{
		Dimension:    sweepDimension,
		Precision:    sweepPrecision,
		Participants: sweepParticipants,
		Mode:         mode,
	}
	cells := sweep.BuildMatrix(base, sweep.DefaultScan())
	log.Info("Built scan matrix: %d cells", len(cells))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report := sweep.RunMatrix(ctx, cells, sweepMaxConcurrent, solveCell)

	converged := 0
	for _, r := range report.Cells {
		if r.Converged {
			converged++
		}
	}
	log.Info("Sweep complete: %d/%d cells converged", converged, len(report.Cells))

	switch {
	case sweepZstd:
		if err := sweep.WriteReportCompressed(report, sweepReportPath, compression.TypeZstd); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	default:
		if err := sweep.WriteReport(report, sweepReportPath, sweepGzip); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	log.Info("Wrote report to %s", sweepReportPath)

	if sweepEmitSlurm {
		paths, err := sweep.EmitSlurm(cells, sweep.DefaultSlurmOptions(sweepSlurmDir))
		if err != nil {
			return fmt.Errorf("failed to emit slurm scripts: %w", err)
		}
		log.Info("Wrote %d Slurm batch scripts to %s", len(paths), sweepSlurmDir)
	}

	return nil
}

// solveCell runs one scan cell against a synthetic grid (boundary fixed at
// 100, interior at 0) rather than requiring a pre-generated grid file per
// cell dimension, since the scan sweeps dimension itself.
func solveCell(ctx context.Context, cell sweep.Cell) (int, bool, error) {
	g := syntheticGrid(cell.Dimension)

	switch cell.Mode {
	case model.ModeDMS:
		_, iterations, err := dms.RunSimulated(ctx, cell.Dimension, cell.Precision, cell.Participants, g, nil)
		return iterations, err == nil, err
	default:
		engine, err := sms.NewEngine(cell.Dimension, cell.Precision, cell.Participants, g, nil)
		if err != nil {
			return 0, false, err
		}
		_, iterations, err := engine.Run(ctx)
		return iterations, err == nil, err
	}
}

func syntheticGrid(d int) *grid.Grid {
	g := grid.New(d)
	for c := 0; c < d; c++ {
		g.Set(0, c, 100)
		g.Set(d-1, c, 100)
	}
	for r := 0; r < d; r++ {
		g.Set(r, 0, 100)
		g.Set(r, d-1, 100)
	}
	return g
}
