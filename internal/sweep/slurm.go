package sweep

import (
	"fmt"
	"os"
	"path/filepath"
)

// SlurmOptions parameterizes the batch-script contract reproduced from
// original_source/slurm_writer.c.
type SlurmOptions struct {
	OutputDir string // directory to write .batch files into; created if absent
	Account   string // SBATCH --account
	MailUser  string // SBATCH --mail-user
	TimeLimit string // SBATCH --time, e.g. "00:19:30"
	Binary    string // command invoked in place of the original's "mpirun main.exe"
}

// DefaultSlurmOptions mirrors the original's hard-coded account/mail/time.
func DefaultSlurmOptions(outputDir string) SlurmOptions {
	return SlurmOptions{
		OutputDir: outputDir,
		Account:   "cm30225",
		MailUser:  "sm2744@bath.ac.uk",
		TimeLimit: "00:19:30",
		Binary:    "gridrelax dms",
	}
}

// nodesFor reproduces the original's node/task-per-node derivation: one
// node per 44 processes, capped at 4 nodes once participants exceed 132.
func nodesFor(participants int) (nodes, tasksPerNode int) {
	nodes = (participants + 43) / 44
	tasksPerNode = participants / nodes
	if participants > 132 {
		nodes = 4
		tasksPerNode = participants / nodes
	}
	return nodes, tasksPerNode
}

// EmitSlurm writes one .batch script per cell, chaining each to the next via
// a trailing `sbatch <next>` line exactly as writeSlurm() did, and returns
// the paths written in chain order (last cell first, matching the original's
// reverse-accumulation of next_slurm_*).
func EmitSlurm(cells []Cell, opts SlurmOptions) ([]string, error) {
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create slurm output directory: %w", err)
	}

	var written []string
	var nextScript string

	for i := len(cells) - 1; i >= 0; i-- {
		cell := cells[i]
		nodes, tasksPerNode := nodesFor(cell.Participants)

		base := fmt.Sprintf("%s_%d_%g_%d", cell.Label, cell.Dimension, cell.Precision, cell.Participants)
		scriptPath := filepath.Join(opts.OutputDir, base+".batch")
		gridFile := filepath.Join("grids", fmt.Sprintf("grid_%d.bin", cell.Dimension))

		f, err := os.Create(scriptPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", scriptPath, err)
		}

		fmt.Fprintf(f, "#!/bin/bash\n\n")
		fmt.Fprintf(f, "#SBATCH --account=%s\n\n", opts.Account)
		fmt.Fprintf(f, "#SBATCH --job-name=%s\n", base)
		fmt.Fprintf(f, "#SBATCH --output=out/%s.out\n", base)
		fmt.Fprintf(f, "#SBATCH --error=err/%s.err\n\n", base)
		fmt.Fprintf(f, "#SBATCH --nodes=%d\n", nodes)
		fmt.Fprintf(f, "#SBATCH --ntasks-per-node=%d\n\n", tasksPerNode)
		fmt.Fprintf(f, "#SBATCH --time=%s\n", opts.TimeLimit)
		fmt.Fprintf(f, "#SBATCH --mail-type=FAIL\n")
		fmt.Fprintf(f, "#SBATCH --mail-user=%s\n\n", opts.MailUser)
		fmt.Fprintf(f, "%s -d %d -p %.15f -n %d -f %s\n",
			opts.Binary, cell.Dimension, cell.Precision, cell.Participants, gridFile)
		if nextScript != "" {
			fmt.Fprintf(f, "sbatch %s\n", nextScript)
		}

		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("failed to close %s: %w", scriptPath, err)
		}

		written = append(written, scriptPath)
		nextScript = scriptPath
	}

	return written, nil
}
