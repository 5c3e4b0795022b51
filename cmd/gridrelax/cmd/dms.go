package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridrelax/gridrelax/internal/dms"
	"github.com/gridrelax/gridrelax/internal/gridio"
	"github.com/gridrelax/gridrelax/pkg/grid"
	"github.com/gridrelax/gridrelax/pkg/utils"
)

var (
	dmsDimension int
	dmsPrecision float64
	dmsPeers     int
	dmsFile      string
	dmsOutFile   string
	dmsTransport string
	dmsSpawn     bool
	dmsRank      int
	dmsPeerAddrs string
)

var dmsCmd = &cobra.Command{
	Use:   "dms",
	Short: "Solve a grid with a simulated distributed-memory peer topology",
	Long: `dms loads a D x D grid from file, partitions it into row strips across
a set of peers, and relaxes it to convergence via halo-row exchange and a
ring all-reduce, the way the distributed core would run across separate
processes.`,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE:               runDMS,
}

func init() {
	rootCmd.AddCommand(dmsCmd)

	binName := BinName()
	dmsCmd.Example = fmt.Sprintf(`  # Solve a 100x100 grid across 8 simulated peers
  %s dms -d 100 -p 0.001 -n 8 -f grids/grid_100.bin

  # Run this process as peer 2 of a real 4-process TCP run, one invocation
  # per peer, each given the same --peer-addrs list in rank order
  %s dms -d 100 -p 0.001 -n 4 -f grids/grid_100.bin \
      --transport tcp --spawn --rank 2 \
      --peer-addrs 127.0.0.1:9000,127.0.0.1:9001,127.0.0.1:9002,127.0.0.1:9003`,
		binName, binName)

	dmsCmd.Flags().IntVarP(&dmsDimension, "dimension", "d", 0, "Grid dimension D (required)")
	dmsCmd.Flags().Float64VarP(&dmsPrecision, "precision", "p", 0.001, "Convergence threshold epsilon")
	dmsCmd.Flags().IntVarP(&dmsPeers, "peers", "n", 4, "Number of peers")
	dmsCmd.Flags().StringVarP(&dmsFile, "file", "f", "", "Input grid file (default grids/grid_D.bin)")
	dmsCmd.Flags().StringVarP(&dmsOutFile, "output", "o", "", "Output grid file (default grids/grid_D_out.bin)")
	dmsCmd.Flags().StringVar(&dmsTransport, "transport", "pipe", "Peer transport: pipe (in-process net.Pipe simulation) or tcp (requires --spawn)")
	dmsCmd.Flags().BoolVar(&dmsSpawn, "spawn", false, "Run this invocation as a single peer process (required for --transport tcp)")
	dmsCmd.Flags().IntVar(&dmsRank, "rank", -1, "This process's peer rank, 0-based (required with --spawn)")
	dmsCmd.Flags().StringVar(&dmsPeerAddrs, "peer-addrs", "", "Comma-separated listen address per peer, indexed by rank (required with --spawn)")
	dmsCmd.MarkFlagRequired("dimension")
}

func runDMS(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if dmsSpawn {
		if dmsTransport != "tcp" {
			return fmt.Errorf("--spawn requires --transport tcp, got %q", dmsTransport)
		}
		return runDMSSpawnedPeer(ctx, log)
	}
	if dmsTransport != "pipe" {
		return fmt.Errorf("transport %q requires --spawn (one OS process per peer); without --spawn only pipe-simulated peers run in-process", dmsTransport)
	}

	inPath := dmsFile
	if inPath == "" {
		inPath = fmt.Sprintf("grids/grid_%d.bin", dmsDimension)
	}
	outPath := dmsOutFile
	if outPath == "" {
		outPath = fmt.Sprintf("grids/grid_%d_out.bin", dmsDimension)
	}

	reader, err := gridio.OpenLocalFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to open input grid: %w", err)
	}
	defer reader.Close()

	initial, err := reader.ReadRows(ctx, dmsDimension, 0, dmsDimension)
	if err != nil {
		return fmt.Errorf("failed to read input grid: %w", err)
	}

	log.Info("Solving %dx%d grid with %d peers, precision %g", dmsDimension, dmsDimension, dmsPeers, dmsPrecision)

	start := time.Now()
	out, iterations, err := dms.RunSimulated(ctx, dmsDimension, dmsPrecision, dmsPeers, initial, log)
	if err != nil {
		return fmt.Errorf("relaxation failed: %w", err)
	}

	log.Info("Converged after %d iterations in %s", iterations, time.Since(start))

	if err := writeGridOutput(ctx, outPath, dmsDimension, out); err != nil {
		return err
	}

	log.Info("Wrote converged grid to %s", outPath)
	return nil
}

// runDMSSpawnedPeer runs this process as exactly one peer of a real
// multi-process DMS run, dialing its neighbors over TCP via
// internal/dms.DialTCPTopology instead of the in-process net.Pipe
// simulation. Every peer's invocation must share the same -d, -n, and
// --peer-addrs, differing only in --rank.
func runDMSSpawnedPeer(ctx context.Context, log utils.Logger) error {
	if dmsRank < 0 || dmsRank >= dmsPeers {
		return fmt.Errorf("--rank must be in [0, %d) with --peers %d, got %d", dmsPeers, dmsPeers, dmsRank)
	}
	addrs := strings.Split(dmsPeerAddrs, ",")
	if len(addrs) != dmsPeers {
		return fmt.Errorf("--peer-addrs must list exactly %d addresses (one per peer), got %d", dmsPeers, len(addrs))
	}
	for i, a := range addrs {
		addrs[i] = strings.TrimSpace(a)
	}

	inPath := dmsFile
	if inPath == "" {
		inPath = fmt.Sprintf("grids/grid_%d.bin", dmsDimension)
	}
	outPath := dmsOutFile
	if outPath == "" {
		outPath = fmt.Sprintf("grids/grid_%d_out.bin", dmsDimension)
	}

	bands, err := grid.Partition(dmsDimension, dmsPeers)
	if err != nil {
		return fmt.Errorf("invalid peer decomposition: %w", err)
	}
	band := bands[dmsRank]

	reader, err := gridio.OpenLocalFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to open input grid: %w", err)
	}
	defer reader.Close()

	strip, err := reader.ReadRows(ctx, dmsDimension, band.Start, band.Len())
	if err != nil {
		return fmt.Errorf("failed to read peer %d's strip: %w", dmsRank, err)
	}

	log.Info("Peer %d dialing ring topology (%d peers)", dmsRank, dmsPeers)
	links, err := dms.DialTCPTopology(dmsDimension, addrs, dmsRank)
	if err != nil {
		return fmt.Errorf("failed to establish peer topology: %w", err)
	}

	peer, err := dms.NewPeer(dmsRank, dmsPeers, dmsDimension, dmsPrecision, band, strip, links, log)
	if err != nil {
		return fmt.Errorf("failed to build peer %d: %w", dmsRank, err)
	}

	log.Info("Peer %d relaxing rows [%d, %d) of %dx%d grid, precision %g", dmsRank, band.Start, band.End, dmsDimension, dmsDimension, dmsPrecision)

	start := time.Now()
	out, iterations, err := peer.Run(ctx)
	if err != nil {
		return fmt.Errorf("relaxation failed: %w", err)
	}
	log.Info("Peer %d converged after %d iterations in %s", dmsRank, iterations, time.Since(start))

	writer, err := gridio.OpenLocalFile(outPath)
	if err != nil {
		return fmt.Errorf("failed to open output grid: %w", err)
	}
	defer writer.Close()

	if err := writer.WriteRows(ctx, dmsDimension, band.Start, out); err != nil {
		return fmt.Errorf("failed to write peer %d's strip: %w", dmsRank, err)
	}

	log.Info("Peer %d wrote rows [%d, %d) to %s", dmsRank, band.Start, band.End, outPath)
	return nil
}
