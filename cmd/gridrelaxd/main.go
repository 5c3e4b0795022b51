// gridrelaxd is the long-running counterpart to the gridrelax CLI: it loads
// a YAML/env configuration, wires the audit ledger and grid-file storage
// through internal/service, and waits for a shutdown signal. Unlike
// gridrelax it takes plain flags rather than cobra subcommands, mirroring
// the teacher's split between a multi-subcommand CLI and a single-purpose
// daemon binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridrelax/gridrelax/internal/service"
	"github.com/gridrelax/gridrelax/pkg/config"
	gerrors "github.com/gridrelax/gridrelax/pkg/errors"
	"github.com/gridrelax/gridrelax/pkg/telemetry"
	"github.com/gridrelax/gridrelax/pkg/utils"
)

var (
	configPath = flag.String("c", "", "Path to configuration file")
	logDir     = flag.String("d", ".", "Directory for log files (not read: gridrelaxd logs to stdout)")
	version    = flag.Bool("v", false, "Print version and exit")
)

// Version information (set by build flags).
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("gridrelaxd version %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		os.Exit(0)
	}

	_ = *logDir // not read: gridrelaxd logs to stdout

	logger := utils.NewDefaultLogger(utils.LevelInfo, os.Stdout)

	logger.Info("Starting gridrelaxd...")
	logger.Info("Version: %s, Commit: %s, Built: %s", Version, GitCommit, BuildTime)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(logger, err)
	}

	logger.Info("Configuration loaded successfully")
	logger.Info("Solver dimension: %d, precision: %g", cfg.Solver.Dimension, cfg.Solver.Precision)
	logger.Info("Database: %s", cfg.Database.Type)
	logger.Info("Storage: %s", cfg.Storage.Type)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := telemetry.Init(ctx)
	if err != nil {
		logger.Warn("Failed to initialize telemetry: %v", err)
	}
	defer shutdownTelemetry(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	svc, err := service.New(cfg, logger)
	if err != nil {
		fail(logger, err)
	}

	if err := svc.Initialize(ctx); err != nil {
		fail(logger, err)
	}

	if err := svc.Start(ctx); err != nil {
		fail(logger, err)
	}

	logger.Info("Service started, waiting for solve requests...")

	select {
	case sig := <-sigChan:
		logger.Info("Received signal %v, initiating graceful shutdown...", sig)
		cancel()
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	if err := svc.Stop(); err != nil {
		logger.Error("Error during shutdown: %v", err)
	}

	logger.Info("gridrelaxd stopped")
}

// fail prints a single-line diagnostic derived from err's AppError
// code/message, if any, to standard error and exits nonzero.
func fail(logger utils.Logger, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", gerrors.GetErrorCode(err), gerrors.GetErrorMessage(err))
	os.Exit(1)
}
