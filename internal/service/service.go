// Package service wires the grid solver's collaborators — audit ledger,
// grid-file storage, and the SMS/DMS engines — into a single entry point
// used by cmd/gridrelaxd. cmd/gridrelax calls the engines directly.
package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/gridrelax/gridrelax/internal/audit"
	"github.com/gridrelax/gridrelax/internal/dms"
	"github.com/gridrelax/gridrelax/internal/gridio"
	"github.com/gridrelax/gridrelax/internal/sms"
	"github.com/gridrelax/gridrelax/pkg/config"
	"github.com/gridrelax/gridrelax/pkg/grid"
	"github.com/gridrelax/gridrelax/pkg/model"
	"github.com/gridrelax/gridrelax/pkg/utils"
)

// Service is the main application service: it owns the audit database
// connection and the grid-file backend, and drives solver runs against
// them.
type Service struct {
	config *config.Config
	logger utils.Logger

	gormDB   *gorm.DB
	auditLog audit.Repository

	running bool
}

// New creates a new Service instance.
func New(cfg *config.Config, logger utils.Logger) (*Service, error) {
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, os.Stdout)
	}
	return &Service{config: cfg, logger: logger}, nil
}

// Initialize connects the audit database and ensures the grid-file data
// directory exists.
func (s *Service) Initialize(ctx context.Context) error {
	s.logger.Info("Initializing service components...")

	if err := s.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := s.initStorage(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	s.logger.Info("Service components initialized successfully")
	return nil
}

func (s *Service) initDatabase() error {
	s.logger.Info("Connecting to database (%s)...", s.config.Database.Type)

	db, err := audit.OpenDB(&s.config.Database)
	if err != nil {
		return err
	}
	s.gormDB = db
	s.auditLog = audit.NewGormRepository(db)

	s.logger.Info("Database connection established")
	return nil
}

func (s *Service) initStorage() error {
	s.logger.Info("Initializing storage (%s)...", s.config.Storage.Type)
	if err := s.config.EnsureDataDir(); err != nil {
		return err
	}
	s.logger.Info("Storage initialized")
	return nil
}

// Solve runs req through the appropriate engine, loading the input grid
// through the configured gridio backend, and records the outcome to the
// audit ledger.
func (s *Service) Solve(ctx context.Context, req model.SolveRequest) (*model.SolveResult, error) {
	start := time.Now()

	reader, err := s.openGridBackend(req.InputPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	initial, err := reader.ReadRows(ctx, req.Dimension, 0, req.Dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to read input grid: %w", err)
	}

	var (
		out        *grid.Grid
		iterations int
		solveErr   error
	)

	switch req.Mode {
	case model.ModeSMS:
		var engine *sms.Engine
		engine, solveErr = sms.NewEngine(req.Dimension, req.Precision, req.Participants, initial, s.logger)
		if solveErr == nil {
			out, iterations, solveErr = engine.Run(ctx)
		}
	case model.ModeDMS:
		out, iterations, solveErr = dms.RunSimulated(ctx, req.Dimension, req.Precision, req.Participants, initial, s.logger)
	default:
		solveErr = fmt.Errorf("unknown solve mode: %s", req.Mode)
	}

	result := &model.SolveResult{
		Iterations: iterations,
		Duration:   time.Since(start),
		Converged:  solveErr == nil,
	}

	if solveErr == nil && req.OutputPath != "" {
		writer, err := s.openGridBackend(req.OutputPath)
		if err == nil {
			defer writer.Close()
			if err := writer.WriteRows(ctx, req.Dimension, 0, out); err != nil {
				s.logger.Error("failed to write output grid: %v", err)
			}
		}
	}

	s.recordRun(ctx, req, result, solveErr)

	if solveErr != nil {
		return result, solveErr
	}
	return result, nil
}

func (s *Service) recordRun(ctx context.Context, req model.SolveRequest, result *model.SolveResult, solveErr error) {
	if s.auditLog == nil {
		return
	}
	rec := &model.RunRecord{
		Mode:         string(req.Mode),
		Dimension:    req.Dimension,
		Precision:    req.Precision,
		Participants: req.Participants,
		Iterations:   result.Iterations,
		DurationMS:   result.Duration.Milliseconds(),
		Converged:    result.Converged,
		CreatedAt:    time.Now(),
	}
	if solveErr != nil {
		rec.Error = solveErr.Error()
	}
	if _, err := s.auditLog.Record(ctx, rec); err != nil {
		s.logger.Error("failed to record run in audit ledger: %v", err)
	}
}

// openGridBackend picks the local-file or COS gridio backend based on
// config.Storage.Type, addressing path as either a filesystem path or a COS
// object key.
func (s *Service) openGridBackend(path string) (gridio.ReadWriter, error) {
	switch s.config.Storage.Type {
	case "cos":
		return gridio.NewCOSFile(&gridio.COSConfig{
			Bucket:    s.config.Storage.Bucket,
			Region:    s.config.Storage.Region,
			SecretID:  s.config.Storage.SecretID,
			SecretKey: s.config.Storage.SecretKey,
			Domain:    s.config.Storage.Domain,
			Scheme:    s.config.Storage.Scheme,
			Key:       path,
		})
	default:
		return gridio.OpenLocalFile(path)
	}
}

// Start marks the service as running. Unlike the teacher's long-running
// scheduler loop, solver runs are request/response (one Solve call per
// invocation), so Start only sets the flag reported by IsRunning.
func (s *Service) Start(ctx context.Context) error {
	s.running = true
	s.logger.Info("Service started")
	return nil
}

// Stop closes the audit database connection.
func (s *Service) Stop() error {
	s.logger.Info("Stopping service...")
	if s.gormDB != nil {
		if sqlDB, err := s.gormDB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				s.logger.Error("failed to close database connection: %v", err)
			}
		}
	}
	s.running = false
	s.logger.Info("Service stopped")
	return nil
}

// IsRunning reports whether Start has been called without a matching Stop.
func (s *Service) IsRunning() bool {
	return s.running
}

// HealthCheck verifies the audit database connection is alive.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.gormDB == nil {
		return nil
	}
	sqlDB, err := s.gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return audit.HealthCheck(ctx, sqlDB)
}
