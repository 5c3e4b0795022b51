// Package audit persists a history of solver runs (mode, dimension,
// precision, participant count, iterations, duration, outcome) to a
// relational database via GORM, so runs driven through internal/service
// build an auditable record across sqlite, postgres, and mysql backends.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/gridrelax/gridrelax/pkg/config"
	"github.com/gridrelax/gridrelax/pkg/model"
	"github.com/gridrelax/gridrelax/pkg/telemetry"
)

// OpenDB opens a GORM connection based on cfg, mirroring the teacher's
// postgres/mysql dialector switch with an added sqlite path (the default
// backend for local/single-node runs).
func OpenDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Type {
	case "sqlite":
		path := cfg.Database
		if path == "" {
			path = "gridrelax.db"
		}
		dialector = sqlite.Open(path)
	case "postgres", "postgresql":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database,
		)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		)
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if telemetry.Enabled() {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, fmt.Errorf("failed to enable telemetry: %w", err)
		}
	}

	if cfg.Type != "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		maxConns := cfg.MaxConns
		if maxConns <= 0 {
			maxConns = 10
		}
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns(maxConns / 2)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(30 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	}

	if err := db.AutoMigrate(&model.RunRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate run_records: %w", err)
	}

	return db, nil
}

// HealthCheck pings the underlying connection, used by Service.HealthCheck
// to distinguish a live audit database from one that has dropped its
// connection.
func HealthCheck(ctx context.Context, sqlDB *sql.DB) error {
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("audit database unreachable: %w", err)
	}
	return nil
}
