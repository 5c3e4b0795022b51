package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrelax/gridrelax/internal/gridio"
	"github.com/gridrelax/gridrelax/pkg/config"
	"github.com/gridrelax/gridrelax/pkg/grid"
	"github.com/gridrelax/gridrelax/pkg/model"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Solver.DataDir = dir
	cfg.Database.Type = "sqlite"
	cfg.Database.Database = filepath.Join(dir, "audit.db")
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = dir
	return cfg
}

func writeGrid(t *testing.T, path string, d int) {
	f, err := gridio.OpenLocalFile(path)
	require.NoError(t, err)
	defer f.Close()
	g := grid.New(d)
	require.NoError(t, f.WriteRows(context.Background(), d, 0, g))
}

func TestService_InitializeAndHealthCheck(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Initialize(context.Background()))
	defer svc.Stop()

	assert.NoError(t, svc.HealthCheck(context.Background()))
}

func TestService_SolveSMSRecordsAuditRun(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Initialize(context.Background()))
	defer svc.Stop()

	inputPath := filepath.Join(cfg.Storage.LocalPath, "grid_8.bin")
	outputPath := filepath.Join(cfg.Storage.LocalPath, "grid_8_out.bin")
	writeGrid(t, inputPath, 8)

	result, err := svc.Solve(context.Background(), model.SolveRequest{
		Mode:         model.ModeSMS,
		Dimension:    8,
		Precision:    0.1,
		Participants: 2,
		InputPath:    inputPath,
		OutputPath:   outputPath,
	})
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assert.Greater(t, result.Iterations, 0)

	recent, err := svc.auditLog.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "sms", recent[0].Mode)
	assert.True(t, recent[0].Converged)
}

func TestService_SolveInvalidDecompositionRecordsFailure(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Initialize(context.Background()))
	defer svc.Stop()

	inputPath := filepath.Join(cfg.Storage.LocalPath, "grid_4.bin")
	writeGrid(t, inputPath, 4)

	_, err = svc.Solve(context.Background(), model.SolveRequest{
		Mode:         model.ModeSMS,
		Dimension:    4,
		Precision:    0.1,
		Participants: 9,
		InputPath:    inputPath,
	})
	assert.Error(t, err)

	recent, err := svc.auditLog.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.NotEmpty(t, recent[0].Error)
}
