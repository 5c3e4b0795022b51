package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  type: sqlite
storage:
  type: local
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, 10, cfg.Solver.Dimension)
	assert.Equal(t, 0.001, cfg.Solver.Precision)
	assert.Equal(t, 4, cfg.Solver.Workers)
	assert.Equal(t, "pipe", cfg.Solver.Transport)
}

func TestLoad_CustomValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
solver:
  dimension: 64
  precision: 0.0001
  workers: 8
  peers: 8
  transport: tcp
database:
  type: postgres
  host: db.example.com
  port: 5432
  database: gridrelax
  user: admin
  password: secret
storage:
  type: local
  local_path: /tmp/storage
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Solver.Dimension)
	assert.Equal(t, 0.0001, cfg.Solver.Precision)
	assert.Equal(t, 8, cfg.Solver.Workers)
	assert.Equal(t, "tcp", cfg.Solver.Transport)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "gridrelax", cfg.Database.Database)
}

func TestLoad_InvalidDatabaseType(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  type: oracle
storage:
  type: local
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	_, err = Load(configFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestLoad_COSWithCredentials(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  type: sqlite
storage:
  type: cos
  bucket: test-bucket
  region: ap-guangzhou
  secret_id: test-id
  secret_key: test-key
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, "cos", cfg.Storage.Type)
	assert.Equal(t, "test-bucket", cfg.Storage.Bucket)
}

func TestValidate_InvalidDimension(t *testing.T) {
	cfg := &Config{
		Solver:   SolverConfig{Dimension: 2, Precision: 0.01},
		Database: DatabaseConfig{Type: "sqlite"},
		Storage:  StorageConfig{Type: "local"},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dimension must be >= 3")
}

func TestValidate_NonPositivePrecision(t *testing.T) {
	cfg := &Config{
		Solver:   SolverConfig{Dimension: 10, Precision: 0},
		Database: DatabaseConfig{Type: "sqlite"},
		Storage:  StorageConfig{Type: "local"},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "precision must be positive")
}

func TestGridFilePath(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{LocalPath: "/tmp/grids"}}

	assert.Equal(t, "/tmp/grids/grid_8.bin", cfg.GridFilePath(8))
	assert.Equal(t, "/tmp/grids/grid_8_out.bin", cfg.GridOutputPath(8))
}

func TestEnsureDataDir(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "solver", "data")

	cfg := &Config{Solver: SolverConfig{DataDir: dataDir}}

	err := cfg.EnsureDataDir()
	require.NoError(t, err)

	_, err = os.Stat(dataDir)
	assert.NoError(t, err)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadFromReader(t *testing.T) {
	content := []byte(`
database:
  type: mysql
  host: mysql.local
storage:
  type: local
`)
	cfg, err := LoadFromReader("yaml", content)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "mysql.local", cfg.Database.Host)
}
