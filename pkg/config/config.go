// Package config provides configuration management for the grid solver.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the solver binaries.
type Config struct {
	Solver   SolverConfig   `mapstructure:"solver"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
}

// SolverConfig holds solver-wide defaults shared by SMS and DMS.
type SolverConfig struct {
	Dimension int     `mapstructure:"dimension"`
	Precision float64 `mapstructure:"precision"`
	Workers   int     `mapstructure:"workers"`   // SMS worker count
	Peers     int     `mapstructure:"peers"`     // DMS peer count
	Transport string  `mapstructure:"transport"` // "pipe" or "tcp"
	DataDir   string  `mapstructure:"data_dir"`
}

// DatabaseConfig holds the audit-ledger connection configuration.
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // sqlite, postgres, or mysql
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds grid-file storage configuration.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // local or cos
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`
	Scheme    string `mapstructure:"scheme"`
	LocalPath string `mapstructure:"local_path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/gridrelax")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw bytes (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("solver.dimension", 10)
	v.SetDefault("solver.precision", 0.001)
	v.SetDefault("solver.workers", 4)
	v.SetDefault("solver.peers", 4)
	v.SetDefault("solver.transport", "pipe")
	v.SetDefault("solver.data_dir", "./data")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.database", "./data/gridrelax.db")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./grids")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "./logs")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Solver.Dimension < 3 {
		return fmt.Errorf("solver dimension must be >= 3")
	}
	if c.Solver.Precision <= 0 {
		return fmt.Errorf("solver precision must be positive")
	}

	switch c.Database.Type {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	switch c.Storage.Type {
	case "local", "cos":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	return nil
}

// EnsureDataDir creates the solver data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	if c.Solver.DataDir == "" {
		return nil
	}
	return os.MkdirAll(c.Solver.DataDir, 0755)
}

// GridFilePath returns the conventional input grid path for dimension D.
func (c *Config) GridFilePath(d int) string {
	return filepath.Join(c.Storage.LocalPath, fmt.Sprintf("grid_%d.bin", d))
}

// GridOutputPath returns the conventional output grid path for dimension D.
func (c *Config) GridOutputPath(d int) string {
	return filepath.Join(c.Storage.LocalPath, fmt.Sprintf("grid_%d_out.bin", d))
}
