//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, the retail-insights authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for retail-insights.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for retail-insights.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`

	// Load holds configuration for the load subcommand.
	Load LoadConfig `mapstructure:"load"`

	// Build holds configuration for the build subcommand.
	Build BuildConfig `mapstructure:"build"`

	// Report holds configuration for the report subcommand.
	Report ReportConfig `mapstructure:"report"`
}

// SeedConfig holds configuration for synthetic staging data generation.
type SeedConfig struct {
	// Rows is the number of staging rows to generate.
	Rows int `mapstructure:"rows"`

	// RandomSeed makes generation reproducible when non-zero.
	RandomSeed uint64 `mapstructure:"random_seed"`

	// Truncate empties the staging table before seeding.
	Truncate bool `mapstructure:"truncate"`
}

// LoadConfig holds configuration for CSV staging ingestion.
type LoadConfig struct {
	// File is the path to the raw transactions CSV.
	File string `mapstructure:"file"`

	// Truncate empties the staging table before loading.
	Truncate bool `mapstructure:"truncate"`
}

// BuildConfig holds configuration for the pipeline build.
type BuildConfig struct {
	// AsOf is the reference date for recency scoring (YYYY-MM-DD).
	// Empty means "today". Pinning it makes segmentation reproducible.
	AsOf string `mapstructure:"as_of"`
}

// ReportConfig holds configuration for report execution.
type ReportConfig struct {
	// Format is the output format: table or csv.
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Seed: SeedConfig{
			Rows:     50000,
			Truncate: true,
		},
		Load: LoadConfig{
			Truncate: true,
		},
		Report: ReportConfig{
			Format: "table",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./retail-insights.yaml
// 3. ~/.config/retail-insights/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("retail-insights")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "retail-insights"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Seed.Rows < 1 {
		return fmt.Errorf("seed rows must be at least 1")
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Load.File == "" {
		return fmt.Errorf("input file is required for load")
	}
	return nil
}

// ValidateBuild checks configuration required for the build command.
func (c *Config) ValidateBuild() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Build.AsOf != "" {
		if _, err := time.Parse("2006-01-02", c.Build.AsOf); err != nil {
			return fmt.Errorf("as_of must be a YYYY-MM-DD date: %w", err)
		}
	}
	return nil
}

// ValidateReport checks configuration required for the report command.
func (c *Config) ValidateReport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Report.Format != "table" && c.Report.Format != "csv" {
		return fmt.Errorf("report format must be 'table' or 'csv'")
	}
	return nil
}

// AsOfTime resolves the build reference date. An empty AsOf means the
// current day truncated to midnight UTC.
func (c *Config) AsOfTime() time.Time {
	if c.Build.AsOf == "" {
		return time.Now().UTC().Truncate(24 * time.Hour)
	}
	t, err := time.Parse("2006-01-02", c.Build.AsOf)
	if err != nil {
		return time.Now().UTC().Truncate(24 * time.Hour)
	}
	return t
}
