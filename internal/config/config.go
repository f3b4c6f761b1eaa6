// Package config loads collector configuration from file, environment, and
// defaults.
package config

import (
	"errors"
	"fmt"
)

// Config is the top-level configuration struct for the collector.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// StoreConfig holds the run store location.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// DashboardConfig holds aggregation and asset-generation settings.
type DashboardConfig struct {
	// LoadLimit bounds how many historical rows one aggregation read
	// pulls from the store.
	LoadLimit int    `mapstructure:"load_limit"`
	OutputDir string `mapstructure:"output_dir"`
}

// LogConfig holds structured-logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ErrEmptyStorePath is returned when the store path is unset.
var ErrEmptyStorePath = errors.New("store.path must not be empty")

// ErrNonPositiveLoadLimit is returned for a zero or negative load limit.
var ErrNonPositiveLoadLimit = errors.New("dashboard.load_limit must be positive")

var logLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate checks the unmarshalled configuration for consistency.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return ErrEmptyStorePath
	}

	if c.Dashboard.LoadLimit <= 0 {
		return ErrNonPositiveLoadLimit
	}

	if _, ok := logLevels[c.Log.Level]; !ok {
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}

	return nil
}
