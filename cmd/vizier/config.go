// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultConfigFileName is the name of the config file (without extension).
const DefaultConfigFileName = "vizier"

// Config holds all configuration for the Vizier server.
// Priority: CLI flags > config file > env vars > defaults
type Config struct {
	// DataDir is computed from VIZIER_DATA_DIR or ~/.vizier; not loaded
	// from the config file.
	DataDir string `mapstructure:"-"`

	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Database DatabaseConfig `mapstructure:"database"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// CORSOrigins restricts browser access; empty means allow all.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Addr returns the host:port the server listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig points at the data API that runs queries and serves
// catalog metadata and geographic boundaries.
type BackendConfig struct {
	URL string `mapstructure:"url"`

	// TimeoutSeconds bounds each backend request (default 30).
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// DatabaseConfig holds the saved-chart store configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SessionsConfig tunes builder session lifecycle.
type SessionsConfig struct {
	// TTLMinutes is how long an idle session survives (default 240).
	TTLMinutes int `mapstructure:"ttl_minutes"`

	// MaintenanceSchedule is the cron expression for the cleanup sweep
	// (default "*/10 * * * *").
	MaintenanceSchedule string `mapstructure:"maintenance_schedule"`
}

// TTL returns the session time-to-live.
func (c SessionsConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return 4 * time.Hour
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// dataDir returns the Vizier data directory, creating it if needed.
func dataDir() string {
	dir := os.Getenv("VIZIER_DATA_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dir = filepath.Join(home, ".vizier")
	}
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// LoadConfig loads configuration with viper.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(dataDir())
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/vizier/")
		viper.SetConfigName(DefaultConfigFileName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
		// No config file is fine; flags and env carry the defaults.
	}

	viper.SetEnvPrefix("VIZIER")
	viper.AutomaticEnv()

	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.DataDir = dataDir()
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 5080)
	viper.SetDefault("backend.url", "http://localhost:8000")
	viper.SetDefault("backend.timeout_seconds", 30)
	viper.SetDefault("database.path", filepath.Join(dataDir(), "vizier.db"))
	viper.SetDefault("sessions.ttl_minutes", 240)
	viper.SetDefault("sessions.maintenance_schedule", "*/10 * * * *")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}
