// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Vizier configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: heredoc.Doc(`
		Write a vizier.yaml with the current effective configuration to the
		data directory. Existing files are not overwritten.
	`),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// configFileView is the YAML shape written by config init. Field names match
// the mapstructure keys LoadConfig reads back.
type configFileView struct {
	Server   map[string]interface{} `yaml:"server"`
	Backend  map[string]interface{} `yaml:"backend"`
	Database map[string]interface{} `yaml:"database"`
	Sessions map[string]interface{} `yaml:"sessions"`
	Logging  map[string]interface{} `yaml:"logging"`
}

func configView(cfg *Config) configFileView {
	return configFileView{
		Server: map[string]interface{}{
			"host":         cfg.Server.Host,
			"port":         cfg.Server.Port,
			"cors_origins": cfg.Server.CORSOrigins,
		},
		Backend: map[string]interface{}{
			"url":             cfg.Backend.URL,
			"timeout_seconds": cfg.Backend.TimeoutSeconds,
		},
		Database: map[string]interface{}{
			"path": cfg.Database.Path,
		},
		Sessions: map[string]interface{}{
			"ttl_minutes":          cfg.Sessions.TTLMinutes,
			"maintenance_schedule": cfg.Sessions.MaintenanceSchedule,
		},
		Logging: map[string]interface{}{
			"level":  cfg.Logging.Level,
			"format": cfg.Logging.Format,
		},
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(config.DataDir, DefaultConfigFileName+".yaml")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	out, err := yaml.Marshal(configView(config))
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out, err := yaml.Marshal(configView(config))
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
