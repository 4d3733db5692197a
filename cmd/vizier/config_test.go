// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("VIZIER_DATA_DIR", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5080", cfg.Server.Addr())
	assert.Equal(t, "http://localhost:8000", cfg.Backend.URL)
	assert.Equal(t, 30, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, 4*time.Hour, cfg.Sessions.TTL())
	assert.Equal(t, "*/10 * * * *", cfg.Sessions.MaintenanceSchedule)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VIZIER_DATA_DIR", dir)

	content := []byte("server:\n  port: 9999\nlogging:\n  level: debug\n")
	path := filepath.Join(dir, "vizier.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestSessionsConfigTTL(t *testing.T) {
	assert.Equal(t, 4*time.Hour, SessionsConfig{}.TTL())
	assert.Equal(t, 30*time.Minute, SessionsConfig{TTLMinutes: 30}.TTL())
}
