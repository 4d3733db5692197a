// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vizier-labs/vizier/internal/log"
	"github.com/vizier-labs/vizier/pkg/dataapi"
	"github.com/vizier-labs/vizier/pkg/server"
	"github.com/vizier-labs/vizier/pkg/session"
	"github.com/vizier-labs/vizier/pkg/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chart builder HTTP server",
	Long: heredoc.Doc(`
		Start the Vizier server. Serves the chart builder JSON API, the
		session event stream (SSE), and chart export downloads. Sessions
		live in memory; saved charts and dashboards persist in SQLite.
	`),
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := log.Init(config.Logging.Level, config.Logging.Format); err != nil {
		return err
	}
	logger := log.Logger()
	defer func() { _ = log.Sync() }()

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Info("loaded config", zap.String("file", used))
	}

	// Live log-level changes on config file edits.
	viper.OnConfigChange(func(e fsnotify.Event) {
		level := viper.GetString("logging.level")
		format := viper.GetString("logging.format")
		if err := log.Init(level, format); err != nil {
			logger.Warn("ignoring bad logging config", zap.Error(err))
			return
		}
		log.Info("config reloaded",
			zap.String("file", e.Name), zap.String("log_level", level))
	})
	viper.WatchConfig()

	st, err := store.Open(config.Database.Path, logger.Named("store"))
	if err != nil {
		return err
	}
	defer st.Close()

	backend := dataapi.NewClient(dataapi.Config{
		BaseURL: config.Backend.URL,
		Timeout: time.Duration(config.Backend.TimeoutSeconds) * time.Second,
		Logger:  logger.Named("backend"),
	})

	sessions := session.NewManager(config.Sessions.TTL(), logger.Named("sessions"))

	cors := server.DefaultCORSConfig()
	if len(config.Server.CORSOrigins) > 0 {
		cors.AllowedOrigins = config.Server.CORSOrigins
	}

	srv, err := server.New(server.Config{
		Addr:     config.Server.Addr(),
		Sessions: sessions,
		Store:    st,
		Backend:  backend,
		CORS:     &cors,
		Logger:   logger.Named("http"),
	})
	if err != nil {
		return err
	}

	// Maintenance sweep: expired sessions and stale geojson cache entries.
	c := cron.New()
	_, err = c.AddFunc(config.Sessions.MaintenanceSchedule, func() {
		sessions.PurgeExpired()
		backend.PurgeGeoJSONCache(24 * time.Hour)
	})
	if err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
