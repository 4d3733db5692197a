// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package server exposes the chart builder over a JSON HTTP API, with an
// SSE stream carrying session transitions to connected UIs.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vizier-labs/vizier/pkg/dataapi"
	"github.com/vizier-labs/vizier/pkg/render"
	"github.com/vizier-labs/vizier/pkg/session"
	"github.com/vizier-labs/vizier/pkg/store"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig returns a permissive CORS configuration.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled:          true,
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           86400, // 24 hours
	}
}

// Server is the chart builder HTTP server.
type Server struct {
	sessions   *session.Manager
	store      *store.Store
	backend    *dataapi.Client
	renderer   *render.Generator
	httpServer *http.Server
	events     *eventStream
	logger     *zap.Logger
	corsConfig CORSConfig
}

// Config configures the HTTP server.
type Config struct {
	Addr     string
	Sessions *session.Manager
	Store    *store.Store
	Backend  *dataapi.Client
	Style    *render.StyleConfig
	CORS     *CORSConfig
	Logger   *zap.Logger
}

// New creates the server. Sessions, Store and Backend are required.
func New(cfg Config) (*Server, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("server: session manager is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("server: store is required")
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("server: backend client is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cors := DefaultCORSConfig()
	if cfg.CORS != nil {
		cors = *cfg.CORS
	}

	s := &Server{
		sessions:   cfg.Sessions,
		store:      cfg.Store,
		backend:    cfg.Backend,
		renderer:   render.NewGenerator(cfg.Style),
		logger:     logger,
		corsConfig: cors,
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 0, // no timeout for SSE
			IdleTimeout:  120 * time.Second,
		},
	}
	s.events = newEventStream(cfg.Sessions.Events(), logger)
	s.httpServer.Handler = s.routes()
	return s, nil
}

// Handler returns the fully wired handler, for embedding in tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	mux.HandleFunc("/v1/sessions", s.handleSessions)
	mux.HandleFunc("/v1/sessions/", s.handleSession)
	mux.HandleFunc("/v1/charts", s.handleCharts)
	mux.HandleFunc("/v1/charts/import", s.handleChartImport)
	mux.HandleFunc("/v1/charts/", s.handleChart)
	mux.HandleFunc("/v1/dashboards", s.handleDashboards)
	mux.HandleFunc("/v1/dashboards/", s.handleDashboard)
	mux.HandleFunc("/v1/catalog/schemas", s.handleSchemas)
	mux.HandleFunc("/v1/catalog/columns", s.handleColumns)
	mux.HandleFunc("/v1/geo/region-types", s.handleRegionTypes)
	mux.HandleFunc("/v1/events", s.events.ServeHTTP)

	var handler http.Handler = mux
	if s.corsConfig.Enabled {
		handler = s.corsMiddleware(handler)
	}
	return s.loggingMiddleware(handler)
}

// Start serves until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.events.run()
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	s.events.stop()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush lets SSE responses stream through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := s.allowedOrigin(r.Header.Get("Origin"))
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		if s.corsConfig.AllowCredentials {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		if len(s.corsConfig.AllowedMethods) > 0 {
			w.Header().Set("Access-Control-Allow-Methods", strings.Join(s.corsConfig.AllowedMethods, ", "))
		}
		if len(s.corsConfig.AllowedHeaders) > 0 {
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(s.corsConfig.AllowedHeaders, ", "))
		}
		if len(s.corsConfig.ExposedHeaders) > 0 {
			w.Header().Set("Access-Control-Expose-Headers", strings.Join(s.corsConfig.ExposedHeaders, ", "))
		}
		if s.corsConfig.MaxAge > 0 {
			w.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", s.corsConfig.MaxAge))
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowedOrigin(origin string) string {
	if origin == "" {
		return ""
	}
	for _, allowed := range s.corsConfig.AllowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if allowed == origin {
			return origin
		}
	}
	return ""
}
