// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vizier-labs/vizier/pkg/chart"
)

// ErrNotFound is returned when a chart or dashboard id does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrIncomplete is returned when a config fails the save gate.
var ErrIncomplete = errors.New("store: chart config is incomplete")

// SavedChart is a named, persisted chart configuration.
type SavedChart struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Config      chart.Config `json:"config"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// SaveChart persists a new chart. The config must pass the save gate; the
// UI disables save until it does, so a failure here means a caller bypassed
// the builder flow.
func (s *Store) SaveChart(name, description string, cfg chart.Config) (SavedChart, error) {
	if name == "" {
		return SavedChart{}, fmt.Errorf("store: chart name is required")
	}
	if problems := chart.Problems(cfg); len(problems) > 0 {
		return SavedChart{}, fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(problems, "; "))
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return SavedChart{}, fmt.Errorf("failed to encode config: %w", err)
	}

	sc := SavedChart{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Config:      cfg,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	_, err = s.db.Exec(
		`INSERT INTO saved_charts (id, name, description, config, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.Name, sc.Description, string(raw),
		sc.CreatedAt.UnixMilli(), sc.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return SavedChart{}, fmt.Errorf("failed to insert chart: %w", err)
	}
	s.logger.Debug("chart saved", zap.String("chart_id", sc.ID), zap.String("name", name))
	return sc, nil
}

// UpdateChart replaces the name, description and config of an existing chart.
func (s *Store) UpdateChart(id, name, description string, cfg chart.Config) (SavedChart, error) {
	if problems := chart.Problems(cfg); len(problems) > 0 {
		return SavedChart{}, fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(problems, "; "))
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return SavedChart{}, fmt.Errorf("failed to encode config: %w", err)
	}

	updated := now()
	res, err := s.db.Exec(
		`UPDATE saved_charts SET name = ?, description = ?, config = ?, updated_at = ?
		 WHERE id = ?`,
		name, description, string(raw), updated.UnixMilli(), id,
	)
	if err != nil {
		return SavedChart{}, fmt.Errorf("failed to update chart: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return SavedChart{}, ErrNotFound
	}
	return s.GetChart(id)
}

// GetChart loads one saved chart by id.
func (s *Store) GetChart(id string) (SavedChart, error) {
	row := s.db.QueryRow(
		`SELECT id, name, description, config, created_at, updated_at
		 FROM saved_charts WHERE id = ?`, id)
	return scanChart(row)
}

// ListCharts returns all saved charts, most recently updated first.
func (s *Store) ListCharts() ([]SavedChart, error) {
	rows, err := s.db.Query(
		`SELECT id, name, description, config, created_at, updated_at
		 FROM saved_charts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list charts: %w", err)
	}
	defer rows.Close()

	var out []SavedChart
	for rows.Next() {
		sc, err := scanChart(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// DeleteChart removes a saved chart and its dashboard memberships.
func (s *Store) DeleteChart(id string) error {
	res, err := s.db.Exec(`DELETE FROM saved_charts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chart: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChart(row rowScanner) (SavedChart, error) {
	var (
		sc               SavedChart
		raw              string
		createdMs, updMs int64
	)
	err := row.Scan(&sc.ID, &sc.Name, &sc.Description, &raw, &createdMs, &updMs)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedChart{}, ErrNotFound
	}
	if err != nil {
		return SavedChart{}, fmt.Errorf("failed to scan chart: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &sc.Config); err != nil {
		return SavedChart{}, fmt.Errorf("failed to decode config for chart %s: %w", sc.ID, err)
	}
	sc.CreatedAt = time.UnixMilli(createdMs).UTC()
	sc.UpdatedAt = time.UnixMilli(updMs).UTC()
	return sc, nil
}
