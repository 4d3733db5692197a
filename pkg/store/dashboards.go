// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Dashboard groups saved charts into an ordered collection.
type Dashboard struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ChartIDs    []string  `json:"chart_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateDashboard creates an empty dashboard.
func (s *Store) CreateDashboard(name, description string) (Dashboard, error) {
	if name == "" {
		return Dashboard{}, fmt.Errorf("store: dashboard name is required")
	}
	d := Dashboard{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	_, err := s.db.Exec(
		`INSERT INTO dashboards (id, name, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Description, d.CreatedAt.UnixMilli(), d.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to insert dashboard: %w", err)
	}
	return d, nil
}

// GetDashboard loads a dashboard and its chart ids in display order.
func (s *Store) GetDashboard(id string) (Dashboard, error) {
	var (
		d                Dashboard
		createdMs, updMs int64
	)
	err := s.db.QueryRow(
		`SELECT id, name, description, created_at, updated_at
		 FROM dashboards WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.Description, &createdMs, &updMs)
	if errors.Is(err, sql.ErrNoRows) {
		return Dashboard{}, ErrNotFound
	}
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load dashboard: %w", err)
	}
	d.CreatedAt = time.UnixMilli(createdMs).UTC()
	d.UpdatedAt = time.UnixMilli(updMs).UTC()

	rows, err := s.db.Query(
		`SELECT chart_id FROM dashboard_charts
		 WHERE dashboard_id = ? ORDER BY position`, id)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load dashboard charts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var chartID string
		if err := rows.Scan(&chartID); err != nil {
			return Dashboard{}, err
		}
		d.ChartIDs = append(d.ChartIDs, chartID)
	}
	return d, rows.Err()
}

// ListDashboards returns all dashboards without their chart lists.
func (s *Store) ListDashboards() ([]Dashboard, error) {
	rows, err := s.db.Query(
		`SELECT id, name, description, created_at, updated_at
		 FROM dashboards ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboards: %w", err)
	}
	defer rows.Close()

	var out []Dashboard
	for rows.Next() {
		var (
			d                Dashboard
			createdMs, updMs int64
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &createdMs, &updMs); err != nil {
			return nil, err
		}
		d.CreatedAt = time.UnixMilli(createdMs).UTC()
		d.UpdatedAt = time.UnixMilli(updMs).UTC()
		out = append(out, d)
	}
	return out, rows.Err()
}

// SetDashboardCharts replaces the dashboard's chart list with chartIDs, in
// the given order. Every id must reference a saved chart.
func (s *Store) SetDashboardCharts(id string, chartIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE dashboards SET updated_at = ? WHERE id = ?`,
		now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("failed to touch dashboard: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM dashboard_charts WHERE dashboard_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear dashboard charts: %w", err)
	}
	for i, chartID := range chartIDs {
		if _, err := tx.Exec(
			`INSERT INTO dashboard_charts (dashboard_id, chart_id, position) VALUES (?, ?, ?)`,
			id, chartID, i,
		); err != nil {
			return fmt.Errorf("failed to add chart %s: %w", chartID, err)
		}
	}
	return tx.Commit()
}

// DeleteDashboard removes a dashboard. Its charts survive; only the
// membership rows cascade.
func (s *Store) DeleteDashboard(id string) error {
	res, err := s.db.Exec(`DELETE FROM dashboards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dashboard: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
