// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package dataapi is the client for the backend query service: the external
// collaborator that executes aggregations, resolves GeoJSON boundaries, and
// introspects source schemas. Nothing in this package interprets data; it
// moves typed requests out and typed responses back.
package dataapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vizier-labs/vizier/pkg/catalog"
	"github.com/vizier-labs/vizier/pkg/geo"
	"github.com/vizier-labs/vizier/pkg/query"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Region is one region of a given type, as listed by the backend.
type Region struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	GeoJSONID string `json:"geojson_id,omitempty"`
}

// Config configures the backend client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client talks to the backend query service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	geojson    *geojsonCache
}

// NewClient creates a backend client. A zero timeout defaults to 30s.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
		geojson:    newGeoJSONCache(),
	}
}

// FetchChartData runs an aggregation (or raw listing) for a non-map chart.
func (c *Client) FetchChartData(ctx context.Context, req query.ChartDataRequest) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	if err := c.postJSON(ctx, "/api/chart-data", req, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch chart data: %w", err)
	}
	return rows, nil
}

// FetchMapOverlay returns the aggregated value per region for a map chart.
func (c *Client) FetchMapOverlay(ctx context.Context, req query.MapOverlayRequest) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	if err := c.postJSON(ctx, "/api/map-overlay", req, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch map overlay: %w", err)
	}
	return rows, nil
}

// FetchGeoJSON returns the boundary document for one geojson id. Documents
// are immutable per id, so responses are cached (compressed) for the life of
// the process.
func (c *Client) FetchGeoJSON(ctx context.Context, req query.GeoJSONRequest) ([]byte, error) {
	if req.GeoJSONID == "" {
		return nil, fmt.Errorf("geojson id is empty")
	}
	if data, ok := c.geojson.get(req.GeoJSONID); ok {
		return data, nil
	}

	raw, err := c.getRaw(ctx, "/api/geojson/"+url.PathEscape(req.GeoJSONID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch geojson %q: %w", req.GeoJSONID, err)
	}
	if err := c.geojson.put(req.GeoJSONID, raw); err != nil {
		// Cache failure only costs a re-fetch next time.
		c.logger.Warn("failed to cache geojson", zap.String("id", req.GeoJSONID), zap.Error(err))
	}
	return raw, nil
}

// FetchRegionTypes lists the region-type edges of a country's hierarchy.
func (c *Client) FetchRegionTypes(ctx context.Context, countryCode string) ([]geo.RegionTypeEdge, error) {
	var edges []geo.RegionTypeEdge
	path := "/api/region-types?country=" + url.QueryEscape(countryCode)
	if err := c.getJSON(ctx, path, &edges); err != nil {
		return nil, fmt.Errorf("failed to fetch region types for %q: %w", countryCode, err)
	}
	return edges, nil
}

// FetchRegions lists the regions of one type, optionally under a parent.
func (c *Client) FetchRegions(ctx context.Context, req query.RegionListRequest) ([]Region, error) {
	v := url.Values{}
	v.Set("country", req.CountryCode)
	v.Set("type", req.RegionType)
	if req.ParentRegionID != "" {
		v.Set("parent", req.ParentRegionID)
	}

	var regions []Region
	if err := c.getJSON(ctx, "/api/regions?"+v.Encode(), &regions); err != nil {
		return nil, fmt.Errorf("failed to fetch regions: %w", err)
	}
	return regions, nil
}

// FetchSchemas lists the schemas the builder can draw from.
func (c *Client) FetchSchemas(ctx context.Context) ([]catalog.Schema, error) {
	var schemas []catalog.Schema
	if err := c.getJSON(ctx, "/api/schemas", &schemas); err != nil {
		return nil, fmt.Errorf("failed to fetch schemas: %w", err)
	}
	return schemas, nil
}

// FetchColumns lists the columns of one table.
func (c *Client) FetchColumns(ctx context.Context, schema, table string) ([]catalog.Column, error) {
	path := fmt.Sprintf("/api/schemas/%s/tables/%s/columns",
		url.PathEscape(schema), url.PathEscape(table))

	var cols []catalog.Column
	if err := c.getJSON(ctx, path, &cols); err != nil {
		return nil, fmt.Errorf("failed to fetch columns for %s.%s: %w", schema, table, err)
	}
	return cols, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.apiError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(msg)),
	}
}

// PurgeGeoJSONCache drops cached boundary documents older than maxAge.
// Called from the server's maintenance cron.
func (c *Client) PurgeGeoJSONCache(maxAge time.Duration) int {
	return c.geojson.purge(maxAge)
}
