// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package dataapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizier-labs/vizier/pkg/chart"
	"github.com/vizier-labs/vizier/pkg/query"
)

func TestClient_FetchChartData(t *testing.T) {
	var gotReq query.ChartDataRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chart-data", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"state": "Maharashtra", "sum_revenue": 120.5},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	rows, err := c.FetchChartData(context.Background(), query.ChartDataRequest{
		ChartType:  chart.ChartTypeBar,
		SchemaName: "public",
		TableName:  "sales",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Maharashtra", rows[0]["state"])
	assert.Equal(t, "public", gotReq.SchemaName)
}

func TestClient_FetchGeoJSON_Caches(t *testing.T) {
	var hits atomic.Int32
	doc := []byte(`{"type":"FeatureCollection","features":[]}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "/api/geojson/in-states", r.URL.Path)
		_, _ = w.Write(doc)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	first, err := c.FetchGeoJSON(context.Background(), query.GeoJSONRequest{GeoJSONID: "in-states"})
	require.NoError(t, err)
	assert.Equal(t, doc, first)

	second, err := c.FetchGeoJSON(context.Background(), query.GeoJSONRequest{GeoJSONID: "in-states"})
	require.NoError(t, err)
	assert.Equal(t, doc, second)

	assert.Equal(t, int32(1), hits.Load(), "second fetch should be served from cache")
}

func TestClient_FetchGeoJSON_EmptyID(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused"})
	_, err := c.FetchGeoJSON(context.Background(), query.GeoJSONRequest{})
	assert.Error(t, err)
}

func TestClient_PurgeGeoJSONCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.FetchGeoJSON(context.Background(), query.GeoJSONRequest{GeoJSONID: "x"})
	require.NoError(t, err)

	assert.Equal(t, 0, c.PurgeGeoJSONCache(time.Hour), "fresh entries survive")
	assert.Equal(t, 1, c.PurgeGeoJSONCache(0), "zero max age purges everything")
}

func TestClient_FetchRegionTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "IN", r.URL.Query().Get("country"))
		_, _ = w.Write([]byte(`[{"id":"c","type":"country"},{"id":"s","type":"state","parent_id":"c"}]`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	edges, err := c.FetchRegionTypes(context.Background(), "IN")
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "country", edges[0].Type)
	assert.Equal(t, "c", edges[1].ParentID)
}

func TestClient_FetchColumns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/schemas/public/tables/sales/columns", r.URL.Path)
		_, _ = w.Write([]byte(`[{"name":"state","type":"text"},{"name":"revenue","type":"numeric"}]`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	cols, err := c.FetchColumns(context.Background(), "public", "sales")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.True(t, cols[1].Numeric())
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "table not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.FetchColumns(context.Background(), "public", "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "table not found", apiErr.Message)
}
