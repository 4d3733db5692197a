// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package query derives backend request payloads from builder state. The
// constructors here are pure: the form state and drill-down position go in,
// a request struct comes out, and the data layer owns the actual fetch.
package query

import (
	"github.com/vizier-labs/vizier/pkg/chart"
	"github.com/vizier-labs/vizier/pkg/geo"
)

// ChartDataRequest asks the backend to run an aggregation (or raw listing)
// and return series data for a non-map chart.
type ChartDataRequest struct {
	ChartType       chart.ChartType        `json:"chart_type"`
	ComputationType chart.ComputationType  `json:"computation_type"`
	SchemaName      string                 `json:"schema_name"`
	TableName       string                 `json:"table_name"`
	DimensionCol    string                 `json:"dimension_col,omitempty"`
	ExtraDimension  string                 `json:"extra_dimension_col,omitempty"`
	AggregateCol    string                 `json:"aggregate_col,omitempty"`
	AggregateFunc   chart.AggregateFunc    `json:"aggregate_func,omitempty"`
	Metrics         []chart.Metric         `json:"metrics,omitempty"`
	Filters         []chart.Filter         `json:"filters,omitempty"`
	Sort            []chart.Sort           `json:"sort,omitempty"`
	Pagination      chart.Pagination       `json:"pagination"`
	Customizations  map[string]interface{} `json:"customizations,omitempty"`
}

// MapOverlayRequest asks the backend for the aggregated value per region at
// the current drill level.
type MapOverlayRequest struct {
	SchemaName       string              `json:"schema_name"`
	TableName        string              `json:"table_name"`
	GeographicColumn string              `json:"geographic_column"`
	ValueColumn      string              `json:"value_column"`
	AggregateFunc    chart.AggregateFunc `json:"aggregate_function"`
	Filters          []chart.Filter      `json:"filters,omitempty"`
}

// GeoJSONRequest fetches the boundary polygons for one geojson id.
type GeoJSONRequest struct {
	GeoJSONID string `json:"geojson_id"`
}

// RegionTypeRequest lists the region-type edges of a country's hierarchy.
type RegionTypeRequest struct {
	CountryCode string `json:"country_code"`
}

// RegionListRequest lists the regions of one type, optionally scoped to a
// parent region.
type RegionListRequest struct {
	CountryCode    string `json:"country_code"`
	RegionType     string `json:"region_type"`
	ParentRegionID string `json:"parent_region_id,omitempty"`
}

// BuildChartData derives the data request for a non-map preview.
func BuildChartData(cfg chart.Config) ChartDataRequest {
	return ChartDataRequest{
		ChartType:       cfg.ChartType,
		ComputationType: cfg.ComputationType,
		SchemaName:      cfg.SchemaName,
		TableName:       cfg.TableName,
		DimensionCol:    cfg.DimensionColumn,
		ExtraDimension:  cfg.ExtraDimensionColumn,
		AggregateCol:    cfg.AggregateColumn,
		AggregateFunc:   cfg.AggregateFunc,
		Metrics:         append([]chart.Metric(nil), cfg.Metrics...),
		Filters:         append([]chart.Filter(nil), cfg.Filters...),
		Sort:            append([]chart.Sort(nil), cfg.Sort...),
		Pagination:      cfg.Pagination,
		Customizations:  cfg.Customizations,
	}
}

// BuildMapOverlay derives the overlay request for the current drill level.
// The navigator contributes the geographic column of the level being shown
// and one equality filter per ancestor selection, appended after the config's
// own filters.
func BuildMapOverlay(cfg chart.Config, nav geo.Navigator) MapOverlayRequest {
	column := cfg.GeographicColumn
	if !nav.Home() {
		if c := nav.CurrentLevel().Column; c != "" {
			column = c
		}
	}

	req := MapOverlayRequest{
		SchemaName:       cfg.SchemaName,
		TableName:        cfg.TableName,
		GeographicColumn: column,
		ValueColumn:      cfg.ValueColumn,
		AggregateFunc:    cfg.AggregateFunc,
		Filters:          append([]chart.Filter(nil), cfg.Filters...),
	}
	for _, f := range selectionFilters(nav) {
		req.Filters = append(req.Filters, f)
	}
	return req
}

// BuildGeoJSON derives the boundary request for the current drill level,
// falling back to the config's selected boundary at Home.
func BuildGeoJSON(cfg chart.Config, nav geo.Navigator) GeoJSONRequest {
	return GeoJSONRequest{GeoJSONID: nav.GeoJSONID(cfg.SelectedGeoJSONID)}
}

// selectionFilters converts accumulated drill selections into equality
// filters in path order, so requests are deterministic.
func selectionFilters(nav geo.Navigator) []chart.Filter {
	var out []chart.Filter
	seen := make(map[string]bool)
	hier := nav.Hierarchy()
	selections := nav.ParentSelections()
	if len(selections) == 0 {
		return nil
	}

	appendIf := func(column string) {
		if column == "" || seen[column] {
			return
		}
		if v, ok := selections[column]; ok {
			out = append(out, chart.Filter{Column: column, Operator: "=", Value: v})
			seen[column] = true
		}
	}

	appendIf(hier.BaseLevel.Column)
	for _, l := range hier.DrillDownLevels {
		appendIf(l.Column)
	}
	return out
}
