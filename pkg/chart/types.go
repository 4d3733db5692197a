// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package chart holds the chart-builder configuration model and the pure
// transformations over it: the chart-type reconciler, the auto-prefill
// heuristic, and the validity gate evaluated before a chart can be saved.
package chart

import (
	"github.com/vizier-labs/vizier/pkg/geo"
)

// ChartType identifies the visualization a config describes.
type ChartType string

const (
	ChartTypeBar    ChartType = "bar"
	ChartTypeLine   ChartType = "line"
	ChartTypePie    ChartType = "pie"
	ChartTypeNumber ChartType = "number"
	ChartTypeTable  ChartType = "table"
	ChartTypeMap    ChartType = "map"
)

// ComputationType selects between aggregated queries and raw row listing.
type ComputationType string

const (
	ComputationAggregated ComputationType = "aggregated"
	ComputationRaw        ComputationType = "raw"
)

// AggregateFunc is the reduction applied to a metric column.
type AggregateFunc string

const (
	AggSum           AggregateFunc = "sum"
	AggAvg           AggregateFunc = "avg"
	AggCount         AggregateFunc = "count"
	AggMin           AggregateFunc = "min"
	AggMax           AggregateFunc = "max"
	AggCountDistinct AggregateFunc = "count_distinct"
)

// Metric is one aggregated series: a column, the reduction over it, and an
// optional display alias. Count metrics may leave Column empty.
type Metric struct {
	Column      string        `json:"column,omitempty"`
	Aggregation AggregateFunc `json:"aggregation"`
	Alias       string        `json:"alias,omitempty"`
}

// Filter restricts the rows feeding a chart.
type Filter struct {
	Column   string      `json:"column"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

// SortDirection orders a sort clause.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort is one ordering clause of the result set.
type Sort struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// Pagination controls table-style paging of raw results.
type Pagination struct {
	Enabled  bool `json:"enabled"`
	PageSize int  `json:"page_size,omitempty"`
}

// Config is the full chart-builder form state. One struct holds the fields of
// every chart type; which fields are meaningful depends on ChartType, and the
// reconciler clears the rest on type switches so nothing stale survives.
type Config struct {
	Title           string          `json:"title,omitempty"`
	ChartType       ChartType       `json:"chart_type"`
	ComputationType ComputationType `json:"computation_type,omitempty"`

	SchemaName string `json:"schema_name,omitempty"`
	TableName  string `json:"table_name,omitempty"`

	// Axis and grouping fields for aggregated charts.
	XAxisColumn          string        `json:"x_axis_column,omitempty"`
	YAxisColumn          string        `json:"y_axis_column,omitempty"`
	DimensionColumn      string        `json:"dimension_column,omitempty"`
	ExtraDimensionColumn string        `json:"extra_dimension_column,omitempty"`
	AggregateColumn      string        `json:"aggregate_column,omitempty"`
	AggregateFunc        AggregateFunc `json:"aggregate_function,omitempty"`

	Metrics []Metric `json:"metrics,omitempty"`
	Filters []Filter `json:"filters,omitempty"`
	Sort    []Sort   `json:"sort,omitempty"`

	Pagination     Pagination             `json:"pagination"`
	Customizations map[string]interface{} `json:"customizations,omitempty"`

	// Geographic fields, meaningful only for map charts.
	GeographicColumn  string         `json:"geographic_column,omitempty"`
	ValueColumn       string         `json:"value_column,omitempty"`
	SelectedGeoJSONID string         `json:"selected_geojson_id,omitempty"`
	Hierarchy         *geo.Hierarchy `json:"geographic_hierarchy,omitempty"`
	Layers            []string       `json:"layers,omitempty"`
}

// Fresh reports whether the config has no data selection yet: no dimension,
// aggregate, geographic, or metric choice. Auto-prefill only applies to fresh
// configs; the caller evaluates this guard, not the heuristic itself.
func Fresh(cfg Config) bool {
	return cfg.DimensionColumn == "" &&
		cfg.XAxisColumn == "" &&
		cfg.YAxisColumn == "" &&
		cfg.AggregateColumn == "" &&
		cfg.GeographicColumn == "" &&
		cfg.ValueColumn == "" &&
		len(cfg.Metrics) == 0
}
