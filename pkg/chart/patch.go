// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chart

import (
	"github.com/vizier-labs/vizier/pkg/geo"
)

// Patch is a partial config update. Nil fields leave the config untouched;
// set fields overwrite, so clearing a column means setting its pointer to an
// empty value. Apply is the only way a patch reaches a Config, which keeps
// every update atomic: either the whole patch lands or none of it does.
type Patch struct {
	Title           *string          `json:"title,omitempty"`
	ChartType       *ChartType       `json:"chart_type,omitempty"`
	ComputationType *ComputationType `json:"computation_type,omitempty"`

	SchemaName *string `json:"schema_name,omitempty"`
	TableName  *string `json:"table_name,omitempty"`

	XAxisColumn          *string        `json:"x_axis_column,omitempty"`
	YAxisColumn          *string        `json:"y_axis_column,omitempty"`
	DimensionColumn      *string        `json:"dimension_column,omitempty"`
	ExtraDimensionColumn *string        `json:"extra_dimension_column,omitempty"`
	AggregateColumn      *string        `json:"aggregate_column,omitempty"`
	AggregateFunc        *AggregateFunc `json:"aggregate_function,omitempty"`

	Metrics *[]Metric `json:"metrics,omitempty"`
	Filters *[]Filter `json:"filters,omitempty"`
	Sort    *[]Sort   `json:"sort,omitempty"`

	Pagination     *Pagination             `json:"pagination,omitempty"`
	Customizations *map[string]interface{} `json:"customizations,omitempty"`

	GeographicColumn  *string         `json:"geographic_column,omitempty"`
	ValueColumn       *string         `json:"value_column,omitempty"`
	SelectedGeoJSONID *string         `json:"selected_geojson_id,omitempty"`
	Hierarchy         **geo.Hierarchy `json:"geographic_hierarchy,omitempty"`
	Layers            *[]string       `json:"layers,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.ChartType == nil && p.ComputationType == nil &&
		p.SchemaName == nil && p.TableName == nil &&
		p.XAxisColumn == nil && p.YAxisColumn == nil &&
		p.DimensionColumn == nil && p.ExtraDimensionColumn == nil &&
		p.AggregateColumn == nil && p.AggregateFunc == nil &&
		p.Metrics == nil && p.Filters == nil && p.Sort == nil &&
		p.Pagination == nil && p.Customizations == nil &&
		p.GeographicColumn == nil && p.ValueColumn == nil &&
		p.SelectedGeoJSONID == nil && p.Hierarchy == nil && p.Layers == nil
}

// Apply returns cfg with the patch applied. The input config is not mutated.
func Apply(cfg Config, p Patch) Config {
	out := cfg
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.ChartType != nil {
		out.ChartType = *p.ChartType
	}
	if p.ComputationType != nil {
		out.ComputationType = *p.ComputationType
	}
	if p.SchemaName != nil {
		out.SchemaName = *p.SchemaName
	}
	if p.TableName != nil {
		out.TableName = *p.TableName
	}
	if p.XAxisColumn != nil {
		out.XAxisColumn = *p.XAxisColumn
	}
	if p.YAxisColumn != nil {
		out.YAxisColumn = *p.YAxisColumn
	}
	if p.DimensionColumn != nil {
		out.DimensionColumn = *p.DimensionColumn
	}
	if p.ExtraDimensionColumn != nil {
		out.ExtraDimensionColumn = *p.ExtraDimensionColumn
	}
	if p.AggregateColumn != nil {
		out.AggregateColumn = *p.AggregateColumn
	}
	if p.AggregateFunc != nil {
		out.AggregateFunc = *p.AggregateFunc
	}
	if p.Metrics != nil {
		out.Metrics = copyMetrics(*p.Metrics)
	}
	if p.Filters != nil {
		out.Filters = append([]Filter(nil), (*p.Filters)...)
	}
	if p.Sort != nil {
		out.Sort = append([]Sort(nil), (*p.Sort)...)
	}
	if p.Pagination != nil {
		out.Pagination = *p.Pagination
	}
	if p.Customizations != nil {
		out.Customizations = copyCustomizations(*p.Customizations)
	}
	if p.GeographicColumn != nil {
		out.GeographicColumn = *p.GeographicColumn
	}
	if p.ValueColumn != nil {
		out.ValueColumn = *p.ValueColumn
	}
	if p.SelectedGeoJSONID != nil {
		out.SelectedGeoJSONID = *p.SelectedGeoJSONID
	}
	if p.Hierarchy != nil {
		out.Hierarchy = *p.Hierarchy
	}
	if p.Layers != nil {
		out.Layers = append([]string(nil), (*p.Layers)...)
	}
	return out
}

func copyMetrics(ms []Metric) []Metric {
	if ms == nil {
		return nil
	}
	return append([]Metric(nil), ms...)
}

func copyCustomizations(c map[string]interface{}) map[string]interface{} {
	if c == nil {
		return nil
	}
	out := make(map[string]interface{}, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Helpers for building patches without free-floating temporaries.

func strPtr(s string) *string                       { return &s }
func typePtr(t ChartType) *ChartType                { return &t }
func compPtr(c ComputationType) *ComputationType    { return &c }
func aggPtr(a AggregateFunc) *AggregateFunc         { return &a }
func metricsPtr(ms []Metric) *[]Metric              { return &ms }
func hierarchyPtr(h *geo.Hierarchy) **geo.Hierarchy { return &h }
func layersPtr(ls []string) *[]string               { return &ls }
