// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/vizier-labs/vizier/pkg/chart"
)

// chartConfigSchema validates chart JSON arriving from outside the builder
// (file imports, API clients). It gates structure only; the save gate still
// decides whether the config is complete.
const chartConfigSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["chart_type"],
	"properties": {
		"title": {"type": "string"},
		"chart_type": {
			"type": "string",
			"enum": ["bar", "line", "pie", "number", "table", "map"]
		},
		"computation_type": {"type": "string", "enum": ["aggregated", "raw"]},
		"schema_name": {"type": "string"},
		"table_name": {"type": "string"},
		"x_axis_column": {"type": "string"},
		"y_axis_column": {"type": "string"},
		"dimension_column": {"type": "string"},
		"extra_dimension_column": {"type": "string"},
		"aggregate_column": {"type": "string"},
		"aggregate_function": {"type": "string"},
		"metrics": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["aggregation"],
				"properties": {
					"column": {"type": "string"},
					"aggregation": {
						"type": "string",
						"enum": ["sum", "avg", "count", "min", "max", "count_distinct"]
					},
					"alias": {"type": "string"}
				}
			}
		},
		"filters": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["column", "operator"],
				"properties": {
					"column": {"type": "string"},
					"operator": {"type": "string"}
				}
			}
		},
		"sort": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["column", "direction"],
				"properties": {
					"column": {"type": "string"},
					"direction": {"type": "string", "enum": ["asc", "desc"]}
				}
			}
		},
		"pagination": {
			"type": "object",
			"properties": {
				"enabled": {"type": "boolean"},
				"page_size": {"type": "integer", "minimum": 1}
			}
		},
		"geographic_column": {"type": "string"},
		"value_column": {"type": "string"},
		"selected_geojson_id": {"type": "string"},
		"layers": {"type": "array", "items": {"type": "string"}}
	}
}`

var compiledChartSchema = gojsonschema.NewStringLoader(chartConfigSchema)

// ImportChart validates raw chart JSON against the config schema and saves
// it under the given name.
func (s *Store) ImportChart(name, description string, raw []byte) (SavedChart, error) {
	result, err := gojsonschema.Validate(compiledChartSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return SavedChart{}, fmt.Errorf("failed to validate chart JSON: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return SavedChart{}, fmt.Errorf("store: invalid chart JSON: %s", strings.Join(msgs, "; "))
	}

	var cfg chart.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return SavedChart{}, fmt.Errorf("failed to decode chart JSON: %w", err)
	}
	return s.SaveChart(name, description, cfg)
}
