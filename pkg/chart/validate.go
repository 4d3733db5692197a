// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chart

import "fmt"

// Valid reports whether the config is complete enough to save. Incomplete
// configs are never an error condition: the UI disables the save affordance
// until this gate passes.
func Valid(cfg Config) bool {
	return len(Problems(cfg)) == 0
}

// Problems lists what keeps the config from being saveable, in a stable
// order suitable for direct display.
func Problems(cfg Config) []string {
	var out []string

	if cfg.SchemaName == "" {
		out = append(out, "no schema selected")
	}
	if cfg.TableName == "" {
		out = append(out, "no table selected")
	}

	switch cfg.ChartType {
	case ChartTypeBar, ChartTypeLine, ChartTypePie:
		if cfg.DimensionColumn == "" && cfg.XAxisColumn == "" {
			out = append(out, "no dimension column selected")
		}
		if len(cfg.Metrics) == 0 {
			out = append(out, "no metric configured")
		}
	case ChartTypeNumber:
		if len(cfg.Metrics) == 0 {
			out = append(out, "no metric configured")
		}
	case ChartTypeTable:
		if cfg.ComputationType == ComputationAggregated && len(cfg.Metrics) == 0 {
			out = append(out, "aggregated table needs at least one metric")
		}
	case ChartTypeMap:
		if cfg.GeographicColumn == "" {
			out = append(out, "no geographic column selected")
		}
		if cfg.ValueColumn == "" {
			out = append(out, "no value column selected")
		}
		if cfg.SelectedGeoJSONID == "" {
			out = append(out, "no map boundary selected")
		}
	case "":
		out = append(out, "no chart type selected")
	default:
		out = append(out, fmt.Sprintf("unknown chart type %q", cfg.ChartType))
	}

	for i, m := range cfg.Metrics {
		if m.Aggregation == "" {
			out = append(out, fmt.Sprintf("metric %d has no aggregation", i))
		}
		if m.Column == "" && m.Aggregation != AggCount {
			out = append(out, fmt.Sprintf("metric %d has no column", i))
		}
	}

	return out
}
