// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chart

import (
	"testing"
)

func TestApply_NilFieldsLeaveConfigUntouched(t *testing.T) {
	cfg := fullyLoadedConfig()
	next := Apply(cfg, Patch{})

	if next.Title != cfg.Title || next.DimensionColumn != cfg.DimensionColumn ||
		len(next.Metrics) != len(cfg.Metrics) {
		t.Error("empty patch should change nothing")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	cfg := fullyLoadedConfig()
	_ = Apply(cfg, Patch{
		Title:   strPtr("changed"),
		Metrics: metricsPtr([]Metric{{Aggregation: AggCount}}),
	})

	if cfg.Title != "Revenue by State" {
		t.Error("Apply mutated the input config title")
	}
	if len(cfg.Metrics) != 2 {
		t.Error("Apply mutated the input config metrics")
	}
}

func TestApply_CopiesSliceFields(t *testing.T) {
	metrics := []Metric{{Column: "revenue", Aggregation: AggSum}}
	next := Apply(Config{}, Patch{Metrics: metricsPtr(metrics)})

	metrics[0].Column = "mutated"
	if next.Metrics[0].Column != "revenue" {
		t.Error("applied config should not alias the patch's metric slice")
	}
}

func TestApply_ClearsWithEmptyValues(t *testing.T) {
	cfg := fullyLoadedConfig()
	next := Apply(cfg, Patch{
		YAxisColumn: strPtr(""),
		Metrics:     metricsPtr(nil),
	})

	if next.YAxisColumn != "" {
		t.Error("empty-string pointer should clear the field")
	}
	if next.Metrics != nil {
		t.Error("nil metrics pointer value should clear metrics")
	}
}

func TestPatch_Empty(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Error("zero patch should be empty")
	}
	if (Patch{Title: strPtr("x")}).Empty() {
		t.Error("patch with a field should not be empty")
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{
			name: "complete bar chart",
			cfg: Config{
				ChartType:       ChartTypeBar,
				SchemaName:      "public",
				TableName:       "sales",
				DimensionColumn: "state",
				Metrics:         []Metric{{Column: "revenue", Aggregation: AggSum}},
			},
			want: true,
		},
		{
			name: "bar without metric",
			cfg: Config{
				ChartType:       ChartTypeBar,
				SchemaName:      "public",
				TableName:       "sales",
				DimensionColumn: "state",
			},
			want: false,
		},
		{
			name: "map missing boundary",
			cfg: Config{
				ChartType:        ChartTypeMap,
				SchemaName:       "public",
				TableName:        "census",
				GeographicColumn: "state",
				ValueColumn:      "population",
			},
			want: false,
		},
		{
			name: "raw table",
			cfg: Config{
				ChartType:       ChartTypeTable,
				ComputationType: ComputationRaw,
				SchemaName:      "public",
				TableName:       "sales",
			},
			want: true,
		},
		{
			name: "count metric needs no column",
			cfg: Config{
				ChartType:       ChartTypeNumber,
				SchemaName:      "public",
				TableName:       "sales",
				ComputationType: ComputationAggregated,
				Metrics:         []Metric{{Aggregation: AggCount}},
			},
			want: true,
		},
		{
			name: "no chart type",
			cfg:  Config{SchemaName: "public", TableName: "sales"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.cfg); got != tt.want {
				t.Errorf("Valid = %v, want %v (problems: %v)", got, tt.want, Problems(tt.cfg))
			}
		})
	}
}
