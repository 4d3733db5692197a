// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chart

import (
	"reflect"
	"testing"

	"github.com/vizier-labs/vizier/pkg/catalog"
)

func salesColumns() []catalog.Column {
	return []catalog.Column{
		{Name: "state", Type: "text"},
		{Name: "revenue", Type: "numeric"},
		{Name: "orders", Type: "bigint"},
	}
}

func TestAutoPrefill_Bar(t *testing.T) {
	p := AutoPrefill(ChartTypeBar, salesColumns())
	cfg := Apply(Config{ChartType: ChartTypeBar}, p)

	if cfg.DimensionColumn != "state" {
		t.Errorf("dimension = %q, want state (first non-numeric)", cfg.DimensionColumn)
	}
	if len(cfg.Metrics) != 1 {
		t.Fatalf("metrics = %d, want 1", len(cfg.Metrics))
	}
	if cfg.Metrics[0].Column != "revenue" || cfg.Metrics[0].Aggregation != AggSum {
		t.Errorf("metric = %+v, want sum(revenue)", cfg.Metrics[0])
	}
	if cfg.ComputationType != ComputationAggregated {
		t.Errorf("computation = %q, want aggregated", cfg.ComputationType)
	}
}

func TestAutoPrefill_NoNumericColumns(t *testing.T) {
	cols := []catalog.Column{
		{Name: "state", Type: "text"},
		{Name: "city", Type: "varchar"},
	}
	p := AutoPrefill(ChartTypePie, cols)
	cfg := Apply(Config{ChartType: ChartTypePie}, p)

	if len(cfg.Metrics) != 1 {
		t.Fatalf("metrics = %d, want 1", len(cfg.Metrics))
	}
	if cfg.Metrics[0].Aggregation != AggCount || cfg.Metrics[0].Column != "" {
		t.Errorf("metric = %+v, want bare count", cfg.Metrics[0])
	}
}

func TestAutoPrefill_Number(t *testing.T) {
	p := AutoPrefill(ChartTypeNumber, salesColumns())
	cfg := Apply(Config{ChartType: ChartTypeNumber}, p)

	if cfg.DimensionColumn != "" {
		t.Error("number chart should not get a dimension column")
	}
	if len(cfg.Metrics) != 1 || cfg.Metrics[0].Column != "revenue" {
		t.Errorf("metrics = %+v, want single sum(revenue)", cfg.Metrics)
	}
}

func TestAutoPrefill_Map(t *testing.T) {
	p := AutoPrefill(ChartTypeMap, salesColumns())
	cfg := Apply(Config{ChartType: ChartTypeMap}, p)

	if cfg.GeographicColumn != "state" {
		t.Errorf("geographic column = %q, want state", cfg.GeographicColumn)
	}
	if cfg.ValueColumn != "revenue" {
		t.Errorf("value column = %q, want revenue", cfg.ValueColumn)
	}
	if cfg.AggregateFunc != AggSum {
		t.Errorf("aggregate = %q, want sum", cfg.AggregateFunc)
	}
}

func TestAutoPrefill_Table(t *testing.T) {
	p := AutoPrefill(ChartTypeTable, salesColumns())
	cfg := Apply(Config{ChartType: ChartTypeTable}, p)

	if cfg.ComputationType != ComputationRaw {
		t.Errorf("computation = %q, want raw", cfg.ComputationType)
	}
	if !cfg.Pagination.Enabled || cfg.Pagination.PageSize != 50 {
		t.Errorf("pagination = %+v, want enabled with page size 50", cfg.Pagination)
	}
}

func TestAutoPrefill_NoColumns(t *testing.T) {
	if p := AutoPrefill(ChartTypeBar, nil); !p.Empty() {
		t.Error("prefill with no columns should be an empty patch")
	}
}

func TestAutoPrefill_Idempotent(t *testing.T) {
	cols := salesColumns()
	first := AutoPrefill(ChartTypeBar, cols)
	second := AutoPrefill(ChartTypeBar, cols)

	if !reflect.DeepEqual(Apply(Config{}, first), Apply(Config{}, second)) {
		t.Error("AutoPrefill should yield the same patch for the same input")
	}
}

func TestFresh(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"zero config", Config{}, true},
		{"schema only", Config{SchemaName: "public", TableName: "sales"}, true},
		{"has dimension", Config{DimensionColumn: "state"}, false},
		{"has metric", Config{Metrics: []Metric{{Aggregation: AggCount}}}, false},
		{"has geographic column", Config{GeographicColumn: "state"}, false},
		{"has aggregate column", Config{AggregateColumn: "revenue"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fresh(tt.cfg); got != tt.want {
				t.Errorf("Fresh = %v, want %v", got, tt.want)
			}
		})
	}
}
