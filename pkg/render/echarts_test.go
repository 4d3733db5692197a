// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/vizier-labs/vizier/pkg/chart"
)

func barConfig() chart.Config {
	return chart.Config{
		Title:           "Revenue by State",
		ChartType:       chart.ChartTypeBar,
		DimensionColumn: "state",
		Metrics:         []chart.Metric{{Column: "revenue", Aggregation: chart.AggSum}},
	}
}

func barRows() []Row {
	return []Row{
		{"state": "Maharashtra", "sum_revenue": 120.5},
		{"state": "Karnataka", "sum_revenue": 80.0},
	}
}

func decodeOption(t *testing.T, optionJSON string) map[string]interface{} {
	t.Helper()
	var option map[string]interface{}
	if err := json.Unmarshal([]byte(optionJSON), &option); err != nil {
		t.Fatalf("generated option is not valid JSON: %v", err)
	}
	return option
}

func TestGenerator_Bar(t *testing.T) {
	g := NewGenerator(nil)
	out, err := g.Generate(barConfig(), barRows())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	option := decodeOption(t, out)
	series, ok := option["series"].([]interface{})
	if !ok || len(series) != 1 {
		t.Fatalf("series = %v, want one bar series", option["series"])
	}
	first := series[0].(map[string]interface{})
	if first["type"] != "bar" {
		t.Errorf("series type = %v, want bar", first["type"])
	}
	data := first["data"].([]interface{})
	if len(data) != 2 || data[0] != 120.5 {
		t.Errorf("series data = %v, want [120.5 80]", data)
	}

	xAxis := option["xAxis"].(map[string]interface{})
	labels := xAxis["data"].([]interface{})
	if labels[0] != "Maharashtra" || labels[1] != "Karnataka" {
		t.Errorf("x axis labels = %v", labels)
	}
}

func TestGenerator_MultiMetricGetsLegend(t *testing.T) {
	cfg := barConfig()
	cfg.Metrics = append(cfg.Metrics, chart.Metric{Column: "orders", Aggregation: chart.AggCount})

	g := NewGenerator(nil)
	out, err := g.Generate(cfg, barRows())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	option := decodeOption(t, out)
	if _, ok := option["legend"]; !ok {
		t.Error("multi-metric chart should include a legend")
	}
	if len(option["series"].([]interface{})) != 2 {
		t.Error("want one series per metric")
	}
}

func TestGenerator_Pie(t *testing.T) {
	cfg := barConfig()
	cfg.ChartType = chart.ChartTypePie

	g := NewGenerator(nil)
	out, err := g.Generate(cfg, barRows())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	option := decodeOption(t, out)
	series := option["series"].([]interface{})
	first := series[0].(map[string]interface{})
	if first["type"] != "pie" {
		t.Errorf("series type = %v, want pie", first["type"])
	}
	data := first["data"].([]interface{})
	entry := data[0].(map[string]interface{})
	if entry["name"] != "Maharashtra" || entry["value"] != 120.5 {
		t.Errorf("pie entry = %v", entry)
	}
}

func TestGenerator_Number(t *testing.T) {
	cfg := chart.Config{
		ChartType: chart.ChartTypeNumber,
		Metrics:   []chart.Metric{{Column: "revenue", Aggregation: chart.AggSum}},
	}
	rows := []Row{{"sum_revenue": 200.0}}

	g := NewGenerator(nil)
	out, err := g.Generate(cfg, rows)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(out, "200") {
		t.Errorf("number option should embed the value, got %s", out)
	}
}

func TestGenerator_Map(t *testing.T) {
	cfg := chart.Config{
		ChartType:         chart.ChartTypeMap,
		GeographicColumn:  "state",
		ValueColumn:       "population",
		SelectedGeoJSONID: "in-states",
	}
	rows := []Row{
		{"state": "Maharashtra", "population": 112.0},
		{"state": "Goa", "population": 1.5},
	}

	g := NewGenerator(nil)
	out, err := g.Generate(cfg, rows)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	option := decodeOption(t, out)
	series := option["series"].([]interface{})
	first := series[0].(map[string]interface{})
	if first["map"] != "in-states" {
		t.Errorf("map id = %v, want in-states", first["map"])
	}

	visualMap := option["visualMap"].(map[string]interface{})
	if visualMap["min"] != 1.5 || visualMap["max"] != 112.0 {
		t.Errorf("visualMap range = %v..%v, want 1.5..112", visualMap["min"], visualMap["max"])
	}
}

func TestGenerator_Table(t *testing.T) {
	cfg := chart.Config{
		ChartType:       chart.ChartTypeTable,
		ComputationType: chart.ComputationRaw,
	}
	rows := []Row{
		{"b_col": 1, "a_col": "x"},
	}

	g := NewGenerator(nil)
	out, err := g.Generate(cfg, rows)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	option := decodeOption(t, out)
	dataset := option["dataset"].(map[string]interface{})
	dims := dataset["dimensions"].([]interface{})
	if dims[0] != "a_col" || dims[1] != "b_col" {
		t.Errorf("raw table columns = %v, want sorted keys", dims)
	}
}

func TestGenerator_UnknownType(t *testing.T) {
	g := NewGenerator(nil)
	if _, err := g.Generate(chart.Config{ChartType: "sankey"}, nil); err == nil {
		t.Error("unknown chart type should fail preview generation")
	}
}

func TestMetricKey(t *testing.T) {
	tests := []struct {
		metric chart.Metric
		want   string
	}{
		{chart.Metric{Column: "revenue", Aggregation: chart.AggSum}, "sum_revenue"},
		{chart.Metric{Column: "revenue", Aggregation: chart.AggSum, Alias: "total"}, "total"},
		{chart.Metric{Aggregation: chart.AggCount}, "count"},
	}
	for _, tt := range tests {
		if got := MetricKey(tt.metric); got != tt.want {
			t.Errorf("MetricKey(%+v) = %q, want %q", tt.metric, got, tt.want)
		}
	}
}

func TestMergeStyles(t *testing.T) {
	custom := &StyleConfig{ColorPrimary: "#ff0000", FontSizeTitle: 20}
	merged := MergeStyles(custom, DefaultStyleConfig())

	if merged.ColorPrimary != "#ff0000" {
		t.Errorf("ColorPrimary = %q, want override", merged.ColorPrimary)
	}
	if merged.FontSizeTitle != 20 {
		t.Errorf("FontSizeTitle = %d, want 20", merged.FontSizeTitle)
	}
	if merged.FontFamily != DefaultStyleConfig().FontFamily {
		t.Error("unset fields should keep defaults")
	}

	if got := MergeStyles(nil, DefaultStyleConfig()); got.ColorPrimary != DefaultStyleConfig().ColorPrimary {
		t.Error("nil custom should return defaults")
	}
}

func TestThemeVariant(t *testing.T) {
	light := ThemeVariant("light")
	if light.ColorBackground != "#ffffff" {
		t.Errorf("light background = %q", light.ColorBackground)
	}
	if ThemeVariant("nope").ColorPrimary != DefaultStyleConfig().ColorPrimary {
		t.Error("unknown variant should fall back to default")
	}
}
