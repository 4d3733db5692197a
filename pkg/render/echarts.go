// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/vizier-labs/vizier/pkg/chart"
)

// Row is one record returned by the backend data API.
type Row map[string]interface{}

// Generator produces ECharts option JSON from builder state and fetched rows.
type Generator struct {
	style *StyleConfig
}

// NewGenerator creates a generator; a nil style gets the defaults.
func NewGenerator(style *StyleConfig) *Generator {
	if style == nil {
		style = DefaultStyleConfig()
	}
	return &Generator{style: style}
}

// Generate builds the option JSON for the config's chart type. The rows are
// whatever the backend returned for the derived data request; the generator
// reads only the columns the config names.
func (g *Generator) Generate(cfg chart.Config, rows []Row) (string, error) {
	var option map[string]interface{}

	switch cfg.ChartType {
	case chart.ChartTypeBar:
		option = g.generateBar(cfg, rows)
	case chart.ChartTypeLine:
		option = g.generateLine(cfg, rows)
	case chart.ChartTypePie:
		option = g.generatePie(cfg, rows)
	case chart.ChartTypeNumber:
		option = g.generateNumber(cfg, rows)
	case chart.ChartTypeTable:
		option = g.generateTable(cfg, rows)
	case chart.ChartTypeMap:
		option = g.generateMap(cfg, rows)
	default:
		return "", fmt.Errorf("no preview renderer for chart type %q", cfg.ChartType)
	}

	jsonBytes, err := json.Marshal(option)
	if err != nil {
		return "", fmt.Errorf("failed to marshal ECharts option: %w", err)
	}
	return string(jsonBytes), nil
}

func (g *Generator) generateBar(cfg chart.Config, rows []Row) map[string]interface{} {
	labels := g.extractLabels(cfg, rows)

	series := make([]interface{}, 0, len(cfg.Metrics))
	for i, m := range cfg.Metrics {
		color := g.paletteColor(i)
		series = append(series, map[string]interface{}{
			"type": "bar",
			"name": MetricKey(m),
			"data": g.extractValues(rows, MetricKey(m)),
			"itemStyle": map[string]interface{}{
				"color":        color,
				"borderRadius": []int{4, 4, 0, 0},
			},
			"label": map[string]interface{}{
				"show":       len(cfg.Metrics) == 1,
				"position":   "top",
				"color":      g.style.ColorTextMuted,
				"fontFamily": g.style.FontFamily,
				"fontSize":   g.style.FontSizeLabel,
			},
		})
	}

	option := g.baseOption(cfg)
	option["grid"] = g.gridConfig()
	option["xAxis"] = g.categoryAxis(labels)
	option["yAxis"] = g.valueAxis()
	option["series"] = series
	if len(cfg.Metrics) > 1 {
		option["legend"] = g.legendConfig()
	}
	return option
}

func (g *Generator) generateLine(cfg chart.Config, rows []Row) map[string]interface{} {
	labels := g.extractLabels(cfg, rows)

	series := make([]interface{}, 0, len(cfg.Metrics))
	for i, m := range cfg.Metrics {
		color := g.paletteColor(i)
		series = append(series, map[string]interface{}{
			"type":   "line",
			"name":   MetricKey(m),
			"data":   g.extractValues(rows, MetricKey(m)),
			"smooth": true,
			"lineStyle": map[string]interface{}{
				"color": color,
				"width": 2,
			},
			"itemStyle": map[string]interface{}{
				"color": color,
			},
		})
	}

	option := g.baseOption(cfg)
	option["grid"] = g.gridConfig()
	option["xAxis"] = g.categoryAxis(labels)
	option["yAxis"] = g.valueAxis()
	option["series"] = series
	if len(cfg.Metrics) > 1 {
		option["legend"] = g.legendConfig()
	}
	return option
}

func (g *Generator) generatePie(cfg chart.Config, rows []Row) map[string]interface{} {
	labels := g.extractLabels(cfg, rows)

	var valueKey string
	if len(cfg.Metrics) > 0 {
		valueKey = MetricKey(cfg.Metrics[0])
	}
	values := g.extractValues(rows, valueKey)

	var data []interface{}
	for i, label := range labels {
		if i < len(values) {
			data = append(data, map[string]interface{}{
				"name":  label,
				"value": values[i],
			})
		}
	}

	option := g.baseOption(cfg)
	option["legend"] = g.legendConfig()
	option["series"] = []interface{}{
		map[string]interface{}{
			"type":   "pie",
			"radius": "55%",
			"center": []string{"50%", "50%"},
			"data":   data,
			"label": map[string]interface{}{
				"color":      g.style.ColorText,
				"fontFamily": g.style.FontFamily,
				"fontSize":   g.style.FontSizeLabel,
			},
		},
	}
	return option
}

// generateNumber renders a single KPI value as a centered text graphic.
func (g *Generator) generateNumber(cfg chart.Config, rows []Row) map[string]interface{} {
	value := "—"
	if len(rows) > 0 && len(cfg.Metrics) > 0 {
		if v, ok := rows[0][MetricKey(cfg.Metrics[0])]; ok {
			value = formatNumber(v)
		}
	}

	option := g.baseOption(cfg)
	option["graphic"] = []interface{}{
		map[string]interface{}{
			"type": "text",
			"left": "center",
			"top":  "middle",
			"style": map[string]interface{}{
				"text":       value,
				"fill":       g.style.ColorPrimary,
				"fontFamily": g.style.FontFamily,
				"fontSize":   g.style.FontSizeTitle * 4,
				"fontWeight": "bold",
			},
		},
	}
	return option
}

// generateTable emits a dataset block the table widget reads directly; there
// is no series to draw.
func (g *Generator) generateTable(cfg chart.Config, rows []Row) map[string]interface{} {
	columns := TableColumns(cfg, rows)

	source := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		record := make([]interface{}, len(columns))
		for i, col := range columns {
			record[i] = row[col]
		}
		source = append(source, record)
	}

	option := g.baseOption(cfg)
	option["dataset"] = map[string]interface{}{
		"dimensions": columns,
		"source":     source,
	}
	return option
}

func (g *Generator) generateMap(cfg chart.Config, rows []Row) map[string]interface{} {
	var data []interface{}
	min, max := 0.0, 0.0
	for i, row := range rows {
		name := fmt.Sprintf("%v", row[cfg.GeographicColumn])
		value := toFloat64(row[cfg.ValueColumn])
		if i == 0 || value < min {
			min = value
		}
		if i == 0 || value > max {
			max = value
		}
		data = append(data, map[string]interface{}{
			"name":  name,
			"value": value,
		})
	}

	option := g.baseOption(cfg)
	option["visualMap"] = map[string]interface{}{
		"min":        min,
		"max":        max,
		"calculable": true,
		"inRange": map[string]interface{}{
			"color": []string{fmt.Sprintf("%s33", g.style.ColorPrimary), g.style.ColorPrimary},
		},
		"textStyle": map[string]interface{}{
			"color":      g.style.ColorText,
			"fontFamily": g.style.FontFamily,
		},
	}
	option["series"] = []interface{}{
		map[string]interface{}{
			"type":    "map",
			"map":     cfg.SelectedGeoJSONID, // registered client-side from the geojson fetch
			"roam":    true,
			"data":    data,
			"emphasis": map[string]interface{}{
				"label": map[string]interface{}{
					"show":  true,
					"color": g.style.ColorText,
				},
			},
		},
	}
	return option
}

func (g *Generator) baseOption(cfg chart.Config) map[string]interface{} {
	option := map[string]interface{}{
		"backgroundColor":   g.style.ColorBackground,
		"animation":         true,
		"animationDuration": g.style.AnimationDuration,
		"animationEasing":   g.style.AnimationEasing,
		"tooltip":           g.tooltipConfig(),
	}
	if cfg.Title != "" {
		option["title"] = map[string]interface{}{
			"text": cfg.Title,
			"textStyle": map[string]interface{}{
				"color":      g.style.ColorText,
				"fontFamily": g.style.FontFamily,
				"fontSize":   g.style.FontSizeTitle,
			},
		}
	}
	return option
}

func (g *Generator) gridConfig() map[string]interface{} {
	return map[string]interface{}{
		"left":         "3%",
		"right":        "4%",
		"bottom":       "3%",
		"containLabel": true,
	}
}

func (g *Generator) tooltipConfig() map[string]interface{} {
	return map[string]interface{}{
		"trigger": "axis",
		"textStyle": map[string]interface{}{
			"fontFamily": g.style.FontFamily,
			"fontSize":   g.style.FontSizeTooltip,
		},
	}
}

func (g *Generator) legendConfig() map[string]interface{} {
	return map[string]interface{}{
		"orient": "horizontal",
		"top":    "bottom",
		"textStyle": map[string]interface{}{
			"color":      g.style.ColorText,
			"fontFamily": g.style.FontFamily,
			"fontSize":   g.style.FontSizeLabel,
		},
	}
}

func (g *Generator) categoryAxis(labels []string) map[string]interface{} {
	return map[string]interface{}{
		"type": "category",
		"data": labels,
		"axisLine": map[string]interface{}{
			"lineStyle": map[string]interface{}{
				"color": g.style.ColorBorder,
			},
		},
		"axisLabel": g.axisLabelStyle(),
	}
}

func (g *Generator) valueAxis() map[string]interface{} {
	return map[string]interface{}{
		"type": "value",
		"axisLine": map[string]interface{}{
			"lineStyle": map[string]interface{}{
				"color": g.style.ColorBorder,
			},
		},
		"axisLabel": g.axisLabelStyle(),
		"splitLine": map[string]interface{}{
			"lineStyle": map[string]interface{}{
				"color": g.style.ColorBorder,
				"type":  "dashed",
			},
		},
	}
}

func (g *Generator) axisLabelStyle() map[string]interface{} {
	return map[string]interface{}{
		"color":      g.style.ColorTextMuted,
		"fontFamily": g.style.FontFamily,
		"fontSize":   g.style.FontSizeLabel,
	}
}

func (g *Generator) paletteColor(i int) string {
	if len(g.style.ColorPalette) == 0 {
		return g.style.ColorPrimary
	}
	return g.style.ColorPalette[i%len(g.style.ColorPalette)]
}

// extractLabels reads the dimension column of every row in order.
func (g *Generator) extractLabels(cfg chart.Config, rows []Row) []string {
	dim := cfg.DimensionColumn
	if dim == "" {
		dim = cfg.XAxisColumn
	}
	labels := make([]string, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, fmt.Sprintf("%v", row[dim]))
	}
	return labels
}

func (g *Generator) extractValues(rows []Row, key string) []interface{} {
	values := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, row[key])
	}
	return values
}

// MetricKey is the row key a metric's values arrive under: the alias when
// set, otherwise "agg_column" (or just the aggregation for bare counts).
// This mirrors how the backend names aggregated result columns.
func MetricKey(m chart.Metric) string {
	if m.Alias != "" {
		return m.Alias
	}
	if m.Column == "" {
		return string(m.Aggregation)
	}
	return fmt.Sprintf("%s_%s", m.Aggregation, m.Column)
}

// TableColumns returns the display order of a table preview: dimension then
// metric keys for aggregated tables, the first row's keys (sorted) for raw
// listings.
func TableColumns(cfg chart.Config, rows []Row) []string {
	if len(cfg.Metrics) > 0 {
		cols := make([]string, 0, len(cfg.Metrics)+1)
		if cfg.DimensionColumn != "" {
			cols = append(cols, cfg.DimensionColumn)
		}
		for _, m := range cfg.Metrics {
			cols = append(cols, MetricKey(m))
		}
		return cols
	}
	if len(rows) == 0 {
		return nil
	}
	return sortedKeys(rows[0])
}

func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

func formatNumber(v interface{}) string {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'f', 2, 64)
	case int, int32, int64:
		return fmt.Sprintf("%d", n)
	case string:
		return n
	default:
		return fmt.Sprintf("%v", v)
	}
}
