// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chart

// Reconcile maps a config onto a new chart type. Title, schema, table,
// filters, customizations, sort, and pagination always carry over untouched;
// per-type policy decides which axis fields are cleared and whether metrics
// are capped. The function is total: an unknown target type produces a patch
// that only switches the type.
//
// Per-type policy:
//
//	number   clear x/y axis, dimension, extra dimension; metrics capped at 1
//	pie      clear y axis; metrics capped at 1
//	bar/line nothing cleared, metrics unrestricted
//	table    clear y axis
//	map      clear every non-geographic axis field and metrics
//
// Geographic fields only mean something on a map chart, so any non-map
// target clears them; a drill-down in progress is discarded with them.
func Reconcile(prev Config, target ChartType) Patch {
	p := Patch{ChartType: typePtr(target)}

	switch target {
	case ChartTypeNumber:
		p.XAxisColumn = strPtr("")
		p.YAxisColumn = strPtr("")
		p.DimensionColumn = strPtr("")
		p.ExtraDimensionColumn = strPtr("")
		if len(prev.Metrics) > 1 {
			p.Metrics = metricsPtr(copyMetrics(prev.Metrics[:1]))
		}
	case ChartTypePie:
		p.YAxisColumn = strPtr("")
		if len(prev.Metrics) > 1 {
			p.Metrics = metricsPtr(copyMetrics(prev.Metrics[:1]))
		}
	case ChartTypeTable:
		p.YAxisColumn = strPtr("")
	case ChartTypeMap:
		p.XAxisColumn = strPtr("")
		p.YAxisColumn = strPtr("")
		p.DimensionColumn = strPtr("")
		p.ExtraDimensionColumn = strPtr("")
		p.AggregateColumn = strPtr("")
		p.AggregateFunc = aggPtr("")
		p.Metrics = metricsPtr(nil)
	case ChartTypeBar, ChartTypeLine:
		// Nothing cleared.
	default:
		// Unknown types pass through with only the type switched.
	}

	if target != ChartTypeMap && hasGeographicFields(prev) {
		p.GeographicColumn = strPtr("")
		p.ValueColumn = strPtr("")
		p.SelectedGeoJSONID = strPtr("")
		p.Hierarchy = hierarchyPtr(nil)
		p.Layers = layersPtr(nil)
	}

	return p
}

func hasGeographicFields(cfg Config) bool {
	return cfg.GeographicColumn != "" || cfg.ValueColumn != "" ||
		cfg.SelectedGeoJSONID != "" || cfg.Hierarchy != nil || len(cfg.Layers) > 0
}
