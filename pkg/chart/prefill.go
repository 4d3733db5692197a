// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chart

import (
	"github.com/vizier-labs/vizier/pkg/catalog"
)

// AutoPrefill proposes an initial configuration for a chart type from the
// source table's columns. It is pure and deterministic: the same inputs
// always yield the same patch. Callers invoke it only on fresh configs (see
// Fresh); it returns an empty patch when no columns are available.
//
// The default metric is the first numeric column with a sum aggregation, or
// a bare count when the table has no numeric column.
func AutoPrefill(target ChartType, cols []catalog.Column) Patch {
	if len(cols) == 0 {
		return Patch{}
	}

	switch target {
	case ChartTypeNumber:
		return Patch{
			ComputationType: compPtr(ComputationAggregated),
			Metrics:         metricsPtr([]Metric{defaultMetric(cols)}),
		}

	case ChartTypeMap:
		p := Patch{ComputationType: compPtr(ComputationAggregated)}
		if geoCol, ok := catalog.FirstCategorical(cols); ok {
			p.GeographicColumn = strPtr(geoCol.Name)
		}
		if valCol, ok := catalog.FirstNumeric(cols); ok {
			p.ValueColumn = strPtr(valCol.Name)
			p.AggregateFunc = aggPtr(AggSum)
		}
		return p

	case ChartTypeTable:
		// Tables default to a raw listing of the source rows.
		return Patch{
			ComputationType: compPtr(ComputationRaw),
			Pagination:      &Pagination{Enabled: true, PageSize: 50},
		}

	case ChartTypeBar, ChartTypeLine, ChartTypePie:
		p := Patch{
			ComputationType: compPtr(ComputationAggregated),
			Metrics:         metricsPtr([]Metric{defaultMetric(cols)}),
		}
		if dim, ok := catalog.FirstCategorical(cols); ok {
			p.DimensionColumn = strPtr(dim.Name)
		}
		return p

	default:
		return Patch{}
	}
}

func defaultMetric(cols []catalog.Column) Metric {
	if num, ok := catalog.FirstNumeric(cols); ok {
		return Metric{Column: num.Name, Aggregation: AggSum}
	}
	return Metric{Aggregation: AggCount}
}
