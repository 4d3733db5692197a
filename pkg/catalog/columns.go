// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package catalog describes the data sources the chart builder can draw from:
// schemas, tables, and column metadata as reported by the backend's
// introspection API. The builder never inspects databases itself; it only
// consumes these shapes.
package catalog

import "strings"

// Column is one column of a source table as reported by the backend.
type Column struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}

// Table is a queryable table within a schema.
type Table struct {
	SchemaName string   `json:"schema_name"`
	Name       string   `json:"name"`
	Label      string   `json:"label,omitempty"`
	Columns    []Column `json:"columns,omitempty"`
}

// Schema is a namespace of tables exposed by the backend.
type Schema struct {
	Name   string  `json:"name"`
	Label  string  `json:"label,omitempty"`
	Tables []Table `json:"tables,omitempty"`
}

// numericTypes is the set of declared column types treated as numeric for
// aggregation purposes. Everything else is only valid for grouping roles.
var numericTypes = map[string]struct{}{
	"integer":          {},
	"bigint":           {},
	"numeric":          {},
	"double precision": {},
	"real":             {},
	"float":            {},
	"decimal":          {},
}

// Numeric reports whether the column's declared type is numeric.
// The comparison is case-insensitive.
func (c Column) Numeric() bool {
	_, ok := numericTypes[strings.ToLower(strings.TrimSpace(c.Type))]
	return ok
}

// DisplayName returns the label if set, otherwise the column name.
func (c Column) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// FirstNumeric returns the first numeric column, or false if none exists.
func FirstNumeric(cols []Column) (Column, bool) {
	for _, c := range cols {
		if c.Numeric() {
			return c, true
		}
	}
	return Column{}, false
}

// FirstCategorical returns the first non-numeric column, or false if none
// exists.
func FirstCategorical(cols []Column) (Column, bool) {
	for _, c := range cols {
		if !c.Numeric() {
			return c, true
		}
	}
	return Column{}, false
}
