// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package export writes chart preview data to downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vizier-labs/vizier/pkg/chart"
	"github.com/vizier-labs/vizier/pkg/render"
)

// WriteCSV writes rows as CSV, columns ordered the way the table chart
// displays them. A header row always precedes the data.
func WriteCSV(w io.Writer, cfg chart.Config, rows []render.Row) error {
	cols := render.TableColumns(cfg, rows)
	cw := csv.NewWriter(w)

	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			record[i] = cellString(row[col])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes rows as a single-sheet Excel workbook. The sheet is named
// after the chart title when one is set.
func WriteXLSX(w io.Writer, cfg chart.Config, rows []render.Row) error {
	cols := render.TableColumns(cfg, rows)

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Data"
	if cfg.Title != "" {
		sheet = sanitizeSheetName(cfg.Title)
	}
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := make([]interface{}, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(cols))
		for j, col := range cols {
			cells[j] = cellValue(row[col])
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell address: %w", err)
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// cellValue normalizes JSON-decoded values for excelize, which handles
// numbers and strings natively.
func cellValue(v interface{}) interface{} {
	if v == nil {
		return ""
	}
	return v
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// Avoid the %v exponent form for large values.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// sanitizeSheetName trims the title to Excel's 31-character sheet name limit
// and strips the characters Excel forbids.
func sanitizeSheetName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
		if len(out) == 31 {
			break
		}
	}
	if len(out) == 0 {
		return "Data"
	}
	return string(out)
}
