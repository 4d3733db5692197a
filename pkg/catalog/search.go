// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package catalog

import (
	"github.com/sahilm/fuzzy"
)

// columnSource adapts a column slice to fuzzy.Source, matching against the
// display name so labelled columns are found by their label.
type columnSource []Column

func (s columnSource) String(i int) string { return s[i].DisplayName() }
func (s columnSource) Len() int            { return len(s) }

// SearchColumns fuzzy-matches query against column display names and returns
// matching columns ranked best-first. An empty query returns all columns in
// their original order.
func SearchColumns(cols []Column, query string) []Column {
	if query == "" {
		out := make([]Column, len(cols))
		copy(out, cols)
		return out
	}

	matches := fuzzy.FindFrom(query, columnSource(cols))
	out := make([]Column, 0, len(matches))
	for _, m := range matches {
		out = append(out, cols[m.Index])
	}
	return out
}
