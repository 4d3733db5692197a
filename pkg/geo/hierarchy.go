// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package geo models geographic hierarchies for map charts: the parent→child
// chain of region types (country → state → district, ...) and the drill-down
// navigation state a user walks while clicking through map regions.
package geo

import (
	"errors"
	"fmt"
)

// RegionTypeEdge is one step of a geographic hierarchy as reported by the
// backend's region-type lookup. ParentID is empty for the root level.
type RegionTypeEdge struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	ParentID string `json:"parent_id,omitempty"`
}

// Level is one level of a configured hierarchy. Level numbers are contiguous
// starting at 0 (the root).
type Level struct {
	Level      int    `json:"level"`
	Column     string `json:"column"`
	RegionType string `json:"region_type"`
	Label      string `json:"label"`
}

// Hierarchy is a configured geographic hierarchy: the base level the map
// renders at plus the ordered deeper levels a user can drill into.
type Hierarchy struct {
	CountryCode     string  `json:"country_code"`
	BaseLevel       Level   `json:"base_level"`
	DrillDownLevels []Level `json:"drill_down_levels"`
}

// Malformed region-type graphs are rejected at construction time rather than
// looping or silently truncating.
var (
	ErrNoRoot        = errors.New("geo: region type graph has no root edge")
	ErrMultipleRoots = errors.New("geo: region type graph has multiple root edges")
	ErrCycle         = errors.New("geo: region type graph contains a cycle")
	ErrOrphanEdges   = errors.New("geo: region type graph has unreachable edges")
)

// BuildChain orders region-type edges from root to leaf. The input must form
// a single chain: exactly one edge with an empty ParentID, every other edge
// reachable by following parent→child links, and no cycles. The returned
// slice index is the level number (0 = root).
func BuildChain(edges []RegionTypeEdge) ([]RegionTypeEdge, error) {
	if len(edges) == 0 {
		return nil, nil
	}

	var root *RegionTypeEdge
	children := make(map[string]RegionTypeEdge, len(edges))
	for i := range edges {
		e := edges[i]
		if e.ParentID == "" {
			if root != nil {
				return nil, fmt.Errorf("%w: %q and %q", ErrMultipleRoots, root.ID, e.ID)
			}
			root = &edges[i]
			continue
		}
		if _, dup := children[e.ParentID]; dup {
			// Two edges claiming the same parent cannot form a chain.
			return nil, fmt.Errorf("%w: parent %q has multiple children", ErrOrphanEdges, e.ParentID)
		}
		children[e.ParentID] = e
	}
	if root == nil {
		return nil, ErrNoRoot
	}

	chain := make([]RegionTypeEdge, 0, len(edges))
	chain = append(chain, *root)
	seen := map[string]bool{root.ID: true}
	for cur := *root; ; {
		next, ok := children[cur.ID]
		if !ok {
			break
		}
		if seen[next.ID] {
			return nil, fmt.Errorf("%w: edge %q revisited", ErrCycle, next.ID)
		}
		seen[next.ID] = true
		chain = append(chain, next)
		cur = next
	}

	if len(chain) != len(edges) {
		return nil, fmt.Errorf("%w: %d of %d edges reachable from root",
			ErrOrphanEdges, len(chain), len(edges))
	}
	return chain, nil
}

// NewHierarchy builds a Hierarchy from a validated edge chain. The root edge
// becomes the base level; the base column is the geographic column the map
// renders at. Deeper levels start with no column mapped; SetDrillColumn
// assigns them as the user configures drill-down.
func NewHierarchy(countryCode, baseColumn string, edges []RegionTypeEdge) (Hierarchy, error) {
	chain, err := BuildChain(edges)
	if err != nil {
		return Hierarchy{}, err
	}
	if len(chain) == 0 {
		return Hierarchy{}, ErrNoRoot
	}

	h := Hierarchy{
		CountryCode: countryCode,
		BaseLevel: Level{
			Level:      0,
			Column:     baseColumn,
			RegionType: chain[0].Type,
			Label:      chain[0].Type,
		},
	}
	for i, e := range chain[1:] {
		h.DrillDownLevels = append(h.DrillDownLevels, Level{
			Level:      i + 1,
			RegionType: e.Type,
			Label:      e.Type,
		})
	}
	return h, nil
}

// Depth returns the number of levels in the hierarchy, counting only drill
// levels that have a column mapped. The base level always counts.
func (h Hierarchy) Depth() int {
	depth := 1
	for _, l := range h.DrillDownLevels {
		if l.Column == "" {
			break
		}
		depth++
	}
	return depth
}

// LevelAt returns the level with the given number, or false when the number
// is out of range. Level 0 is the base level.
func (h Hierarchy) LevelAt(level int) (Level, bool) {
	if level == 0 {
		return h.BaseLevel, true
	}
	idx := level - 1
	if idx < 0 || idx >= len(h.DrillDownLevels) {
		return Level{}, false
	}
	return h.DrillDownLevels[idx], true
}

// SetDrillColumn maps column to the given drill level and returns the updated
// hierarchy. Setting an empty column removes the mapping and truncates every
// deeper level, since a gap in the chain makes them unreachable. Level 0 (the
// base level) is updated in place and never truncates.
func (h Hierarchy) SetDrillColumn(level int, column string) Hierarchy {
	out := h
	out.DrillDownLevels = make([]Level, len(h.DrillDownLevels))
	copy(out.DrillDownLevels, h.DrillDownLevels)

	if level == 0 {
		out.BaseLevel.Column = column
		return out
	}
	idx := level - 1
	if idx < 0 || idx >= len(out.DrillDownLevels) {
		return out
	}
	if column == "" {
		out.DrillDownLevels = out.DrillDownLevels[:idx]
		return out
	}
	out.DrillDownLevels[idx].Column = column
	return out
}
