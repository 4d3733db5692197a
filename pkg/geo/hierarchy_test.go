// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package geo

import (
	"errors"
	"testing"
)

func chainEdges() []RegionTypeEdge {
	return []RegionTypeEdge{
		{ID: "d", Type: "district", ParentID: "s"},
		{ID: "c", Type: "country"},
		{ID: "s", Type: "state", ParentID: "c"},
	}
}

func TestBuildChain(t *testing.T) {
	chain, err := BuildChain(chainEdges())
	if err != nil {
		t.Fatalf("BuildChain failed: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("chain length = %d, want 3", len(chain))
	}
	wantOrder := []string{"country", "state", "district"}
	for i, e := range chain {
		if e.Type != wantOrder[i] {
			t.Errorf("chain[%d].Type = %q, want %q", i, e.Type, wantOrder[i])
		}
	}
}

func TestBuildChain_Empty(t *testing.T) {
	chain, err := BuildChain(nil)
	if err != nil {
		t.Fatalf("BuildChain(nil) failed: %v", err)
	}
	if chain != nil {
		t.Errorf("BuildChain(nil) = %v, want nil", chain)
	}
}

func TestBuildChain_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		edges   []RegionTypeEdge
		wantErr error
	}{
		{
			name: "cycle with no root",
			edges: []RegionTypeEdge{
				{ID: "a", Type: "state", ParentID: "b"},
				{ID: "b", Type: "district", ParentID: "a"},
			},
			wantErr: ErrNoRoot,
		},
		{
			name: "cycle reachable from root",
			edges: []RegionTypeEdge{
				{ID: "a", Type: "country"},
				{ID: "b", Type: "state", ParentID: "a"},
				{ID: "a", Type: "district", ParentID: "b"},
			},
			wantErr: ErrCycle,
		},
		{
			name: "multiple roots",
			edges: []RegionTypeEdge{
				{ID: "a", Type: "country"},
				{ID: "b", Type: "country"},
			},
			wantErr: ErrMultipleRoots,
		},
		{
			name: "unreachable edge",
			edges: []RegionTypeEdge{
				{ID: "a", Type: "country"},
				{ID: "b", Type: "state", ParentID: "a"},
				{ID: "x", Type: "district", ParentID: "missing"},
			},
			wantErr: ErrOrphanEdges,
		},
		{
			name: "branching parent",
			edges: []RegionTypeEdge{
				{ID: "a", Type: "country"},
				{ID: "b", Type: "state", ParentID: "a"},
				{ID: "c", Type: "zone", ParentID: "a"},
			},
			wantErr: ErrOrphanEdges,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildChain(tt.edges)
			if err == nil {
				t.Fatal("BuildChain should fail on malformed input")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildChain_NoRoot(t *testing.T) {
	_, err := BuildChain([]RegionTypeEdge{
		{ID: "a", Type: "state", ParentID: "z"},
	})
	if !errors.Is(err, ErrNoRoot) {
		t.Errorf("error = %v, want ErrNoRoot", err)
	}
}

func TestNewHierarchy(t *testing.T) {
	h, err := NewHierarchy("IN", "state_name", chainEdges())
	if err != nil {
		t.Fatalf("NewHierarchy failed: %v", err)
	}
	if h.BaseLevel.Level != 0 || h.BaseLevel.RegionType != "country" {
		t.Errorf("base level = %+v, want level 0 country", h.BaseLevel)
	}
	if h.BaseLevel.Column != "state_name" {
		t.Errorf("base column = %q, want state_name", h.BaseLevel.Column)
	}
	if len(h.DrillDownLevels) != 2 {
		t.Fatalf("drill levels = %d, want 2", len(h.DrillDownLevels))
	}
	for i, l := range h.DrillDownLevels {
		if l.Level != i+1 {
			t.Errorf("drill level %d numbered %d, want %d", i, l.Level, i+1)
		}
		if l.Column != "" {
			t.Errorf("drill level %d starts with column %q, want unmapped", i, l.Column)
		}
	}
}

func TestHierarchy_SetDrillColumn(t *testing.T) {
	h, err := NewHierarchy("IN", "state", chainEdges())
	if err != nil {
		t.Fatalf("NewHierarchy failed: %v", err)
	}

	h2 := h.SetDrillColumn(1, "district")
	h2 = h2.SetDrillColumn(2, "block")
	if h2.Depth() != 3 {
		t.Errorf("Depth = %d, want 3", h2.Depth())
	}

	// Original hierarchy is untouched.
	if h.DrillDownLevels[0].Column != "" {
		t.Error("SetDrillColumn mutated its receiver")
	}

	// Removing level 1's mapping truncates level 2 as well.
	h3 := h2.SetDrillColumn(1, "")
	if len(h3.DrillDownLevels) != 0 {
		t.Errorf("after removing level 1, drill levels = %d, want 0", len(h3.DrillDownLevels))
	}
	if h3.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", h3.Depth())
	}

	// Out-of-range level is a no-op.
	h4 := h2.SetDrillColumn(9, "x")
	if h4.Depth() != h2.Depth() {
		t.Error("out-of-range SetDrillColumn should be a no-op")
	}
}

func TestHierarchy_Depth_StopsAtGap(t *testing.T) {
	h, err := NewHierarchy("IN", "state", chainEdges())
	if err != nil {
		t.Fatalf("NewHierarchy failed: %v", err)
	}
	// Map level 2 but not level 1: the gap makes level 2 unreachable.
	h = h.SetDrillColumn(2, "block")
	if h.Depth() != 1 {
		t.Errorf("Depth = %d, want 1 (gap at level 1)", h.Depth())
	}
}
