// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package geo

import (
	"testing"
)

func drillHierarchy(t *testing.T) Hierarchy {
	t.Helper()
	h, err := NewHierarchy("IN", "state", chainEdges())
	if err != nil {
		t.Fatalf("NewHierarchy failed: %v", err)
	}
	h = h.SetDrillColumn(1, "district")
	h = h.SetDrillColumn(2, "block")
	return h
}

func TestNavigator_RegionClick(t *testing.T) {
	nav := NewNavigator(drillHierarchy(t))
	if !nav.Home() {
		t.Fatal("new navigator should start at Home")
	}

	nav = nav.RegionClick("Maharashtra", RegionClickData{RegionID: "MH", GeoJSONID: "geo-mh"})
	if nav.Home() || nav.Depth() != 1 {
		t.Fatalf("after one click Depth = %d, want 1", nav.Depth())
	}

	step := nav.Path()[0]
	if step.Level != 0 {
		t.Errorf("step.Level = %d, want 0", step.Level)
	}
	if step.Name != "Maharashtra" {
		t.Errorf("step.Name = %q, want Maharashtra", step.Name)
	}
	if step.GeographicColumn != "district" {
		t.Errorf("step.GeographicColumn = %q, want district", step.GeographicColumn)
	}
	if step.RegionID != "MH" || step.GeoJSONID != "geo-mh" {
		t.Errorf("step region metadata = %q/%q, want MH/geo-mh", step.RegionID, step.GeoJSONID)
	}
	if got := step.ParentSelections["state"]; got != "Maharashtra" {
		t.Errorf("ParentSelections[state] = %q, want Maharashtra", got)
	}
}

func TestNavigator_ClickAccumulatesSelections(t *testing.T) {
	nav := NewNavigator(drillHierarchy(t))
	nav = nav.RegionClick("Maharashtra", RegionClickData{})
	nav = nav.RegionClick("Pune", RegionClickData{GeoJSONID: "geo-pune"})

	if nav.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", nav.Depth())
	}
	sel := nav.ParentSelections()
	if sel["state"] != "Maharashtra" || sel["district"] != "Pune" {
		t.Errorf("ParentSelections = %v, want state=Maharashtra district=Pune", sel)
	}
	if nav.GeoJSONID("base") != "geo-pune" {
		t.Errorf("GeoJSONID = %q, want geo-pune", nav.GeoJSONID("base"))
	}
}

func TestNavigator_LeafClickIsNoOp(t *testing.T) {
	nav := NewNavigator(drillHierarchy(t))
	nav = nav.RegionClick("Maharashtra", RegionClickData{})
	nav = nav.RegionClick("Pune", RegionClickData{})
	nav = nav.RegionClick("Haveli", RegionClickData{}) // leaf level: no deeper column

	if nav.Depth() != 2 {
		t.Errorf("leaf click changed Depth to %d, want 2", nav.Depth())
	}
}

func TestNavigator_EmptyNameIsNoOp(t *testing.T) {
	nav := NewNavigator(drillHierarchy(t))
	nav = nav.RegionClick("", RegionClickData{RegionID: "x"})
	if !nav.Home() {
		t.Error("click with empty region name should be a no-op")
	}
}

func TestNavigator_DrillUp(t *testing.T) {
	nav := NewNavigator(drillHierarchy(t))
	nav = nav.RegionClick("Maharashtra", RegionClickData{})
	nav = nav.RegionClick("Pune", RegionClickData{})

	tests := []struct {
		name      string
		target    int
		wantDepth int
	}{
		{"truncate to one", 1, 1},
		{"truncate to zero", 0, 0},
		{"negative target", -1, 0},
		{"target at depth is no-op", 2, 2},
		{"target beyond depth is no-op", 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nav.DrillUp(tt.target)
			if got.Depth() != tt.wantDepth {
				t.Errorf("DrillUp(%d) Depth = %d, want %d", tt.target, got.Depth(), tt.wantDepth)
			}
		})
	}
}

func TestNavigator_DrillHome(t *testing.T) {
	nav := NewNavigator(drillHierarchy(t))
	if !nav.DrillHome().Home() {
		t.Error("DrillHome from Home should stay Home")
	}

	nav = nav.RegionClick("Maharashtra", RegionClickData{})
	nav = nav.RegionClick("Pune", RegionClickData{})
	home := nav.DrillHome()
	if !home.Home() {
		t.Error("DrillHome should empty the path")
	}
	if home.ParentSelections() != nil {
		t.Error("ParentSelections should be nil at Home")
	}
	// The drilled navigator is unaffected.
	if nav.Depth() != 2 {
		t.Error("DrillHome mutated its receiver")
	}
}

func TestNavigator_EndToEnd(t *testing.T) {
	// Two-level hierarchy, click a state, then drill up to zero.
	h, err := NewHierarchy("IN", "state", []RegionTypeEdge{
		{ID: "c", Type: "country"},
		{ID: "s", Type: "state", ParentID: "c"},
	})
	if err != nil {
		t.Fatalf("NewHierarchy failed: %v", err)
	}
	h = h.SetDrillColumn(1, "district")

	nav := NewNavigator(h)
	nav = nav.RegionClick("Maharashtra", RegionClickData{})
	if nav.Depth() != 1 {
		t.Fatalf("Depth = %d, want 1", nav.Depth())
	}
	if got := nav.Path()[0].GeographicColumn; got != "district" {
		t.Errorf("GeographicColumn = %q, want district", got)
	}

	nav = nav.DrillUp(0)
	if !nav.Home() {
		t.Error("DrillUp(0) should return to Home")
	}
}

func TestNavigator_Breadcrumbs(t *testing.T) {
	nav := NewNavigator(drillHierarchy(t))
	nav = nav.RegionClick("Maharashtra", RegionClickData{})
	nav = nav.RegionClick("Pune", RegionClickData{})

	crumbs := nav.Breadcrumbs()
	if len(crumbs) != 3 {
		t.Fatalf("breadcrumbs = %d, want 3", len(crumbs))
	}
	if !crumbs[0].Home {
		t.Error("first crumb should be Home")
	}
	if crumbs[1].Label != "Maharashtra" || crumbs[1].Level != 0 {
		t.Errorf("crumb 1 = %+v, want Maharashtra at level 0", crumbs[1])
	}
	if crumbs[2].Label != "Pune" || crumbs[2].Level != 1 {
		t.Errorf("crumb 2 = %+v, want Pune at level 1", crumbs[2])
	}
}

func TestNavigator_CurrentLevelAndCanDrill(t *testing.T) {
	nav := NewNavigator(drillHierarchy(t))
	if nav.CurrentLevel().Column != "state" {
		t.Errorf("CurrentLevel at Home = %q, want state", nav.CurrentLevel().Column)
	}
	if !nav.CanDrill() {
		t.Error("CanDrill should be true at Home with mapped drill levels")
	}

	nav = nav.RegionClick("Maharashtra", RegionClickData{})
	nav = nav.RegionClick("Pune", RegionClickData{})
	if nav.CanDrill() {
		t.Error("CanDrill should be false at the leaf level")
	}
	if nav.CurrentLevel().Column != "block" {
		t.Errorf("CurrentLevel = %q, want block", nav.CurrentLevel().Column)
	}
}
