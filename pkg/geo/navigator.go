// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package geo

// Step is one entry of a drill-down path: a region the user clicked through,
// together with the column the next data fetch groups by and the filters
// accumulated from every ancestor selection.
type Step struct {
	Level            int               `json:"level"`
	Name             string            `json:"name"`
	GeographicColumn string            `json:"geographic_column"`
	GeoJSONID        string            `json:"geojson_id,omitempty"`
	RegionID         string            `json:"region_id,omitempty"`
	ParentSelections map[string]string `json:"parent_selections,omitempty"`
}

// RegionClickData is the metadata the map layer supplies when a region is
// clicked. GeoJSONID points at the boundary file for the clicked region's
// children; it may be empty when the backend has no finer boundaries.
type RegionClickData struct {
	RegionID  string `json:"region_id,omitempty"`
	GeoJSONID string `json:"geojson_id,omitempty"`
}

// Navigator tracks drill-down navigation over a hierarchy. The zero path is
// the Home state. Transition methods return the next navigator; the receiver
// is never mutated, so a session can discard a transition by dropping the
// return value.
type Navigator struct {
	hierarchy Hierarchy
	path      []Step
}

// NewNavigator returns a navigator at Home for the given hierarchy.
func NewNavigator(h Hierarchy) Navigator {
	return Navigator{hierarchy: h}
}

// Home reports whether the navigator is at the top level with no path.
func (n Navigator) Home() bool { return len(n.path) == 0 }

// Depth returns the number of drill steps taken.
func (n Navigator) Depth() int { return len(n.path) }

// Path returns a copy of the drill-down path, root-first.
func (n Navigator) Path() []Step {
	out := make([]Step, len(n.path))
	copy(out, n.path)
	return out
}

// Hierarchy returns the hierarchy the navigator walks.
func (n Navigator) Hierarchy() Hierarchy { return n.hierarchy }

// CurrentLevel returns the hierarchy level whose regions are currently shown.
// At Home this is the base level; after k clicks it is level k.
func (n Navigator) CurrentLevel() Level {
	l, _ := n.hierarchy.LevelAt(len(n.path))
	return l
}

// CanDrill reports whether clicking a region would descend further, i.e. the
// hierarchy maps a column for the level below the current one.
func (n Navigator) CanDrill() bool {
	next, ok := n.hierarchy.LevelAt(len(n.path) + 1)
	return ok && next.Column != ""
}

// RegionClick descends one level into the clicked region. The transition is a
// no-op when the hierarchy has no mapped level below the current one or the
// region name is empty; malformed clicks fall through silently rather than
// surfacing an error mid-interaction.
func (n Navigator) RegionClick(regionName string, data RegionClickData) Navigator {
	if regionName == "" || !n.CanDrill() {
		return n
	}
	current := n.CurrentLevel()
	next, _ := n.hierarchy.LevelAt(len(n.path) + 1)

	selections := make(map[string]string, len(n.path)+1)
	for k, v := range n.ParentSelections() {
		selections[k] = v
	}
	selections[current.Column] = regionName

	step := Step{
		Level:            len(n.path),
		Name:             regionName,
		GeographicColumn: next.Column,
		GeoJSONID:        data.GeoJSONID,
		RegionID:         data.RegionID,
		ParentSelections: selections,
	}

	out := n
	out.path = append(n.Path(), step)
	return out
}

// DrillUp truncates the path to target entries. target -1 (or 0) returns to
// Home. Targets at or beyond the current depth are a no-op.
func (n Navigator) DrillUp(target int) Navigator {
	if target < 0 {
		target = 0
	}
	if target >= len(n.path) {
		return n
	}
	out := n
	out.path = n.Path()[:target]
	return out
}

// DrillHome unconditionally returns to Home.
func (n Navigator) DrillHome() Navigator {
	out := n
	out.path = nil
	return out
}

// ParentSelections returns the accumulated region selections of the full
// path, mapping geographic column → selected region name. These become the
// filters of the next map-data request. Empty at Home.
func (n Navigator) ParentSelections() map[string]string {
	if len(n.path) == 0 {
		return nil
	}
	last := n.path[len(n.path)-1]
	out := make(map[string]string, len(last.ParentSelections))
	for k, v := range last.ParentSelections {
		out[k] = v
	}
	return out
}

// GeoJSONID returns the boundary file id for the currently shown regions:
// the last clicked region's id, or fallback when at Home.
func (n Navigator) GeoJSONID(fallback string) string {
	if len(n.path) == 0 {
		return fallback
	}
	if id := n.path[len(n.path)-1].GeoJSONID; id != "" {
		return id
	}
	return fallback
}

// Breadcrumb is one entry of the drill-down breadcrumb trail.
type Breadcrumb struct {
	Label string `json:"label"`
	Level int    `json:"level"`
	Home  bool   `json:"home"`
}

// Breadcrumbs returns the trail rendered above the map: a Home entry followed
// by one entry per path step. Clicking the crumb for step i maps to
// DrillUp(i), restoring the view in which that region was clicked.
func (n Navigator) Breadcrumbs() []Breadcrumb {
	crumbs := make([]Breadcrumb, 0, len(n.path)+1)
	crumbs = append(crumbs, Breadcrumb{Label: n.hierarchy.BaseLevel.Label, Home: true})
	for i, step := range n.path {
		crumbs = append(crumbs, Breadcrumb{Label: step.Name, Level: i})
	}
	return crumbs
}
