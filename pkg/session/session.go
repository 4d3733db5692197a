// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package session owns live chart-builder sessions. Each session holds one
// ChartConfig and, for map charts, one drill-down navigator; every mutation
// funnels through the session's methods under a single lock, so the config
// is never observed mid-update.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vizier-labs/vizier/internal/pubsub"
	"github.com/vizier-labs/vizier/pkg/catalog"
	"github.com/vizier-labs/vizier/pkg/chart"
	"github.com/vizier-labs/vizier/pkg/geo"
)

// Action names a session transition in the event stream.
type Action string

const (
	ActionCreated   Action = "created"
	ActionPatched   Action = "patched"
	ActionChartType Action = "chart_type"
	ActionPrefilled Action = "prefilled"
	ActionDrill     Action = "drill"
	ActionDeleted   Action = "deleted"
)

// Event is published on every accepted session transition.
type Event struct {
	SessionID string       `json:"session_id"`
	Action    Action       `json:"action"`
	Config    chart.Config `json:"config"`
	DrillPath []geo.Step   `json:"drill_path,omitempty"`
}

// Session is one builder session. Safe for concurrent use.
type Session struct {
	mu  sync.Mutex
	id  string
	cfg chart.Config
	nav geo.Navigator

	createdAt time.Time
	updatedAt time.Time

	broker *pubsub.Broker[Event]
	logger *zap.Logger
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Config returns a snapshot of the current config.
func (s *Session) Config() chart.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Navigator returns a snapshot of the drill-down navigator.
func (s *Session) Navigator() geo.Navigator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav
}

// UpdatedAt returns the time of the last accepted transition.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// ApplyPatch applies a partial update atomically and returns the new config.
func (s *Session) ApplyPatch(p chart.Patch) chart.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Empty() {
		return s.cfg
	}
	s.cfg = chart.Apply(s.cfg, p)
	s.touch(ActionPatched)
	return s.cfg
}

// SetChartType switches the chart type through the reconciler. Entering the
// map type creates a fresh navigator; leaving it discards the drill state
// along with the geographic fields the reconciler clears.
func (s *Session) SetChartType(target chart.ChartType) chart.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cfg.ChartType
	s.cfg = chart.Apply(s.cfg, chart.Reconcile(s.cfg, target))

	if target == chart.ChartTypeMap && prev != chart.ChartTypeMap {
		s.resetNavigator()
	}
	if target != chart.ChartTypeMap {
		s.nav = geo.Navigator{}
	}

	s.touch(ActionChartType)
	return s.cfg
}

// PrefillIfFresh applies the auto-prefill heuristic when the config has no
// data selection yet. Reports whether a prefill was applied.
func (s *Session) PrefillIfFresh(cols []catalog.Column) (chart.Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !chart.Fresh(s.cfg) {
		return s.cfg, false
	}
	p := chart.AutoPrefill(s.cfg.ChartType, cols)
	if p.Empty() {
		return s.cfg, false
	}
	s.cfg = chart.Apply(s.cfg, p)
	s.touch(ActionPrefilled)
	return s.cfg, true
}

// SetHierarchy installs a geographic hierarchy and resets the drill path,
// since an in-flight path over the old hierarchy no longer means anything.
func (s *Session) SetHierarchy(h geo.Hierarchy) chart.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	hCopy := h
	s.cfg.Hierarchy = &hCopy
	s.nav = geo.NewNavigator(hCopy)
	s.touch(ActionPatched)
	return s.cfg
}

// SetDrillColumn maps a column to a drill level and resets the path when the
// change truncates levels the path had descended into.
func (s *Session) SetDrillColumn(level int, column string) chart.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Hierarchy == nil {
		return s.cfg
	}
	h := s.cfg.Hierarchy.SetDrillColumn(level, column)
	s.cfg.Hierarchy = &h
	if s.nav.Depth() >= h.Depth() {
		s.nav = geo.NewNavigator(h)
	} else {
		s.nav = rebaseNavigator(h, s.nav)
	}
	s.touch(ActionPatched)
	return s.cfg
}

// RegionClick descends one drill level. Invalid clicks are silent no-ops and
// publish nothing.
func (s *Session) RegionClick(regionName string, data geo.RegionClickData) []geo.Step {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.nav.RegionClick(regionName, data)
	if next.Depth() == s.nav.Depth() {
		return s.nav.Path()
	}
	s.nav = next
	s.touch(ActionDrill)
	return s.nav.Path()
}

// DrillUp truncates the drill path to target entries.
func (s *Session) DrillUp(target int) []geo.Step {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.nav.DrillUp(target)
	if next.Depth() != s.nav.Depth() {
		s.nav = next
		s.touch(ActionDrill)
	}
	return s.nav.Path()
}

// DrillHome empties the drill path.
func (s *Session) DrillHome() []geo.Step {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.nav.Home() {
		s.nav = s.nav.DrillHome()
		s.touch(ActionDrill)
	}
	return s.nav.Path()
}

// Valid reports whether the config passes the save gate.
func (s *Session) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return chart.Valid(s.cfg)
}

// Problems lists what keeps the config from being saveable.
func (s *Session) Problems() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return chart.Problems(s.cfg)
}

// touch stamps the session and publishes the transition. Callers hold s.mu.
func (s *Session) touch(action Action) {
	s.updatedAt = time.Now()
	if s.broker != nil {
		s.broker.Publish(pubsub.NewUpdatedEvent(Event{
			SessionID: s.id,
			Action:    action,
			Config:    s.cfg,
			DrillPath: s.nav.Path(),
		}))
	}
}

// resetNavigator rebuilds the navigator from the config's hierarchy, or
// leaves an empty one when no hierarchy is configured. Callers hold s.mu.
func (s *Session) resetNavigator() {
	if s.cfg.Hierarchy != nil {
		s.nav = geo.NewNavigator(*s.cfg.Hierarchy)
	} else {
		s.nav = geo.Navigator{}
	}
}

// rebaseNavigator replays an existing path onto an updated hierarchy.
func rebaseNavigator(h geo.Hierarchy, old geo.Navigator) geo.Navigator {
	nav := geo.NewNavigator(h)
	for _, step := range old.Path() {
		nav = nav.RegionClick(step.Name, geo.RegionClickData{
			RegionID:  step.RegionID,
			GeoJSONID: step.GeoJSONID,
		})
	}
	return nav
}

func newSessionID() string { return uuid.NewString() }
