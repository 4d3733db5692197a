// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package session

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vizier-labs/vizier/internal/pubsub"
	"github.com/vizier-labs/vizier/pkg/chart"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session: not found")

// DefaultTTL is how long an idle session survives before the maintenance
// sweep reclaims it.
const DefaultTTL = 4 * time.Hour

// Manager is the in-memory session registry.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl    time.Duration
	broker *pubsub.Broker[Event]
	logger *zap.Logger
}

// NewManager creates a session manager. A zero ttl gets DefaultTTL.
func NewManager(ttl time.Duration, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		broker:   pubsub.NewBroker[Event](),
		logger:   logger,
	}
}

// Events returns the broker carrying session transition events.
func (m *Manager) Events() *pubsub.Broker[Event] { return m.broker }

// Create opens a new session with the given initial config.
func (m *Manager) Create(initial chart.Config) *Session {
	now := time.Now()
	s := &Session{
		id:        newSessionID(),
		cfg:       initial,
		createdAt: now,
		updatedAt: now,
		broker:    m.broker,
		logger:    m.logger,
	}
	if initial.ChartType == chart.ChartTypeMap {
		s.resetNavigator()
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.broker.Publish(pubsub.NewCreatedEvent(Event{
		SessionID: s.id,
		Action:    ActionCreated,
		Config:    initial,
	}))
	m.logger.Debug("session created", zap.String("session_id", s.id))
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	m.broker.Publish(pubsub.NewDeletedEvent(Event{
		SessionID: s.id,
		Action:    ActionDeleted,
	}))
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// PurgeExpired removes sessions idle past the TTL and returns how many were
// dropped. Called from the maintenance cron.
func (m *Manager) PurgeExpired() int {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if s.UpdatedAt().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if len(expired) > 0 {
		m.logger.Info("purged expired sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}
