// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"encoding/json"
	"net/http"

	"github.com/r3labs/sse/v2"
	"go.uber.org/zap"

	"github.com/vizier-labs/vizier/internal/pubsub"
	"github.com/vizier-labs/vizier/pkg/session"
)

// sessionStream is the SSE stream id clients subscribe to
// (GET /v1/events?stream=sessions).
const sessionStream = "sessions"

// eventStream forwards session transitions from the in-process broker to
// connected SSE clients.
type eventStream struct {
	sse    *sse.Server
	broker *pubsub.Broker[session.Event]
	done   chan struct{}
	logger *zap.Logger
}

func newEventStream(broker *pubsub.Broker[session.Event], logger *zap.Logger) *eventStream {
	srv := sse.New()
	srv.AutoReplay = false
	srv.CreateStream(sessionStream)
	return &eventStream{
		sse:    srv,
		broker: broker,
		done:   make(chan struct{}),
		logger: logger,
	}
}

// run starts the pump goroutine. Events that fail to serialize are dropped
// with a log line; the stream is advisory and clients re-read session state
// on reconnect anyway.
func (e *eventStream) run() {
	events, cancel := e.broker.Subscribe()
	go func() {
		defer cancel()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				e.publish(ev)
			case <-e.done:
				return
			}
		}
	}()
}

func (e *eventStream) publish(ev pubsub.Event[session.Event]) {
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		e.logger.Warn("failed to encode session event", zap.Error(err))
		return
	}
	e.sse.Publish(sessionStream, &sse.Event{
		Event: []byte(string(ev.Payload.Action)),
		Data:  data,
	})
}

func (e *eventStream) stop() {
	close(e.done)
	e.sse.Close()
}

func (e *eventStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.sse.ServeHTTP(w, r)
}
