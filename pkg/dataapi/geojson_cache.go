// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package dataapi

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
)

// geojsonCache holds boundary documents gzip-compressed in memory. A country
// boundary file runs to megabytes and every drill transition would otherwise
// re-download it.
type geojsonCache struct {
	mu      sync.RWMutex
	entries map[string]geojsonEntry
}

type geojsonEntry struct {
	compressed []byte
	storedAt   time.Time
}

func newGeoJSONCache() *geojsonCache {
	return &geojsonCache{entries: make(map[string]geojsonEntry)}
}

func (c *geojsonCache) get(id string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	r, err := gzip.NewReader(bytes.NewReader(entry.compressed))
	if err != nil {
		return nil, false
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *geojsonCache) put(id string, data []byte) error {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[id] = geojsonEntry{compressed: buf.Bytes(), storedAt: time.Now()}
	c.mu.Unlock()
	return nil
}

// purge drops entries older than maxAge and returns how many were removed.
func (c *geojsonCache) purge(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, entry := range c.entries {
		if entry.storedAt.Before(cutoff) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}
