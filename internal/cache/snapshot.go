// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

// Package cache provides the in-memory snapshot cache for fetched map data.
//
// Unlike a generic per-entry TTL cache, this cache stores a small fixed key
// set (states, districts, projects) under a SINGLE shared timestamp: storing
// any key refreshes the whole snapshot's age, and expiry invalidates the
// snapshot wholesale, never per key. Expiry is checked lazily on read; no
// background sweeper mutates the cache.
package cache

import (
	"sync"
	"time"
)

// Key identifies one slot in the snapshot.
type Key string

// The fixed key set. There are no dynamic keys.
const (
	KeyStates    Key = "states"
	KeyDistricts Key = "districts"
	KeyProjects  Key = "projects"
)

// Stats tracks cache effectiveness counters.
type Stats struct {
	Hits   int64
	Misses int64
}

// Snapshot is a thread-safe fixed-key cache with one shared expiry timestamp.
type Snapshot struct {
	mu        sync.RWMutex
	entries   map[Key]any
	fetchedAt time.Time
	ttl       time.Duration
	stats     Stats

	// now is swappable for tests.
	now func() time.Time
}

// New creates a snapshot cache whose contents expire ttl after the most
// recent store.
func New(ttl time.Duration) *Snapshot {
	return &Snapshot{
		entries: make(map[Key]any),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key if the snapshot is still valid.
// An expired snapshot reads as a miss for every key.
func (s *Snapshot) Get(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validLocked() {
		s.stats.Misses++
		return nil, false
	}
	value, ok := s.entries[key]
	if !ok {
		s.stats.Misses++
		return nil, false
	}
	s.stats.Hits++
	return value, true
}

// Set stores a value and refreshes the shared snapshot timestamp. An expired
// snapshot is cleared first so stale siblings cannot outlive their window by
// riding on a fresh store.
func (s *Snapshot) Set(key Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validLocked() {
		s.entries = make(map[Key]any)
	}
	s.entries[key] = value
	s.fetchedAt = s.now()
}

// Invalidate discards the whole snapshot.
func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[Key]any)
	s.fetchedAt = time.Time{}
}

// Valid reports whether the snapshot is within its expiry window.
func (s *Snapshot) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validLocked()
}

// Age returns how old the snapshot is, or zero if nothing is cached.
func (s *Snapshot) Age() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fetchedAt.IsZero() {
		return 0
	}
	return s.now().Sub(s.fetchedAt)
}

// Stats returns a copy of the current counters.
func (s *Snapshot) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// validLocked must be called with mu held (read or write).
func (s *Snapshot) validLocked() bool {
	if s.fetchedAt.IsZero() || len(s.entries) == 0 {
		return false
	}
	return s.now().Sub(s.fetchedAt) < s.ttl
}
