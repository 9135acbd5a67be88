// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package store

import (
	"errors"
	"sync"

	"github.com/watchdawg/citywatch/internal/logging"
)

// ErrNotReady is returned before the first snapshot has been built. The
// API layer maps it to a 503 with code STORE_NOT_READY.
var ErrNotReady = errors.New("store: no snapshot built yet")

// Store serves the current snapshot to readers and lets the ingestion
// scheduler swap in a replacement. Readers only pay a pointer read under
// an RLock; all heavy work happens off to the side before Swap.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
	gen     uint64
}

// New returns an empty store. Ready reports false until the first Swap.
func New() *Store {
	return &Store{}
}

// Ready reports whether a snapshot is available to serve.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Current returns the snapshot being served, or ErrNotReady before the
// first build completes.
func (s *Store) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotReady
	}
	return s.current, nil
}

// Swap installs a fully built snapshot as the served generation. In-flight
// readers keep the snapshot they already hold.
func (s *Store) Swap(snap *Snapshot) {
	s.mu.Lock()
	s.current = snap
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	logging.Info().
		Uint64("generation", gen).
		Int("records", snap.Len()).
		Time("min_date", snap.MinDate()).
		Time("max_date", snap.MaxDate()).
		Msg("Store snapshot swapped")
}

// Generation returns the number of snapshots swapped in so far. The API
// cache keys on it so a swap invalidates every cached response.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}
