// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package ingest

import (
	"sync"
	"time"

	"github.com/watchdawg/citywatch/internal/models"
)

// Rejection reason codes. Row-level failures increment exactly one of these
// and never abort the batch.
const (
	ReasonMissingDate       = "missing_date"
	ReasonDateUnparseable   = "date_unparseable"
	ReasonCoordsOutOfBounds = "coords_out_of_bounds"
	ReasonExcludedSector    = "excluded_sector"
	ReasonExcludedPrecinct  = "excluded_precinct"
	ReasonExcludedArea      = "excluded_area"
	ReasonMalformedRow      = "malformed_row"
)

// Stats accumulates ingestion counters for one run. Safe for concurrent use.
type Stats struct {
	mu           sync.Mutex
	rowsRead     int64
	rowsAccepted int64
	byReason     map[string]int64
}

// NewStats creates an empty counter set.
func NewStats() *Stats {
	return &Stats{byReason: make(map[string]int64)}
}

// Read records one row read from the source.
func (s *Stats) Read() {
	s.mu.Lock()
	s.rowsRead++
	s.mu.Unlock()
}

// Accept records one row that produced a canonical record.
func (s *Stats) Accept() {
	s.mu.Lock()
	s.rowsAccepted++
	s.mu.Unlock()
}

// Reject records one skipped row under its reason code.
func (s *Stats) Reject(reason string) {
	s.mu.Lock()
	s.byReason[reason]++
	s.mu.Unlock()
}

// Summary freezes the counters into the reportable form.
func (s *Stats) Summary() models.IngestSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rejected int64
	byReason := make(map[string]int64, len(s.byReason))
	for reason, n := range s.byReason {
		byReason[reason] = n
		rejected += n
	}

	return models.IngestSummary{
		RowsRead:         s.rowsRead,
		RowsAccepted:     s.rowsAccepted,
		RowsRejected:     rejected,
		RejectedByReason: byReason,
		CompletedAt:      time.Now().UTC(),
	}
}
