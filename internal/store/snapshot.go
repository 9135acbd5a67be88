// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

// Package store holds the immutable canonical record set served to the
// query and analytics layers. A snapshot is built once, indexed, and never
// mutated; re-ingestion produces a replacement snapshot that the store
// swaps in atomically.
package store

import (
	"sort"
	"time"

	"github.com/watchdawg/citywatch/internal/models"
)

// Snapshot is an immutable, indexed view of one complete ingestion run.
// Callers must not modify the slices it returns.
type Snapshot struct {
	// records sorted ascending by Timestamp. Date is non-decreasing in this
	// order because it is the day truncation of Timestamp, which is what
	// makes the binary-searched date range correct.
	records []*models.Incident

	minDate time.Time
	maxDate time.Time

	areas     []string
	precincts []string
	sectors   []string

	grid   *grid
	ingest models.IngestSummary
}

// NewSnapshot builds an indexed snapshot from an ingestion result. The
// input slice is cloned so the caller's copy stays untouched.
func NewSnapshot(records []*models.Incident, ingest models.IngestSummary) *Snapshot {
	sorted := make([]*models.Incident, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	s := &Snapshot{
		records: sorted,
		grid:    newGrid(defaultCellSizeM),
		ingest:  ingest,
	}

	areas := make(map[string]struct{})
	precincts := make(map[string]struct{})
	sectors := make(map[string]struct{})
	for _, r := range sorted {
		if r.Area != "" {
			areas[r.Area] = struct{}{}
		}
		if r.Precinct != "" {
			precincts[r.Precinct] = struct{}{}
		}
		if r.Sector != "" {
			sectors[r.Sector] = struct{}{}
		}
		s.grid.insert(r)
	}
	s.areas = sortedKeys(areas)
	s.precincts = sortedKeys(precincts)
	s.sectors = sortedKeys(sectors)

	if len(sorted) > 0 {
		s.minDate = sorted[0].Date
		s.maxDate = sorted[len(sorted)-1].Date
	}
	return s
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// All returns every record in timestamp order.
func (s *Snapshot) All() []*models.Incident {
	return s.records
}

// DateRange returns records with Date in [start, end], both inclusive.
// A nil bound is unbounded on that side. The result is a sub-slice of the
// sorted record set, found by binary search.
func (s *Snapshot) DateRange(start, end *time.Time) []*models.Incident {
	lo := 0
	if start != nil {
		lo = sort.Search(len(s.records), func(i int) bool {
			return !s.records[i].Date.Before(*start)
		})
	}
	hi := len(s.records)
	if end != nil {
		hi = sort.Search(len(s.records), func(i int) bool {
			return s.records[i].Date.After(*end)
		})
	}
	if lo >= hi {
		return []*models.Incident{}
	}
	return s.records[lo:hi]
}

// Nearby returns records within radiusM meters of the point, boundary
// inclusive, via the spatial grid. Records without coordinates are never
// returned.
func (s *Snapshot) Nearby(lat, lon, radiusM float64) []*models.Incident {
	return s.grid.nearby(lat, lon, radiusM)
}

// Len returns the record count.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// MinDate returns the earliest incident date, zero when the snapshot is
// empty.
func (s *Snapshot) MinDate() time.Time { return s.minDate }

// MaxDate returns the latest incident date, zero when the snapshot is
// empty.
func (s *Snapshot) MaxDate() time.Time { return s.maxDate }

// Areas returns the distinct neighborhoods, sorted.
func (s *Snapshot) Areas() []string { return s.areas }

// Precincts returns the distinct precincts, sorted.
func (s *Snapshot) Precincts() []string { return s.precincts }

// Sectors returns the distinct sectors, sorted.
func (s *Snapshot) Sectors() []string { return s.sectors }

// IngestSummary returns the counters from the run that built this snapshot.
func (s *Snapshot) IngestSummary() models.IngestSummary { return s.ingest }

// Info summarizes the snapshot for the snapshot endpoint.
func (s *Snapshot) Info() models.SnapshotInfo {
	return models.SnapshotInfo{
		Records: len(s.records),
		MinDate: s.minDate,
		MaxDate: s.maxDate,
		Ingest:  s.ingest,
	}
}
