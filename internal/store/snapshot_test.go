// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package store

import (
	"testing"
	"time"

	"github.com/watchdawg/citywatch/internal/models"
	"github.com/watchdawg/citywatch/internal/query"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testIncidents() []*models.Incident {
	mk := func(id string, ts time.Time, area, precinct, sector string, lat, lon float64) *models.Incident {
		r := &models.Incident{
			ID:        id,
			Date:      ts.Truncate(24 * time.Hour),
			Hour:      ts.Hour(),
			Timestamp: ts,
			Category:  models.CategoryProperty,
			Area:      area,
			Precinct:  precinct,
			Sector:    sector,
		}
		if lat != 0 {
			r.HasCoords = true
			r.Latitude = lat
			r.Longitude = lon
		}
		return r
	}
	// Deliberately out of timestamp order.
	return []*models.Incident{
		mk("c", time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC), "Fremont", "N", "B", 47.6505, -122.3493),
		mk("a", time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), "Downtown", "W", "K", 47.6080, -122.3350),
		mk("d", time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC), "Ballard", "N", "J", 0, 0),
		mk("b", time.Date(2024, 1, 5, 18, 0, 0, 0, time.UTC), "Downtown", "W", "K", 47.6082, -122.3354),
	}
}

func TestNewSnapshotOrdersAndIndexes(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(testIncidents(), models.IngestSummary{RowsAccepted: 4})

	all := snap.All()
	if len(all) != 4 {
		t.Fatalf("Len = %d, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.Before(all[i-1].Timestamp) {
			t.Errorf("records out of order at %d: %v before %v", i, all[i].Timestamp, all[i-1].Timestamp)
		}
	}

	if got := snap.MinDate(); !got.Equal(day(2024, 1, 5)) {
		t.Errorf("MinDate = %v", got)
	}
	if got := snap.MaxDate(); !got.Equal(day(2024, 6, 1)) {
		t.Errorf("MaxDate = %v", got)
	}

	wantAreas := []string{"Ballard", "Downtown", "Fremont"}
	areas := snap.Areas()
	if len(areas) != len(wantAreas) {
		t.Fatalf("Areas = %v, want %v", areas, wantAreas)
	}
	for i, a := range wantAreas {
		if areas[i] != a {
			t.Errorf("Areas[%d] = %q, want %q", i, areas[i], a)
		}
	}
	if got := len(snap.Precincts()); got != 2 {
		t.Errorf("Precincts count = %d, want 2", got)
	}
	if got := len(snap.Sectors()); got != 3 {
		t.Errorf("Sectors count = %d, want 3", got)
	}
	if snap.Info().Ingest.RowsAccepted != 4 {
		t.Errorf("Info ingest summary not carried")
	}

	// Only the three located records populate the spatial grid; the two
	// Downtown points may share a cell.
	if got := snap.grid.numCells(); got < 2 || got > 3 {
		t.Errorf("grid cells = %d, want 2 or 3", got)
	}
}

func TestDateRange(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(testIncidents(), models.IngestSummary{})

	cases := []struct {
		name       string
		start, end *time.Time
		want       int
	}{
		{"unbounded", nil, nil, 4},
		{"inclusive start", ptr(day(2024, 1, 5)), nil, 4},
		{"inclusive end", nil, ptr(day(2024, 1, 5)), 2},
		{"interior", ptr(day(2024, 2, 1)), ptr(day(2024, 4, 1)), 1},
		{"single day", ptr(day(2024, 1, 5)), ptr(day(2024, 1, 5)), 2},
		{"before all", nil, ptr(day(2023, 1, 1)), 0},
		{"after all", ptr(day(2025, 1, 1)), nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := snap.DateRange(tc.start, tc.end)
			if len(got) != tc.want {
				t.Errorf("DateRange = %d records, want %d", len(got), tc.want)
			}
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestNearby(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(testIncidents(), models.IngestSummary{})

	// The two Downtown records are ~50m apart; Fremont is ~5km north.
	got := snap.Nearby(47.6080, -122.3350, 200)
	if len(got) != 2 {
		t.Fatalf("Nearby(200m) = %d records, want 2", len(got))
	}
	for _, r := range got {
		if r.Area != "Downtown" {
			t.Errorf("unexpected record %q in 200m radius", r.ID)
		}
	}

	// Radius exactly equal to the separation distance is inclusive.
	d := query.HaversineDistance(47.6080, -122.3350, 47.6505, -122.3493)
	got = snap.Nearby(47.6080, -122.3350, d)
	if len(got) != 3 {
		t.Errorf("Nearby(exact) = %d records, want 3", len(got))
	}

	// Records without coordinates never appear.
	got = snap.Nearby(47.6080, -122.3350, 1e7)
	for _, r := range got {
		if !r.HasCoords {
			t.Errorf("coordinate-less record %q returned", r.ID)
		}
	}
}

func TestNearbyCoversFullLongitudeReach(t *testing.T) {
	t.Parallel()

	// A degree of longitude at Seattle's latitude spans only ~75km, so a
	// point near the western edge of the radius sits more longitude cells
	// away than the same distance northward.
	const lat, lon = 47.6080, -122.3350
	west := &models.Incident{
		ID:        "w",
		Date:      day(2024, 2, 1),
		Timestamp: time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		Category:  models.CategoryProperty,
		Area:      "Interbay",
		HasCoords: true,
		Latitude:  lat,
		Longitude: -122.4002,
	}
	snap := NewSnapshot([]*models.Incident{west}, models.IngestSummary{})

	d := query.HaversineDistance(lat, lon, west.Latitude, west.Longitude)
	if d >= 5000 {
		t.Fatalf("fixture record is %.1fm away, want inside the 5000m radius", d)
	}

	got := snap.Nearby(lat, lon, 5000)
	if len(got) != 1 {
		t.Fatalf("Nearby(5000m) = %d records, want the record %.1fm due west", len(got), d)
	}

	// And symmetrically to the east.
	got = snap.Nearby(west.Latitude, west.Longitude, 5000)
	if len(got) != 1 {
		t.Errorf("Nearby(5000m) east of the record = %d, want 1", len(got))
	}
}

func TestEmptySnapshot(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(nil, models.IngestSummary{})
	if snap.Len() != 0 {
		t.Errorf("Len = %d", snap.Len())
	}
	if !snap.MinDate().IsZero() || !snap.MaxDate().IsZero() {
		t.Error("date bounds should be zero for an empty snapshot")
	}
	if got := snap.DateRange(nil, nil); len(got) != 0 {
		t.Errorf("DateRange on empty = %d", len(got))
	}
	if got := snap.Nearby(47.6, -122.3, 1000); len(got) != 0 {
		t.Errorf("Nearby on empty = %d", len(got))
	}
}
