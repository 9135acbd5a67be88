// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/watchdawg/citywatch/internal/models"
	"github.com/watchdawg/citywatch/internal/store"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewInMemory()
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return db
}

func persistedIncidents() []*models.Incident {
	ts := time.Date(2024, 7, 4, 21, 30, 0, 0, time.UTC)
	return []*models.Incident{
		{
			ID:          "r1",
			Date:        time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
			TimeOfDay:   "21:30:00",
			Hour:        21,
			Timestamp:   ts,
			Category:    models.CategoryPerson,
			Subcategory: "ASSAULT",
			Location:    "1ST AVE / PIKE ST",
			Area:        "Downtown",
			Precinct:    "W",
			Sector:      "K",
			HazardScore: 4.5,
			HasCoords:   true,
			Latitude:    47.6089,
			Longitude:   -122.3401,
		},
		{
			ID:          "r2",
			Date:        time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC),
			TimeOfDay:   "03:00:00",
			Hour:        3,
			Timestamp:   time.Date(2024, 7, 2, 3, 0, 0, 0, time.UTC),
			Category:    models.CategoryProperty,
			Subcategory: "THEFT",
			Area:        "Ballard",
			Precinct:    "N",
			Sector:      "J",
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	ctx := context.Background()

	ingest := models.IngestSummary{
		RowsRead:     10,
		RowsAccepted: 2,
		RowsRejected: 8,
		CompletedAt:  time.Date(2024, 8, 1, 6, 0, 0, 0, time.UTC),
	}
	original := store.NewSnapshot(persistedIncidents(), ingest)

	if err := db.SaveSnapshot(ctx, original); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	loaded, err := db.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if loaded.Len() != original.Len() {
		t.Fatalf("loaded %d records, want %d", loaded.Len(), original.Len())
	}
	want := original.All()
	got := loaded.All()
	for i := range want {
		w, g := want[i], got[i]
		if g.ID != w.ID || !g.Date.Equal(w.Date) || g.Hour != w.Hour ||
			!g.Timestamp.Equal(w.Timestamp) || g.Category != w.Category ||
			g.Subcategory != w.Subcategory || g.Location != w.Location ||
			g.Area != w.Area || g.Precinct != w.Precinct || g.Sector != w.Sector ||
			g.HazardScore != w.HazardScore || g.HasCoords != w.HasCoords ||
			g.Latitude != w.Latitude || g.Longitude != w.Longitude {
			t.Errorf("record %d differs:\n got %+v\nwant %+v", i, g, w)
		}
	}

	summary := loaded.IngestSummary()
	if summary.RowsRead != 10 || summary.RowsAccepted != 2 || summary.RowsRejected != 8 {
		t.Errorf("ingest summary = %+v", summary)
	}
	if !summary.CompletedAt.Equal(ingest.CompletedAt) {
		t.Errorf("CompletedAt = %v, want %v", summary.CompletedAt, ingest.CompletedAt)
	}
}

func TestSaveReplacesPreviousGeneration(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	ctx := context.Background()

	first := store.NewSnapshot(persistedIncidents(), models.IngestSummary{CompletedAt: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)})
	if err := db.SaveSnapshot(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := store.NewSnapshot(persistedIncidents()[:1], models.IngestSummary{CompletedAt: time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC)})
	if err := db.SaveSnapshot(ctx, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := db.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Len() != 1 {
		t.Errorf("loaded %d records, want 1", loaded.Len())
	}
}

func TestLoadWithoutSnapshot(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	if _, err := db.LoadSnapshot(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("err = %v, want ErrNoSnapshot", err)
	}
}
