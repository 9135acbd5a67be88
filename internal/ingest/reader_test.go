// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package ingest

import (
	"context"
	"strings"
	"testing"
)

const sampleCSV = `Report Number,Offense Date,NIBRS Crime Against Category,Offense Category,Block Address,Neighborhood,Precinct,Sector,Hazardness,Latitude,Longitude
2024-1,2024-01-01 10:00:00,PERSON,ASSAULT,1ST AVE,Downtown,W,D,5.0,47.6062,-122.3321
2024-2,2024-01-02 23:15:00,PROPERTY,CAR PROWL,2ND AVE,Ballard,N,B,2.0,47.6680,-122.3860
2024-3,not-a-date,PROPERTY,THEFT,3RD AVE,Fremont,N,B,1.0,47.6510,-122.3500
2024-4,2024-01-04 08:00:00,PROPERTY,THEFT,4TH AVE,Georgetown,S,O,3.0,49.9,-122.3
2024-5,2024-01-05 12:30:00,SOCIETY,DUI,5TH AVE,SODO,S,O,4.0,REDACTED,REDACTED
2024-6,2024-01-06 19:00:00,PERSON,ROBBERY,6TH AVE,Downtown,W,99,6.0,47.6100,-122.3300
`

func TestReadCSV(t *testing.T) {
	t.Parallel()

	res, err := ReadCSV(context.Background(), strings.NewReader(sampleCSV), seattleBounds())
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}

	// Rows 1, 2, 5 survive; 3 has a bad date, 4 is out of bounds, 6 is
	// sector 99.
	if len(res.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(res.Records))
	}

	sum := res.Summary
	if sum.RowsRead != 6 {
		t.Errorf("RowsRead = %d, want 6", sum.RowsRead)
	}
	if sum.RowsAccepted != 3 {
		t.Errorf("RowsAccepted = %d, want 3", sum.RowsAccepted)
	}
	if sum.RowsRejected != 3 {
		t.Errorf("RowsRejected = %d, want 3", sum.RowsRejected)
	}
	if sum.RejectedByReason[ReasonDateUnparseable] != 1 {
		t.Errorf("date_unparseable = %d, want 1", sum.RejectedByReason[ReasonDateUnparseable])
	}
	if sum.RejectedByReason[ReasonCoordsOutOfBounds] != 1 {
		t.Errorf("coords_out_of_bounds = %d, want 1", sum.RejectedByReason[ReasonCoordsOutOfBounds])
	}
	if sum.RejectedByReason[ReasonExcludedSector] != 1 {
		t.Errorf("excluded_sector = %d, want 1", sum.RejectedByReason[ReasonExcludedSector])
	}

	// The sentinel-coordinate record survives without a position.
	var sentinel bool
	for _, r := range res.Records {
		if r.ID == "2024-5" {
			sentinel = true
			if r.HasCoords {
				t.Error("REDACTED coordinates must not produce a position")
			}
		}
	}
	if !sentinel {
		t.Error("expected record 2024-5 to be accepted")
	}
}

func TestReadCSVDeterministic(t *testing.T) {
	t.Parallel()

	first, err := ReadCSV(context.Background(), strings.NewReader(sampleCSV), seattleBounds())
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	second, err := ReadCSV(context.Background(), strings.NewReader(sampleCSV), seattleBounds())
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}

	if len(first.Records) != len(second.Records) {
		t.Fatalf("row counts differ: %d vs %d", len(first.Records), len(second.Records))
	}
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		if a.ID != b.ID || !a.Timestamp.Equal(b.Timestamp) || a.Category != b.Category ||
			a.Area != b.Area || a.HazardScore != b.HazardScore ||
			a.HasCoords != b.HasCoords || a.Latitude != b.Latitude || a.Longitude != b.Longitude {
			t.Errorf("record %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestReadCSVBadHeader(t *testing.T) {
	t.Parallel()

	if _, err := ReadCSV(context.Background(), strings.NewReader("Foo,Bar\n1,2\n"), seattleBounds()); err == nil {
		t.Error("expected error for header without datetime column")
	}
}

func TestReadCSVCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ReadCSV(ctx, strings.NewReader(sampleCSV), seattleBounds()); err == nil {
		t.Error("expected error for cancelled context")
	}
}
