// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package query

import (
	"math"
	"testing"
)

func TestHaversineSymmetry(t *testing.T) {
	t.Parallel()

	pairs := [][4]float64{
		{47.6062, -122.3321, 47.6588, -122.3136}, // downtown to U District
		{47.61, -122.33, 47.61, -122.33},
		{47.0, -123.5, 48.1, -121.0},
	}

	for _, p := range pairs {
		ab := HaversineDistance(p[0], p[1], p[2], p[3])
		ba := HaversineDistance(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("haversine not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestHaversineIdentity(t *testing.T) {
	t.Parallel()

	if d := HaversineDistance(47.6062, -122.3321, 47.6062, -122.3321); d != 0 {
		t.Errorf("haversine(a,a) = %v, want 0", d)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	t.Parallel()

	// Seattle downtown to Space Needle is roughly 1.9 km.
	d := HaversineDistance(47.6062, -122.3321, 47.6205, -122.3493)
	if d < 1500 || d > 2500 {
		t.Errorf("downtown to Space Needle = %.0f m, want ~2000 m", d)
	}
}

func TestPointInPolygonSquare(t *testing.T) {
	t.Parallel()

	square := []Vertex{
		{Lon: -122.40, Lat: 47.50},
		{Lon: -122.20, Lat: 47.50},
		{Lon: -122.20, Lat: 47.70},
		{Lon: -122.40, Lat: 47.70},
	}

	tests := []struct {
		name string
		lon  float64
		lat  float64
		want bool
	}{
		{"center", -122.30, 47.60, true},
		{"outside west", -122.50, 47.60, false},
		{"outside east", -122.10, 47.60, false},
		{"outside north", -122.30, 47.80, false},
		{"outside south", -122.30, 47.40, false},
		{"near corner inside", -122.39, 47.51, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PointInPolygon(tt.lon, tt.lat, square); got != tt.want {
				t.Errorf("PointInPolygon(%v, %v) = %v, want %v", tt.lon, tt.lat, got, tt.want)
			}
		})
	}
}

func TestPointInPolygonDegenerate(t *testing.T) {
	t.Parallel()

	twoVertices := []Vertex{{Lon: -122.3, Lat: 47.6}, {Lon: -122.2, Lat: 47.7}}
	if PointInPolygon(-122.25, 47.65, twoVertices) {
		t.Error("degenerate polygon should contain nothing")
	}
	if PointInPolygon(-122.25, 47.65, nil) {
		t.Error("nil polygon should contain nothing")
	}
}

func TestPointInPolygonConcave(t *testing.T) {
	t.Parallel()

	// A "C" shape: the notch on the east side is outside.
	c := []Vertex{
		{Lon: 0, Lat: 0},
		{Lon: 4, Lat: 0},
		{Lon: 4, Lat: 1},
		{Lon: 1, Lat: 1},
		{Lon: 1, Lat: 3},
		{Lon: 4, Lat: 3},
		{Lon: 4, Lat: 4},
		{Lon: 0, Lat: 4},
	}

	if !PointInPolygon(0.5, 2, c) {
		t.Error("point in the spine should be inside")
	}
	if PointInPolygon(2.5, 2, c) {
		t.Error("point in the notch should be outside")
	}
}

func TestPolygonBounds(t *testing.T) {
	t.Parallel()

	poly := []Vertex{
		{Lon: -122.40, Lat: 47.52},
		{Lon: -122.25, Lat: 47.70},
		{Lon: -122.35, Lat: 47.61},
	}

	box := PolygonBounds(poly)
	if box.MinLat != 47.52 || box.MaxLat != 47.70 {
		t.Errorf("lat bounds = [%v, %v], want [47.52, 47.70]", box.MinLat, box.MaxLat)
	}
	if box.MinLon != -122.40 || box.MaxLon != -122.25 {
		t.Errorf("lon bounds = [%v, %v], want [-122.40, -122.25]", box.MinLon, box.MaxLon)
	}

	if !box.Contains(47.61, -122.35) {
		t.Error("box should contain interior vertex")
	}
	if !box.Contains(47.52, -122.40) {
		t.Error("box borders are inclusive")
	}
	if box.Contains(47.51, -122.35) {
		t.Error("box should exclude points below min_lat")
	}
}

func TestCircleBoundsCoversRadius(t *testing.T) {
	t.Parallel()

	c := Circle{Lat: 47.6062, Lon: -122.3321, RadiusM: 3000}
	box := CircleBounds(c)

	// Points exactly at the radius in the four cardinal directions must
	// fall inside the pruning box.
	for _, bearing := range []struct{ dLat, dLon float64 }{
		{c.RadiusM / 111320.0, 0},
		{-c.RadiusM / 111320.0, 0},
		{0, c.RadiusM / (111320.0 * 0.674)},
		{0, -c.RadiusM / (111320.0 * 0.674)},
	} {
		lat := c.Lat + bearing.dLat
		lon := c.Lon + bearing.dLon
		if !box.Contains(lat, lon) {
			t.Errorf("bounding box should cover point (%v, %v) at radius", lat, lon)
		}
	}
}
