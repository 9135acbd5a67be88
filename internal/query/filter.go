// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

// Package query implements the filter pipeline: FilterSpec normalization,
// predicate ordering, and the geometric tests (bounding box, ray-casting
// point-in-polygon, haversine radius).
package query

import (
	"time"

	"github.com/watchdawg/citywatch/internal/models"
)

// Reason codes surfaced when a malformed predicate is disabled. A query with
// disabled predicates still runs; it just ignores the offending constraint.
const (
	ReasonPolygonDegenerate = "POLYGON_DEGENERATE"
	ReasonHourRangeInvalid  = "HOUR_RANGE_INVALID"
	ReasonRadiusInvalid     = "RADIUS_INVALID"
	ReasonDateRangeInvalid  = "DATE_RANGE_INVALID"
	ReasonCircleOutOfRange  = "CIRCLE_CENTER_INVALID"
)

// Vertex is one polygon vertex in (lon, lat) order, matching the GeoJSON
// coordinate convention used by the map client.
type Vertex struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Circle is a radius filter: center plus radius in meters.
type Circle struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	RadiusM float64 `json:"radius_m"`
}

// FilterSpec is one query request. Zero values mean "no restriction" with
// one deliberate exception: a non-nil empty Categories slice means "no
// category selected" and yields an empty result, which is distinct from a
// nil slice meaning "no category filter".
type FilterSpec struct {
	// Date range, inclusive on both ends. Nil means unbounded.
	StartDate *time.Time
	EndDate   *time.Time

	// Hour range [Lo, Hi]. Hi == 24 means "through end of day", inclusive
	// of hour 23. [0, 24] matches every record.
	HourLo int
	HourHi int

	// Categories: nil = no filter, empty = empty result.
	Categories []models.Category

	// Areas, Precincts, Sectors: empty = no restriction.
	Areas     []string
	Precincts []string
	Sectors   []string

	// Geometric predicates. Only records with coordinates can match.
	Polygon []Vertex
	Circle  *Circle
}

// AllHours is the hour range that matches every record.
func AllHours() (lo, hi int) { return 0, 24 }

// Normalize validates the spec and disables malformed predicates in place,
// returning the reason codes for everything it disabled. It never fails:
// a fully malformed spec degrades to an unfiltered query.
func (f *FilterSpec) Normalize() []string {
	var reasons []string

	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		f.StartDate, f.EndDate = nil, nil
		reasons = append(reasons, ReasonDateRangeInvalid)
	}

	if f.HourLo < 0 || f.HourHi > 24 || f.HourLo > f.HourHi {
		f.HourLo, f.HourHi = AllHours()
		reasons = append(reasons, ReasonHourRangeInvalid)
	}

	// A polygon needs at least 3 vertices to bound an area. Fewer vertices
	// fall back to "no spatial restriction".
	if f.Polygon != nil && len(f.Polygon) < 3 {
		f.Polygon = nil
		reasons = append(reasons, ReasonPolygonDegenerate)
	}

	if f.Circle != nil {
		switch {
		case f.Circle.RadiusM <= 0:
			f.Circle = nil
			reasons = append(reasons, ReasonRadiusInvalid)
		case f.Circle.Lat < -90 || f.Circle.Lat > 90 || f.Circle.Lon < -180 || f.Circle.Lon > 180:
			f.Circle = nil
			reasons = append(reasons, ReasonCircleOutOfRange)
		}
	}

	return reasons
}

// HasGeometry reports whether a spatial predicate survived normalization.
func (f *FilterSpec) HasGeometry() bool {
	return len(f.Polygon) >= 3 || f.Circle != nil
}

// MatchesHour reports whether an hour value falls inside the range.
func (f *FilterSpec) MatchesHour(hour int) bool {
	if f.HourHi == 24 {
		return hour >= f.HourLo
	}
	return hour >= f.HourLo && hour <= f.HourHi
}
