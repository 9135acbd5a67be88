// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package query

import (
	"time"

	"github.com/watchdawg/citywatch/internal/models"
)

// Source is the read surface the pipeline needs from a store snapshot.
// The date range accessor is index-backed; every later predicate scans the
// surviving set in memory.
type Source interface {
	// All returns every record in the snapshot.
	All() []*models.Incident

	// DateRange returns records with Date in [start, end], both inclusive.
	// A nil bound is unbounded on that side.
	DateRange(start, end *time.Time) []*models.Incident
}

// Run applies the filter pipeline to a snapshot. Predicates run in a fixed
// order so cheap equality and range tests shrink the set before the
// per-point geometric tests: date, hour, category, neighborhood, precinct,
// sector, coordinate presence, bounding box, exact polygon or circle.
//
// The spec is normalized first; malformed predicates are disabled and their
// reason codes returned alongside the result. Run never fails.
func Run(src Source, spec FilterSpec) ([]*models.Incident, []string) {
	reasons := spec.Normalize()

	// Empty category selection means empty result, short-circuiting the
	// rest of the pipeline. Distinct from nil, which means no filter.
	if spec.Categories != nil && len(spec.Categories) == 0 {
		return []*models.Incident{}, reasons
	}

	records := src.DateRange(spec.StartDate, spec.EndDate)

	records = filterHours(records, spec)
	if len(spec.Categories) > 0 {
		records = filterCategories(records, spec.Categories)
	}
	if len(spec.Areas) > 0 {
		records = filterString(records, spec.Areas, func(r *models.Incident) string { return r.Area })
	}
	if len(spec.Precincts) > 0 {
		records = filterString(records, spec.Precincts, func(r *models.Incident) string { return r.Precinct })
	}
	if len(spec.Sectors) > 0 {
		records = filterString(records, spec.Sectors, func(r *models.Incident) string { return r.Sector })
	}

	if spec.HasGeometry() {
		records = filterGeometry(records, spec)
	}

	return records, reasons
}

// filterHours keeps records whose Hour falls in the spec's hour range.
// [0, 24] is the full-day fast path.
func filterHours(records []*models.Incident, spec FilterSpec) []*models.Incident {
	if spec.HourLo == 0 && spec.HourHi == 24 {
		return records
	}
	out := make([]*models.Incident, 0, len(records))
	for _, r := range records {
		if spec.MatchesHour(r.Hour) {
			out = append(out, r)
		}
	}
	return out
}

func filterCategories(records []*models.Incident, categories []models.Category) []*models.Incident {
	allowed := make(map[models.Category]struct{}, len(categories))
	for _, c := range categories {
		allowed[c] = struct{}{}
	}
	out := make([]*models.Incident, 0, len(records))
	for _, r := range records {
		if _, ok := allowed[r.Category]; ok {
			out = append(out, r)
		}
	}
	return out
}

func filterString(records []*models.Incident, values []string, key func(*models.Incident) string) []*models.Incident {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	out := make([]*models.Incident, 0, len(records))
	for _, r := range records {
		if _, ok := allowed[key(r)]; ok {
			out = append(out, r)
		}
	}
	return out
}

// filterGeometry drops records without coordinates, prunes with the
// predicate's bounding box, then runs the exact test on the survivors.
// Ray-casting is O(vertices) per point, so it must never see the full store.
func filterGeometry(records []*models.Incident, spec FilterSpec) []*models.Incident {
	var (
		box     BoundingBox
		polygon []Vertex
		circle  *Circle
	)
	if len(spec.Polygon) >= 3 {
		polygon = spec.Polygon
		box = PolygonBounds(polygon)
	} else {
		circle = spec.Circle
		box = CircleBounds(*circle)
	}

	out := make([]*models.Incident, 0, len(records))
	for _, r := range records {
		if !r.HasCoords {
			continue
		}
		if !box.Contains(r.Latitude, r.Longitude) {
			continue
		}
		if polygon != nil {
			if PointInPolygon(r.Longitude, r.Latitude, polygon) {
				out = append(out, r)
			}
			continue
		}
		// Boundary inclusive: a point exactly at the radius is in.
		if HaversineDistance(r.Latitude, r.Longitude, circle.Lat, circle.Lon) <= circle.RadiusM {
			out = append(out, r)
		}
	}
	return out
}
