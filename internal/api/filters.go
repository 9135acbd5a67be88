// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/watchdawg/citywatch/internal/models"
	"github.com/watchdawg/citywatch/internal/query"
)

const dateParamLayout = "2006-01-02"

// parseFilterSpec builds a query.FilterSpec from URL query parameters.
// Malformed predicates never reject the request: they are recorded as
// pre-normalization reason codes and the offending constraint is dropped,
// matching how the pipeline itself degrades a bad spec.
//
// Parameters:
//
//	start_date, end_date  YYYY-MM-DD, inclusive
//	hour_lo, hour_hi      [0, 24]; hi == 24 means through end of day
//	categories            csv; absent = no filter, present but empty = empty result
//	areas, precincts, sectors  csv
//	polygon               semicolon-separated lon,lat pairs
//	circle                lat,lon,radius_m
func parseFilterSpec(r *http.Request) (query.FilterSpec, []string) {
	q := r.URL.Query()
	var (
		spec    query.FilterSpec
		reasons []string
	)

	spec.StartDate, reasons = parseDateParam(q.Get("start_date"), reasons)
	spec.EndDate, reasons = parseDateParam(q.Get("end_date"), reasons)

	spec.HourLo = getIntParam(r, "hour_lo", 0)
	spec.HourHi = getIntParam(r, "hour_hi", 24)

	// A present-but-empty categories parameter is a deliberate "nothing
	// selected" and must survive as a non-nil empty slice.
	if q.Has("categories") {
		values := parseCommaSeparated(q.Get("categories"))
		spec.Categories = make([]models.Category, 0, len(values))
		for _, v := range values {
			spec.Categories = append(spec.Categories, models.Category(strings.ToUpper(v)))
		}
	}

	spec.Areas = parseCommaSeparated(q.Get("areas"))
	spec.Precincts = parseCommaSeparated(q.Get("precincts"))
	spec.Sectors = parseCommaSeparated(q.Get("sectors"))

	if raw := q.Get("polygon"); raw != "" {
		polygon, ok := parsePolygonParam(raw)
		if !ok {
			reasons = append(reasons, query.ReasonPolygonDegenerate)
		} else {
			spec.Polygon = polygon
		}
	}

	if raw := q.Get("circle"); raw != "" {
		circle, ok := parseCircleParam(raw)
		if !ok {
			reasons = append(reasons, query.ReasonRadiusInvalid)
		} else {
			spec.Circle = circle
		}
	}

	return spec, reasons
}

// parseDateParam parses a YYYY-MM-DD bound. A malformed value drops the
// bound and records a date-range reason code.
func parseDateParam(raw string, reasons []string) (*time.Time, []string) {
	if raw == "" {
		return nil, reasons
	}
	d, err := time.Parse(dateParamLayout, raw)
	if err != nil {
		return nil, append(reasons, query.ReasonDateRangeInvalid)
	}
	d = d.UTC()
	return &d, reasons
}

// parsePolygonParam parses semicolon-separated "lon,lat" vertex pairs.
func parsePolygonParam(raw string) ([]query.Vertex, bool) {
	pairs := strings.Split(raw, ";")
	vertices := make([]query.Vertex, 0, len(pairs))
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, false
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			return nil, false
		}
		vertices = append(vertices, query.Vertex{Lon: lon, Lat: lat})
	}
	if len(vertices) == 0 {
		return nil, false
	}
	return vertices, true
}

// parseCircleParam parses a "lat,lon,radius_m" triple.
func parseCircleParam(raw string) (*query.Circle, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return nil, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	radius, err3 := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, false
	}
	return &query.Circle{Lat: lat, Lon: lon, RadiusM: radius}, true
}
