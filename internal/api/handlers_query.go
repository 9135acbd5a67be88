// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package api

import (
	"net/http"
	"strconv"

	"github.com/watchdawg/citywatch/internal/analytics"
	"github.com/watchdawg/citywatch/internal/models"
	"github.com/watchdawg/citywatch/internal/query"
)

// tableResult is the payload of the table endpoint. Total is the size of the
// filtered set before the row cap so clients can show "N of M".
type tableResult struct {
	Total int               `json:"total"`
	Rows  []models.TableRow `json:"rows"`
}

// mapResult is the payload of the map endpoint.
type mapResult struct {
	Total  int               `json:"total"`
	Points []models.MapPoint `json:"points"`
}

// Query serves the incident table: the filtered set, recency-ordered and
// capped at the configured row limit.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	spec, parseReasons := parseFilterSpec(r)
	h.serveCached(w, r, "query", func() (interface{}, []string) {
		records, reasons := query.Run(snap, spec)
		return tableResult{
			Total: len(records),
			Rows:  analytics.TableSample(records, h.cfg.API.MaxTableRows),
		}, append(parseReasons, reasons...)
	})
}

// MapPoints serves map markers for the filtered set: recency-sampled up to
// the point cap, with marker sizes scaled by per-location frequency.
func (h *Handler) MapPoints(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	spec, parseReasons := parseFilterSpec(r)
	h.serveCached(w, r, "map", func() (interface{}, []string) {
		records, reasons := query.Run(snap, spec)
		return mapResult{
			Total:  len(records),
			Points: analytics.MapSample(records, h.cfg.API.MaxMapPoints),
		}, append(parseReasons, reasons...)
	})
}

// nearbyRequest carries the validated parameters of the proximity lookup.
type nearbyRequest struct {
	Lat     float64 `validate:"gte=-90,lte=90"`
	Lon     float64 `validate:"gte=-180,lte=180"`
	RadiusM float64 `validate:"gt=0,lte=50000"`
}

// MapNearby serves incidents within a radius of a point, answered from the
// snapshot's spatial grid rather than a full scan. Results are capped at the
// table row limit.
func (h *Handler) MapNearby(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	req := nearbyRequest{
		Lat:     getFloatParam(r, "lat"),
		Lon:     getFloatParam(r, "lon"),
		RadiusM: getFloatParam(r, "radius_m"),
	}
	if !validateRequest(w, r, req) {
		return
	}

	h.serveCached(w, r, "map_nearby", func() (interface{}, []string) {
		records := snap.Nearby(req.Lat, req.Lon, req.RadiusM)
		return mapResult{
			Total:  len(records),
			Points: analytics.MapSample(records, h.cfg.API.MaxTableRows),
		}, nil
	})
}

// getFloatParam reads a float query parameter; absent or malformed values
// come back as 0 and fail the request validator's range checks.
func getFloatParam(r *http.Request, name string) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil {
		return 0
	}
	return v
}
