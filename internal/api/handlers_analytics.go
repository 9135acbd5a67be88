// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/watchdawg/citywatch/internal/analytics"
	"github.com/watchdawg/citywatch/internal/models"
	"github.com/watchdawg/citywatch/internal/query"
)

const topOffensesDepth = 10

// KPIs serves per-category totals for the filtered set.
func (h *Handler) KPIs(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	spec, parseReasons := parseFilterSpec(r)
	h.serveCached(w, r, "kpis", func() (interface{}, []string) {
		records, reasons := query.Run(snap, spec)
		return analytics.KPIs(records), append(parseReasons, reasons...)
	})
}

// Hourly serves the 24-hour histogram for the filtered set. All 24 hours are
// present, zero-filled.
func (h *Handler) Hourly(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	spec, parseReasons := parseFilterSpec(r)
	h.serveCached(w, r, "hourly", func() (interface{}, []string) {
		records, reasons := query.Run(snap, spec)
		return analytics.Hourly(records), append(parseReasons, reasons...)
	})
}

// TopOffenses serves the most frequent subcategories in the filtered set.
func (h *Handler) TopOffenses(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	spec, parseReasons := parseFilterSpec(r)
	h.serveCached(w, r, "offenses", func() (interface{}, []string) {
		records, reasons := query.Run(snap, spec)
		return analytics.TopOffenses(records, topOffensesDepth), append(parseReasons, reasons...)
	})
}

// trendsRequest carries the validated trend parameters.
type trendsRequest struct {
	Metric    string `validate:"omitempty,oneof=count hazard_mean"`
	SortOrder string `validate:"omitempty,oneof=top bottom"`
	N         int    `validate:"omitempty,gte=1,lte=50"`
}

// Trends serves the ranked neighborhood trend series for the filtered set.
// The current partial month is always excluded and the bucket width adapts
// to the span of the surviving dates.
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	req := trendsRequest{
		Metric:    r.URL.Query().Get("metric"),
		SortOrder: r.URL.Query().Get("sort"),
		N:         getIntParam(r, "n", 0),
	}
	if !validateRequest(w, r, req) {
		return
	}

	spec, parseReasons := parseFilterSpec(r)
	h.serveCached(w, r, "trends", func() (interface{}, []string) {
		records, reasons := query.Run(snap, spec)
		result := analytics.Trends(records, analytics.TrendOptions{
			Metric:    req.Metric,
			SortOrder: req.SortOrder,
			N:         req.N,
		}, time.Now().UTC())
		return result, append(parseReasons, reasons...)
	})
}

// drilldownRequest carries the validated drill-down parameter.
type drilldownRequest struct {
	Category string `validate:"omitempty,crimecategory"`
}

// Drilldown serves the two-level category breakdown. Without a category
// parameter it returns the category-level view; with one it returns the
// subcategory view for that category. Going back to the category level is
// just a request without the parameter, so no state lives on the server.
func (h *Handler) Drilldown(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	selected := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("category")))
	req := drilldownRequest{Category: selected}
	if !validateRequest(w, r, req) {
		return
	}

	spec, parseReasons := parseFilterSpec(r)
	h.serveCached(w, r, "drilldown", func() (interface{}, []string) {
		records, reasons := query.Run(snap, spec)
		return analytics.Drilldown(records, models.Category(selected)), append(parseReasons, reasons...)
	})
}
