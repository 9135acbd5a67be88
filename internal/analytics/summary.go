// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package analytics

import (
	"sort"

	"github.com/watchdawg/citywatch/internal/models"
)

// KPIs totals a filtered set per category. Total is the sum of the
// per-category counts; every category seen in the set appears, so the two
// always reconcile.
func KPIs(records []*models.Incident) models.KPISummary {
	counts := make(map[models.Category]int)
	for _, r := range records {
		counts[r.Category]++
	}

	summary := models.KPISummary{Categories: []models.CategoryCount{}}

	// Taxonomy categories first in declaration order, then anything else
	// alphabetically, so the KPI cards render in a stable layout.
	seen := make(map[models.Category]bool)
	for _, c := range models.Categories {
		if n, ok := counts[c]; ok {
			summary.Categories = append(summary.Categories, models.CategoryCount{Category: c, Count: n})
			summary.Total += n
			seen[c] = true
		}
	}
	var extra []models.Category
	for c := range counts {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, c := range extra {
		summary.Categories = append(summary.Categories, models.CategoryCount{Category: c, Count: counts[c]})
		summary.Total += counts[c]
	}
	return summary
}

// Hourly builds the 24-entry count-by-hour histogram, zero-filled for
// missing hours.
func Hourly(records []*models.Incident) []models.HourCount {
	var counts [24]int
	for _, r := range records {
		if r.Hour >= 0 && r.Hour < 24 {
			counts[r.Hour]++
		}
	}
	out := make([]models.HourCount, 24)
	for h := range counts {
		out[h] = models.HourCount{Hour: h, Count: counts[h]}
	}
	return out
}

// TopOffenses returns the n most frequent subcategories, count descending,
// ties broken alphabetically.
func TopOffenses(records []*models.Incident, n int) []models.OffenseCount {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Subcategory == "" {
			continue
		}
		counts[r.Subcategory]++
	}
	out := make([]models.OffenseCount, 0, len(counts))
	for sub, c := range counts {
		out = append(out, models.OffenseCount{Subcategory: sub, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Subcategory < out[j].Subcategory
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
