// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package analytics

import (
	"sort"

	"github.com/watchdawg/citywatch/internal/models"
)

// Subcategory depth per level.
const (
	categoryLevelDepth    = 10
	subcategoryLevelDepth = 20
)

// Stacked-bar weight ramp. The first subcategory in a category renders at
// full weight, each following rank steps down, and no entry falls below the
// floor.
const (
	weightMax   = 1.0
	weightStep  = 0.07
	weightFloor = 0.35
)

func rankWeight(rank int) float64 {
	w := weightMax - float64(rank)*weightStep
	if w < weightFloor {
		return weightFloor
	}
	return w
}

// Drilldown computes one display level of the category drill-down.
// With no selection it returns the category level: the top subcategories of
// every category, categories ordered by total count descending. With a
// selected category it returns that category's subcategory level. The two
// levels are the whole state machine; selecting drills down, only an
// explicit reset (an empty selection) returns, and there is no deeper
// level, so a handler that receives a selection while already at the
// subcategory level simply recomputes the same level.
func Drilldown(records []*models.Incident, selected models.Category) models.DrilldownResult {
	if selected != "" {
		return subcategoryLevel(records, selected)
	}
	return categoryLevel(records)
}

func subcategoryCounts(records []*models.Incident, category models.Category) []models.DrilldownEntry {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Category != category {
			continue
		}
		counts[r.Subcategory]++
	}
	entries := make([]models.DrilldownEntry, 0, len(counts))
	for sub, n := range counts {
		entries = append(entries, models.DrilldownEntry{
			Category:    category,
			Subcategory: sub,
			Count:       n,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Subcategory < entries[j].Subcategory
	})
	return entries
}

func categoryLevel(records []*models.Incident) models.DrilldownResult {
	totals := make(map[models.Category]int)
	for _, r := range records {
		totals[r.Category]++
	}
	order := make([]models.Category, 0, len(totals))
	for c := range totals {
		order = append(order, c)
	}
	sort.Slice(order, func(i, j int) bool {
		if totals[order[i]] != totals[order[j]] {
			return totals[order[i]] > totals[order[j]]
		}
		return order[i] < order[j]
	})

	result := models.DrilldownResult{
		Level:         models.DrilldownLevelCategory,
		CategoryOrder: order,
		Entries:       []models.DrilldownEntry{},
	}
	for _, c := range order {
		entries := subcategoryCounts(records, c)
		if len(entries) > categoryLevelDepth {
			entries = entries[:categoryLevelDepth]
		}
		for i := range entries {
			entries[i].Weight = rankWeight(i)
		}
		result.Entries = append(result.Entries, entries...)
	}
	return result
}

func subcategoryLevel(records []*models.Incident, selected models.Category) models.DrilldownResult {
	entries := subcategoryCounts(records, selected)
	if len(entries) > subcategoryLevelDepth {
		entries = entries[:subcategoryLevelDepth]
	}
	for i := range entries {
		entries[i].Weight = rankWeight(i)
	}
	return models.DrilldownResult{
		Level:            models.DrilldownLevelSubcategory,
		SelectedCategory: selected,
		Entries:          entries,
	}
}
