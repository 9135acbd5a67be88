// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package models

import (
	"time"
)

// TrendPoint is one (bucket, area) cell of a ranked trend series. Buckets
// with no records for an area are simply absent, never zero-filled.
type TrendPoint struct {
	Bucket      string    `json:"bucket"`
	BucketStart time.Time `json:"bucket_start"`
	Area        string    `json:"area"`
	Value       float64   `json:"value"`
}

// TrendResult is the output of the aggregation and ranking engine.
// Areas lists the ranked neighborhoods in rank order; the ranking is fixed
// over the whole filtered set before any bucketing, so every bucket reports
// the same area set.
type TrendResult struct {
	Metric    string       `json:"metric"`
	SortOrder string       `json:"sort_order"`
	Interval  string       `json:"interval"`
	Areas     []string     `json:"areas"`
	Points    []TrendPoint `json:"points"`
}

// CategoryCount is one KPI cell.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// KPISummary holds per-category totals for a filtered set.
// Total always equals the sum of the per-category counts.
type KPISummary struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// HourCount is one cell of the 24-hour histogram. All 24 hours are present,
// zero-filled, so the chart never has gaps.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// OffenseCount is one subcategory tally.
type OffenseCount struct {
	Subcategory string `json:"subcategory"`
	Count       int    `json:"count"`
}

// Drill-down display levels.
const (
	DrilldownLevelCategory    = "category"
	DrilldownLevelSubcategory = "subcategory"
)

// DrilldownEntry is one (category, subcategory) cell with its presentation
// weight. Weight decreases with rank inside a category and never falls below
// the documented floor; clients use it directly as stacked-bar opacity.
type DrilldownEntry struct {
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory"`
	Count       int      `json:"count"`
	Weight      float64  `json:"weight"`
}

// DrilldownResult is the output of the two-level drill-down engine. At the
// category level SelectedCategory is empty and Entries spans all categories;
// at the subcategory level Entries covers only the selected category.
type DrilldownResult struct {
	Level            string           `json:"level"`
	SelectedCategory Category         `json:"selected_category,omitempty"`
	CategoryOrder    []Category       `json:"category_order,omitempty"`
	Entries          []DrilldownEntry `json:"entries"`
}

// MapPoint is one map marker. Size is scaled from the marker's location
// frequency within the capped sample.
type MapPoint struct {
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Size        float64   `json:"size"`
	Category    Category  `json:"category"`
	Subcategory string    `json:"subcategory"`
	Area        string    `json:"area"`
	Timestamp   time.Time `json:"timestamp"`
}

// TableRow is one formatted table row. Rows are recency-ordered and capped;
// the same filter inputs always reproduce the same rows.
type TableRow struct {
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory"`
	Location    string   `json:"location"`
	Area        string   `json:"area"`
	Precinct    string   `json:"precinct"`
	HazardScore float64  `json:"hazard_score"`
}

// IngestSummary aggregates ingestion outcomes for a single run. Row-level
// failures are never surfaced individually; they land in RejectedByReason.
type IngestSummary struct {
	RowsRead         int64            `json:"rows_read"`
	RowsAccepted     int64            `json:"rows_accepted"`
	RowsRejected     int64            `json:"rows_rejected"`
	RejectedByReason map[string]int64 `json:"rejected_by_reason,omitempty"`
	CompletedAt      time.Time        `json:"completed_at"`
}

// SnapshotInfo describes the currently served store snapshot.
type SnapshotInfo struct {
	Records int           `json:"records"`
	MinDate time.Time     `json:"min_date"`
	MaxDate time.Time     `json:"max_date"`
	Ingest  IngestSummary `json:"ingest"`
}
