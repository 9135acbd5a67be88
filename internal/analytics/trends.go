// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

// Package analytics turns filtered incident sets into presentation-ready
// aggregates: ranked trend series, the two-level drill-down, KPI totals,
// and the capped map/table samples. Everything here is a pure in-memory
// computation over an already filtered set.
package analytics

import (
	"sort"
	"time"

	"github.com/watchdawg/citywatch/internal/models"
)

// Trend metrics.
const (
	MetricCount      = "count"
	MetricHazardMean = "hazard_mean"
)

// Trend sort orders.
const (
	SortTop    = "top"
	SortBottom = "bottom"
)

// Bucket intervals, chosen adaptively from the span of the filtered dates.
const (
	IntervalDay   = "day"
	IntervalWeek  = "week"
	IntervalMonth = "month"
)

// defaultTrendN is the fixed neighborhood rank depth.
const defaultTrendN = 10

// TrendOptions selects the metric and ranking direction for Trends.
// Zero values fall back to count, top, N=10.
type TrendOptions struct {
	Metric    string
	SortOrder string
	N         int
}

func (o *TrendOptions) normalize() {
	if o.Metric != MetricHazardMean {
		o.Metric = MetricCount
	}
	if o.SortOrder != SortBottom {
		o.SortOrder = SortTop
	}
	if o.N <= 0 {
		o.N = defaultTrendN
	}
}

// Trends ranks neighborhoods by the selected metric over the whole filtered
// set, then re-aggregates only the ranked neighborhoods into adaptive time
// buckets. Records in the current, still accumulating calendar month are
// dropped first so a partial period never distorts the ranking.
func Trends(records []*models.Incident, opts TrendOptions, now time.Time) models.TrendResult {
	opts.normalize()

	cutoff := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	complete := make([]*models.Incident, 0, len(records))
	for _, r := range records {
		if r.Date.Before(cutoff) {
			complete = append(complete, r)
		}
	}

	result := models.TrendResult{
		Metric:    opts.Metric,
		SortOrder: opts.SortOrder,
		Interval:  IntervalDay,
		Areas:     []string{},
		Points:    []models.TrendPoint{},
	}
	if len(complete) == 0 {
		return result
	}

	result.Interval = chooseInterval(complete)
	result.Areas = rankAreas(complete, opts)

	selected := make(map[string]struct{}, len(result.Areas))
	for _, a := range result.Areas {
		selected[a] = struct{}{}
	}
	result.Points = bucketize(complete, selected, opts.Metric, result.Interval)
	return result
}

// chooseInterval picks the bucket width from the span of the set's dates:
// over 180 days a month, 60 to 180 days a week, otherwise a day.
func chooseInterval(records []*models.Incident) string {
	minDate, maxDate := records[0].Date, records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}
	span := maxDate.Sub(minDate)
	switch {
	case span > 180*24*time.Hour:
		return IntervalMonth
	case span >= 60*24*time.Hour:
		return IntervalWeek
	default:
		return IntervalDay
	}
}

// areaStat accumulates one neighborhood's metric inputs.
type areaStat struct {
	area      string
	count     int
	hazardSum float64
}

func (s areaStat) value(metric string) float64 {
	if metric == MetricHazardMean {
		if s.count == 0 {
			return 0
		}
		return s.hazardSum / float64(s.count)
	}
	return float64(s.count)
}

// rankAreas computes the metric per neighborhood over the entire set and
// returns the top or bottom N areas. The metric is fixed here, before any
// bucketing, so every bucket reports the same area set.
func rankAreas(records []*models.Incident, opts TrendOptions) []string {
	byArea := make(map[string]*areaStat)
	for _, r := range records {
		s, ok := byArea[r.Area]
		if !ok {
			s = &areaStat{area: r.Area}
			byArea[r.Area] = s
		}
		s.count++
		s.hazardSum += r.HazardScore
	}

	stats := make([]*areaStat, 0, len(byArea))
	for _, s := range byArea {
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool {
		vi, vj := stats[i].value(opts.Metric), stats[j].value(opts.Metric)
		if vi != vj {
			return vi > vj
		}
		return stats[i].area < stats[j].area
	})

	if opts.SortOrder == SortBottom {
		// Ascending tail: the N lowest, lowest first.
		tail := stats
		if len(tail) > opts.N {
			tail = tail[len(tail)-opts.N:]
		}
		areas := make([]string, 0, len(tail))
		for i := len(tail) - 1; i >= 0; i-- {
			areas = append(areas, tail[i].area)
		}
		return areas
	}

	if len(stats) > opts.N {
		stats = stats[:opts.N]
	}
	areas := make([]string, 0, len(stats))
	for _, s := range stats {
		areas = append(areas, s.area)
	}
	return areas
}

// bucketStart truncates a date to its containing bucket. Weeks start on
// Monday.
func bucketStart(d time.Time, interval string) time.Time {
	switch interval {
	case IntervalMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case IntervalWeek:
		offset := (int(d.Weekday()) + 6) % 7
		d = d.AddDate(0, 0, -offset)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func bucketLabel(start time.Time, interval string) string {
	if interval == IntervalMonth {
		return start.Format("2006-01")
	}
	return start.Format("2006-01-02")
}

// bucketize re-aggregates the selected neighborhoods into (bucket, area)
// metric cells, ordered by bucket ascending then area. Empty cells are
// absent, never zero-filled.
func bucketize(records []*models.Incident, selected map[string]struct{}, metric, interval string) []models.TrendPoint {
	type cellKey struct {
		start time.Time
		area  string
	}
	cells := make(map[cellKey]*areaStat)
	for _, r := range records {
		if _, ok := selected[r.Area]; !ok {
			continue
		}
		k := cellKey{start: bucketStart(r.Date, interval), area: r.Area}
		s, ok := cells[k]
		if !ok {
			s = &areaStat{area: r.Area}
			cells[k] = s
		}
		s.count++
		s.hazardSum += r.HazardScore
	}

	keys := make([]cellKey, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].start.Equal(keys[j].start) {
			return keys[i].start.Before(keys[j].start)
		}
		return keys[i].area < keys[j].area
	})

	points := make([]models.TrendPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, models.TrendPoint{
			Bucket:      bucketLabel(k.start, interval),
			BucketStart: k.start,
			Area:        k.area,
			Value:       cells[k].value(metric),
		})
	}
	return points
}
