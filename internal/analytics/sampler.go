// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package analytics

import (
	"math"
	"sort"

	"github.com/watchdawg/citywatch/internal/models"
)

// Marker size range. When every sampled location occurs equally often,
// all markers render at the constant mid size.
const (
	markerSizeMin = 5.0
	markerSizeMax = 25.0
	markerSizeMid = (markerSizeMin + markerSizeMax) / 2
)

// recencySample returns the limit most recent records, timestamp descending.
// Ties break on ID so the same filter inputs always reproduce the same
// sample.
func recencySample(records []*models.Incident, limit int) []*models.Incident {
	sorted := make([]*models.Incident, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.After(sorted[j].Timestamp)
		}
		return sorted[i].ID < sorted[j].ID
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// coordKey rounds a coordinate pair to 4 decimal places, about 11 meters,
// so repeat incidents at the same address collapse into one frequency cell.
type coordKey struct {
	Lat, Lon float64
}

func roundCoord(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// MapSample produces capped, recency-first map markers from a filtered set.
// Records without coordinates are excluded before capping. Marker size
// scales linearly with the frequency of the marker's rounded location
// within the capped sample.
func MapSample(records []*models.Incident, limit int) []models.MapPoint {
	withCoords := make([]*models.Incident, 0, len(records))
	for _, r := range records {
		if r.HasCoords {
			withCoords = append(withCoords, r)
		}
	}
	sample := recencySample(withCoords, limit)
	if len(sample) == 0 {
		return []models.MapPoint{}
	}

	freq := make(map[coordKey]int, len(sample))
	for _, r := range sample {
		freq[coordKey{Lat: roundCoord(r.Latitude), Lon: roundCoord(r.Longitude)}]++
	}
	minFreq, maxFreq := math.MaxInt, 0
	for _, n := range freq {
		if n < minFreq {
			minFreq = n
		}
		if n > maxFreq {
			maxFreq = n
		}
	}

	points := make([]models.MapPoint, 0, len(sample))
	for _, r := range sample {
		n := freq[coordKey{Lat: roundCoord(r.Latitude), Lon: roundCoord(r.Longitude)}]
		size := markerSizeMid
		if maxFreq > minFreq {
			frac := float64(n-minFreq) / float64(maxFreq-minFreq)
			size = markerSizeMin + frac*(markerSizeMax-markerSizeMin)
		}
		points = append(points, models.MapPoint{
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Size:        size,
			Category:    r.Category,
			Subcategory: r.Subcategory,
			Area:        r.Area,
			Timestamp:   r.Timestamp,
		})
	}
	return points
}

// TableSample produces capped, recency-first formatted table rows.
func TableSample(records []*models.Incident, limit int) []models.TableRow {
	sample := recencySample(records, limit)
	rows := make([]models.TableRow, 0, len(sample))
	for _, r := range sample {
		rows = append(rows, models.TableRow{
			Date:        r.Date.Format("2006-01-02"),
			Time:        r.TimeOfDay,
			Category:    r.Category,
			Subcategory: r.Subcategory,
			Location:    r.Location,
			Area:        r.Area,
			Precinct:    r.Precinct,
			HazardScore: math.Round(r.HazardScore*100) / 100,
		})
	}
	return rows
}
