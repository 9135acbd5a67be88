// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/watchdawg/citywatch/internal/config"
	"github.com/watchdawg/citywatch/internal/models"
)

// Administrative sentinel values that exclude a row entirely. Sector 99 and
// precinct OOJ mark out-of-jurisdiction records; area UNKNOWN rows carry no
// usable neighborhood and poison rankings.
const (
	excludedSector   = "99"
	excludedPrecinct = "OOJ"
	excludedArea     = "UNKNOWN"
)

// coordSentinel values mean "coordinate withheld", not "coordinate zero".
var coordSentinels = map[string]bool{
	"":         true,
	"REDACTED": true,
}

// Normalizer converts raw extract rows into canonical records against a
// negotiated schema. It is purely functional per row; rejection accounting
// is the caller's job via the returned reason code.
type Normalizer struct {
	schema *Schema
	geo    config.GeoConfig
}

// NewNormalizer creates a Normalizer for one negotiated schema.
func NewNormalizer(schema *Schema, geo config.GeoConfig) *Normalizer {
	return &Normalizer{schema: schema, geo: geo}
}

// Normalize converts one row. On success it returns the record and an empty
// reason; on rejection the record is nil and the reason names the counter
// to increment.
func (n *Normalizer) Normalize(row []string) (*models.Incident, string) {
	candidate := n.schema.DateCandidate(row)
	if candidate == "" {
		return nil, ReasonMissingDate
	}
	ts, err := ParseDateTime(candidate)
	if err != nil {
		return nil, ReasonDateUnparseable
	}

	sector := n.schema.Value(row, FieldSector)
	if sector == excludedSector {
		return nil, ReasonExcludedSector
	}
	precinct := n.schema.Value(row, FieldPrecinct)
	if strings.EqualFold(precinct, excludedPrecinct) {
		return nil, ReasonExcludedPrecinct
	}
	area := n.schema.Value(row, FieldArea)
	if strings.EqualFold(area, excludedArea) {
		return nil, ReasonExcludedArea
	}

	rec := &models.Incident{
		Date:      time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
		TimeOfDay: ts.Format("15:04:05"),
		Hour:      ts.Hour(),
		Timestamp: ts,
		Location:  n.schema.Value(row, FieldLocation),
		Area:      area,
		Precinct:  precinct,
		Sector:    sector,
	}

	rec.Subcategory = n.schema.Value(row, FieldSubcategory)
	if raw := n.schema.Value(row, FieldCategory); n.schema.Caps.HasCategory && raw != "" {
		rec.Category = models.ParseCategory(raw)
	} else {
		rec.Category = ClassifyOffense(rec.Subcategory)
	}

	// Numeric coercion failures become 0, never an error.
	if raw := n.schema.Value(row, FieldHazard); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			rec.HazardScore = v
		}
	}

	if reason := n.applyCoordinates(rec, row); reason != "" {
		return nil, reason
	}

	rec.ID = n.recordID(row)

	return rec, ""
}

// applyCoordinates validates the row's coordinates against the bounding
// box. Sentinel or unparseable values leave the record without coordinates;
// a parsed position outside the box rejects the whole row.
func (n *Normalizer) applyCoordinates(rec *models.Incident, row []string) string {
	if !n.schema.Caps.HasCoordinates {
		return ""
	}

	rawLat := n.schema.Value(row, FieldLatitude)
	rawLon := n.schema.Value(row, FieldLongitude)
	if coordSentinels[strings.ToUpper(rawLat)] || coordSentinels[strings.ToUpper(rawLon)] {
		return ""
	}

	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lon, lonErr := strconv.ParseFloat(rawLon, 64)
	if latErr != nil || lonErr != nil {
		return ""
	}

	if lat < n.geo.MinLat || lat > n.geo.MaxLat || lon < n.geo.MinLon || lon > n.geo.MaxLon {
		return ReasonCoordsOutOfBounds
	}

	rec.HasCoords = true
	rec.Latitude = lat
	rec.Longitude = lon
	return ""
}

// recordID returns the source report number when present, or a content
// hash otherwise so re-ingesting an unchanged extract is deterministic.
func (n *Normalizer) recordID(row []string) string {
	if n.schema.Caps.HasID {
		if id := n.schema.Value(row, FieldID); id != "" {
			return id
		}
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(row, "\x1f"))).String()
}
