// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

// Package ingest turns a raw incident extract into canonical records.
//
// The pipeline is: fetch (or open) the CSV extract, negotiate the schema
// against the alias table, then normalize row by row. Failures are per-row
// and non-fatal; they land in typed rejection counters, never abort a batch.
package ingest

import (
	"fmt"
	"strings"
)

// Canonical field names the alias table resolves to.
const (
	FieldID          = "id"
	FieldCategory    = "category"
	FieldSubcategory = "subcategory"
	FieldLocation    = "location"
	FieldArea        = "area"
	FieldPrecinct    = "precinct"
	FieldSector      = "sector"
	FieldHazard      = "hazard_score"
	FieldLatitude    = "latitude"
	FieldLongitude   = "longitude"
)

// columnAliases maps canonical fields to the source column spellings seen
// across extract revisions. Matching is case-insensitive on trimmed headers.
var columnAliases = map[string][]string{
	FieldID:          {"Report Number", "Offense ID", "GO Number"},
	FieldCategory:    {"NIBRS Crime Against Category", "Crime Against Category"},
	FieldSubcategory: {"Offense Category", "Offense Parent Group", "Offense"},
	FieldLocation:    {"Block Address", "100 Block Address", "Location"},
	FieldArea:        {"Neighborhood", "MCPP", "Neighborhoods"},
	FieldPrecinct:    {"Precinct"},
	FieldSector:      {"Sector"},
	FieldHazard:      {"Hazardness", "Hazard Score"},
	FieldLatitude:    {"Latitude"},
	FieldLongitude:   {"Longitude"},
}

// dateColumnCandidates lists the datetime source columns in preference
// order. The first non-empty value per row becomes the parse candidate.
var dateColumnCandidates = []string{
	"Offense Date",
	"Offense Start DateTime",
	"Report DateTime",
	"Occurred Date",
}

// Capabilities records which optional columns the negotiated schema offers.
// The normalizer consumes this instead of probing column existence inline.
type Capabilities struct {
	HasID          bool
	HasCategory    bool // precomputed crime-against category
	HasSubcategory bool
	HasHazard      bool
	HasCoordinates bool
	HasArea        bool
	HasPrecinct    bool
	HasSector      bool
	HasLocation    bool
}

// Schema is the result of negotiating an extract header against the alias
// table: per-field column indexes plus the capability record.
type Schema struct {
	Caps Capabilities

	fieldIndex  map[string]int
	dateColumns []int // candidate datetime columns in preference order
}

// NegotiateSchema resolves a CSV header row into a Schema. Missing optional
// columns are tolerated; only the total absence of any datetime column is
// fatal, because a record without a parseable date cannot exist.
func NegotiateSchema(header []string) (*Schema, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	s := &Schema{fieldIndex: make(map[string]int, len(columnAliases))}

	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if idx, ok := byName[strings.ToLower(alias)]; ok {
				s.fieldIndex[field] = idx
				break
			}
		}
	}

	for _, cand := range dateColumnCandidates {
		if idx, ok := byName[strings.ToLower(cand)]; ok {
			s.dateColumns = append(s.dateColumns, idx)
		}
	}
	if len(s.dateColumns) == 0 {
		return nil, fmt.Errorf("extract has no recognized datetime column (header: %v)", header)
	}

	_, s.Caps.HasID = s.fieldIndex[FieldID]
	_, s.Caps.HasCategory = s.fieldIndex[FieldCategory]
	_, s.Caps.HasSubcategory = s.fieldIndex[FieldSubcategory]
	_, s.Caps.HasHazard = s.fieldIndex[FieldHazard]
	_, s.Caps.HasArea = s.fieldIndex[FieldArea]
	_, s.Caps.HasPrecinct = s.fieldIndex[FieldPrecinct]
	_, s.Caps.HasSector = s.fieldIndex[FieldSector]
	_, s.Caps.HasLocation = s.fieldIndex[FieldLocation]

	_, hasLat := s.fieldIndex[FieldLatitude]
	_, hasLon := s.fieldIndex[FieldLongitude]
	s.Caps.HasCoordinates = hasLat && hasLon

	return s, nil
}

// Value returns the trimmed cell for a canonical field, or "" when the
// column is absent or the row is short.
func (s *Schema) Value(row []string, field string) string {
	idx, ok := s.fieldIndex[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// DateCandidate returns the first non-empty datetime cell in preference
// order, or "" when every candidate is empty.
func (s *Schema) DateCandidate(row []string) string {
	for _, idx := range s.dateColumns {
		if idx < len(row) {
			if v := strings.TrimSpace(row[idx]); v != "" {
				return v
			}
		}
	}
	return ""
}
