// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

// Package models defines the canonical incident record and the result types
// shared by the ingestion, query, analytics, and API layers.
package models

import (
	"strings"
	"time"
)

// Category is the "crime against" classification of an incident.
type Category string

// The fixed category taxonomy. Source values outside this set map to
// CategoryAny, the catch-all bucket; they are never dropped.
const (
	CategoryPerson    Category = "PERSON"
	CategoryProperty  Category = "PROPERTY"
	CategorySociety   Category = "SOCIETY"
	CategoryAny       Category = "ANY"
	CategoryNotACrime Category = "NOT_A_CRIME"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryPerson,
	CategoryProperty,
	CategorySociety,
	CategoryAny,
	CategoryNotACrime,
}

// ParseCategory normalizes a source category string. Unrecognized values
// fall into CategoryAny rather than being rejected.
func ParseCategory(s string) Category {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PERSON":
		return CategoryPerson
	case "PROPERTY":
		return CategoryProperty
	case "SOCIETY":
		return CategorySociety
	case "NOT_A_CRIME", "NOT A CRIME":
		return CategoryNotACrime
	default:
		return CategoryAny
	}
}

// Incident is one canonical record. Instances are immutable once the store
// is built; every downstream component reads the same snapshot.
//
// Coordinates are optional: HasCoords reports whether Latitude/Longitude
// carry a validated position. Records without coordinates are excluded from
// spatial filtering and map output but still count toward KPIs and trends.
type Incident struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	TimeOfDay   string    `json:"time_of_day"`
	Hour        int       `json:"hour"`
	Timestamp   time.Time `json:"timestamp"`
	Category    Category  `json:"category"`
	Subcategory string    `json:"subcategory"`
	Location    string    `json:"location"`
	Area        string    `json:"area"`
	Precinct    string    `json:"precinct"`
	Sector      string    `json:"sector"`
	HazardScore float64   `json:"hazard_score"`
	HasCoords   bool      `json:"has_coords"`
	Latitude    float64   `json:"latitude,omitempty"`
	Longitude   float64   `json:"longitude,omitempty"`
}
