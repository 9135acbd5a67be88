// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package models

import (
	"testing"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Category
	}{
		{"PERSON", CategoryPerson},
		{"person", CategoryPerson},
		{"  Property  ", CategoryProperty},
		{"SOCIETY", CategorySociety},
		{"NOT_A_CRIME", CategoryNotACrime},
		{"NOT A CRIME", CategoryNotACrime},
		{"", CategoryAny},
		{"UNKNOWN_VALUE", CategoryAny}, // catch-all bucket, never dropped
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := ParseCategory(tt.input); got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCategoriesCoverTaxonomy(t *testing.T) {
	t.Parallel()

	if len(Categories) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(Categories))
	}

	seen := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		if seen[c] {
			t.Errorf("duplicate category %q", c)
		}
		seen[c] = true
	}
}
