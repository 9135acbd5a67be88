// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package analytics

import (
	"testing"

	"github.com/watchdawg/citywatch/internal/models"
)

func TestKPITotalReconciles(t *testing.T) {
	t.Parallel()

	var records []*models.Incident
	records = repeated(records, 7, models.CategoryPerson, "ASSAULT")
	records = repeated(records, 11, models.CategoryProperty, "THEFT")
	records = repeated(records, 3, models.CategorySociety, "DUI")
	records = repeated(records, 2, models.CategoryAny, "OTHER")

	got := KPIs(records)
	if got.Total != 23 {
		t.Errorf("Total = %d, want 23", got.Total)
	}
	sum := 0
	for _, c := range got.Categories {
		sum += c.Count
	}
	if sum != got.Total {
		t.Errorf("category sum %d != total %d", sum, got.Total)
	}
}

func TestKPIEmptySet(t *testing.T) {
	t.Parallel()

	got := KPIs(nil)
	if got.Total != 0 || len(got.Categories) != 0 {
		t.Errorf("empty set KPIs = %+v", got)
	}
}

func TestHourlyZeroFills(t *testing.T) {
	t.Parallel()

	records := []*models.Incident{
		{Hour: 3, Category: models.CategoryAny},
		{Hour: 3, Category: models.CategoryAny},
		{Hour: 23, Category: models.CategoryAny},
	}
	got := Hourly(records)
	if len(got) != 24 {
		t.Fatalf("histogram has %d cells, want 24", len(got))
	}
	for h, cell := range got {
		if cell.Hour != h {
			t.Errorf("cell %d labeled hour %d", h, cell.Hour)
		}
	}
	if got[3].Count != 2 || got[23].Count != 1 {
		t.Errorf("counts = %d @3, %d @23", got[3].Count, got[23].Count)
	}
	if got[0].Count != 0 {
		t.Errorf("empty hour not zero: %d", got[0].Count)
	}
}

func TestTopOffenses(t *testing.T) {
	t.Parallel()

	var records []*models.Incident
	records = repeated(records, 5, models.CategoryProperty, "THEFT")
	records = repeated(records, 5, models.CategoryProperty, "BURGLARY")
	records = repeated(records, 2, models.CategoryPerson, "ASSAULT")
	records = append(records, &models.Incident{Category: models.CategoryAny})

	got := TopOffenses(records, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Tie between THEFT and BURGLARY breaks alphabetically.
	if got[0].Subcategory != "BURGLARY" || got[1].Subcategory != "THEFT" {
		t.Errorf("order = %q, %q", got[0].Subcategory, got[1].Subcategory)
	}
}
