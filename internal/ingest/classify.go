// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package ingest

import (
	"strings"

	"github.com/watchdawg/citywatch/internal/models"
)

// classificationRule maps a keyword set to a category. Rules are evaluated
// in table order against the uppercased offense text; the first rule with a
// matching keyword wins. Substring matching is deliberate: offense texts are
// free-form ("THEFT-BICYCLE", "AGGRAVATED ASSAULT") and the keyword sets
// were tuned against the source extract.
type classificationRule struct {
	keywords []string
	category models.Category
}

var classificationRules = []classificationRule{
	{
		keywords: []string{"ASSAULT", "ROBBERY", "HOMICIDE", "RAPE", "SEX OFFENSE"},
		category: models.CategoryPerson,
	},
	{
		keywords: []string{"THEFT", "BURGLARY", "CAR PROWL", "SHOPLIFTING", "MOTOR VEHICLE THEFT", "ARSON", "VANDALISM"},
		category: models.CategoryProperty,
	},
	{
		keywords: []string{"NARCOTIC", "DRUG", "DUI", "WEAPON", "PROSTITUTION", "GAMBLE", "LIQUOR", "TRESPASS", "DISORDERLY"},
		category: models.CategorySociety,
	},
}

// ClassifyOffense assigns a category from free-form offense text. Text
// matching no rule lands in the ANY bucket.
func ClassifyOffense(offense string) models.Category {
	text := strings.ToUpper(offense)
	for _, rule := range classificationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return models.CategoryAny
}
