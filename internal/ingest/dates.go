// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package ingest

import (
	"fmt"
	"time"
)

// dateLayouts is the ordered fallback chain for datetime parsing. The first
// successful parse wins; exhaustion is a typed ingestion error. Order
// matters: ISO forms come first because they dominate recent extracts.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006 15:04:05",
	"01/02/2006 03:04:05 PM",
	"2006-01-02",
	"2006 Jan 02 03:04:05 PM",
}

// ErrDateUnparseable is returned when no layout in the chain matches.
var ErrDateUnparseable = fmt.Errorf("datetime matches no known layout")

// ParseDateTime tries the candidate string against the fallback chain.
func ParseDateTime(candidate string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, candidate); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrDateUnparseable, candidate)
}
