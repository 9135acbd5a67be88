// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/watchdawg/citywatch/internal/config"
	"github.com/watchdawg/citywatch/internal/logging"
	"github.com/watchdawg/citywatch/internal/models"
)

// progressLogInterval controls how often row progress is logged.
const progressLogInterval = 100_000

// Result is one completed ingestion run.
type Result struct {
	Records []*models.Incident
	Summary models.IngestSummary
}

// ReadCSV streams an extract and normalizes every row. Row-level failures
// are counted and skipped; only an unusable header or an aborted context is
// fatal.
func ReadCSV(ctx context.Context, r io.Reader, geo config.GeoConfig) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows vary; the schema handles short rows
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read extract header: %w", err)
	}
	schema, err := NegotiateSchema(header)
	if err != nil {
		return nil, fmt.Errorf("negotiate schema: %w", err)
	}

	logging.Debug().
		Bool("has_category", schema.Caps.HasCategory).
		Bool("has_hazard", schema.Caps.HasHazard).
		Bool("has_coordinates", schema.Caps.HasCoordinates).
		Msg("Schema negotiated")

	normalizer := NewNormalizer(schema, geo)
	stats := NewStats()
	records := make([]*models.Incident, 0, 1024)

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ingestion aborted: %w", err)
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stats.Read()
			stats.Reject(ReasonMalformedRow)
			continue
		}

		stats.Read()
		rec, reason := normalizer.Normalize(row)
		if reason != "" {
			stats.Reject(reason)
			continue
		}
		stats.Accept()
		records = append(records, rec)

		if len(records)%progressLogInterval == 0 {
			logging.Info().Int("rows_accepted", len(records)).Msg("Ingest progress")
		}
	}

	summary := stats.Summary()
	logging.Info().
		Int64("rows_read", summary.RowsRead).
		Int64("rows_accepted", summary.RowsAccepted).
		Int64("rows_rejected", summary.RowsRejected).
		Msg("Ingest complete")

	return &Result{Records: records, Summary: summary}, nil
}

// ReadCSVFile opens a local extract and ingests it.
func ReadCSVFile(ctx context.Context, path string, geo config.GeoConfig) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open extract: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing extract file")
		}
	}()

	return ReadCSV(ctx, f, geo)
}
