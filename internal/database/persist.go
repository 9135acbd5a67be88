// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/watchdawg/citywatch/internal/logging"
	"github.com/watchdawg/citywatch/internal/models"
	"github.com/watchdawg/citywatch/internal/store"
)

// ErrNoSnapshot is returned by LoadSnapshot when the database holds no
// persisted run yet.
var ErrNoSnapshot = errors.New("database: no persisted snapshot")

const insertIncidentSQL = `INSERT INTO incidents (
	id, date, time_of_day, hour, ts, category, subcategory,
	location, area, precinct, sector, hazard_score,
	has_coords, latitude, longitude
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SaveSnapshot replaces the persisted record set with the given snapshot.
// The whole replacement runs in one transaction so a crash mid-save leaves
// the previous generation intact.
func (db *DB) SaveSnapshot(ctx context.Context, snap *store.Snapshot) error {
	started := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM incidents`); err != nil {
		return fmt.Errorf("failed to clear incidents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_runs`); err != nil {
		return fmt.Errorf("failed to clear snapshot runs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertIncidentSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, r := range snap.All() {
		var lat, lon sql.NullFloat64
		if r.HasCoords {
			lat = sql.NullFloat64{Float64: r.Latitude, Valid: true}
			lon = sql.NullFloat64{Float64: r.Longitude, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Date, r.TimeOfDay, r.Hour, r.Timestamp,
			string(r.Category), r.Subcategory, r.Location,
			r.Area, r.Precinct, r.Sector, r.HazardScore,
			r.HasCoords, lat, lon,
		); err != nil {
			return fmt.Errorf("failed to insert incident %s: %w", r.ID, err)
		}
	}

	ingest := snap.IngestSummary()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_runs (completed_at, rows_read, rows_accepted, rows_rejected) VALUES (?, ?, ?, ?)`,
		ingest.CompletedAt, ingest.RowsRead, ingest.RowsAccepted, ingest.RowsRejected,
	); err != nil {
		return fmt.Errorf("failed to record snapshot run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	logging.Info().
		Int("records", snap.Len()).
		Dur("elapsed", time.Since(started)).
		Msg("Snapshot persisted")
	return nil
}

// LoadSnapshot rebuilds an in-memory snapshot from the persisted record
// set. Dates come back as typed columns; nothing is re-parsed from raw
// extract strings.
func (db *DB) LoadSnapshot(ctx context.Context) (*store.Snapshot, error) {
	var ingest models.IngestSummary
	err := db.conn.QueryRowContext(ctx,
		`SELECT completed_at, rows_read, rows_accepted, rows_rejected
		 FROM snapshot_runs ORDER BY completed_at DESC LIMIT 1`,
	).Scan(&ingest.CompletedAt, &ingest.RowsRead, &ingest.RowsAccepted, &ingest.RowsRejected)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot run: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, date, time_of_day, hour, ts, category, subcategory,
		        location, area, precinct, sector, hazard_score,
		        has_coords, latitude, longitude
		 FROM incidents ORDER BY ts`)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []*models.Incident
	for rows.Next() {
		var (
			r           models.Incident
			category    string
			timeOfDay   sql.NullString
			subcategory sql.NullString
			location    sql.NullString
			area        sql.NullString
			precinct    sql.NullString
			sector      sql.NullString
			lat, lon    sql.NullFloat64
		)
		if err := rows.Scan(
			&r.ID, &r.Date, &timeOfDay, &r.Hour, &r.Timestamp,
			&category, &subcategory, &location, &area, &precinct,
			&sector, &r.HazardScore, &r.HasCoords, &lat, &lon,
		); err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}
		r.Category = models.Category(category)
		r.TimeOfDay = timeOfDay.String
		r.Subcategory = subcategory.String
		r.Location = location.String
		r.Area = area.String
		r.Precinct = precinct.String
		r.Sector = sector.String
		r.Date = r.Date.UTC()
		r.Timestamp = r.Timestamp.UTC()
		if r.HasCoords && lat.Valid && lon.Valid {
			r.Latitude = lat.Float64
			r.Longitude = lon.Float64
		} else {
			r.HasCoords = false
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incidents: %w", err)
	}

	logging.Info().
		Int("records", len(records)).
		Time("run_completed_at", ingest.CompletedAt).
		Msg("Snapshot loaded from database")
	return store.NewSnapshot(records, ingest), nil
}
