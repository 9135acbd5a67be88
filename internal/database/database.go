// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

// Package database persists a built store snapshot in DuckDB so a restart
// can re-open the canonical record set without re-fetching the extract or
// re-parsing raw dates. The table carries the full canonical field set plus
// indexes on the four query dimensions (date, hour, area, category) and the
// coordinate pair.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/watchdawg/citywatch/internal/config"
	"github.com/watchdawg/citywatch/internal/logging"
)

// DB wraps the DuckDB connection holding the persisted snapshot.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens (or creates) the snapshot database and ensures the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// Auto-install/auto-load stay off so startup cannot hang on a network
	// fetch in restricted environments.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}
	db.configureConnectionPool()

	if err := db.createSchema(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Str("max_memory", cfg.MaxMemory).
		Msg("Snapshot database opened")
	return db, nil
}

// NewInMemory opens a throwaway in-memory database, used by tests.
func NewInMemory() (*DB, error) {
	conn, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	db := &DB{conn: conn, cfg: &config.DatabaseConfig{}}
	db.configureConnectionPool()
	if err := db.createSchema(); err != nil {
		closeQuietly(conn)
		return nil, err
	}
	return db, nil
}

// configureConnectionPool applies conservative pool limits. DuckDB is an
// embedded engine; a small pool avoids file-lock contention.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(4)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
}

// Conn returns the underlying SQL connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close database connection")
	}
}

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createSchema creates the snapshot tables and indexes.
func (db *DB) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS incidents (
			id TEXT PRIMARY KEY,
			date DATE NOT NULL,
			time_of_day TEXT,
			hour TINYINT NOT NULL,
			ts TIMESTAMP NOT NULL,
			category TEXT NOT NULL,
			subcategory TEXT,
			location TEXT,
			area TEXT,
			precinct TEXT,
			sector TEXT,
			hazard_score DOUBLE NOT NULL DEFAULT 0,
			has_coords BOOLEAN NOT NULL DEFAULT FALSE,
			latitude DOUBLE,
			longitude DOUBLE
		)`,

		// One row per persisted snapshot generation; load picks the latest.
		`CREATE TABLE IF NOT EXISTS snapshot_runs (
			completed_at TIMESTAMP PRIMARY KEY,
			rows_read BIGINT NOT NULL,
			rows_accepted BIGINT NOT NULL,
			rows_rejected BIGINT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_incidents_date ON incidents(date)`,
		`CREATE INDEX IF NOT EXISTS idx_incidents_hour ON incidents(hour)`,
		`CREATE INDEX IF NOT EXISTS idx_incidents_area ON incidents(area)`,
		`CREATE INDEX IF NOT EXISTS idx_incidents_category ON incidents(category)`,
		`CREATE INDEX IF NOT EXISTS idx_incidents_lat_lon ON incidents(latitude, longitude)`,
	}
	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}
