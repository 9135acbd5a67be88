// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

// Package refresh orchestrates the ingestion cycle: download or open the
// extract, normalize it into a snapshot, persist it, and swap it into the
// live store. One Refresher instance is shared between startup bootstrap and
// the periodic refresh service.
package refresh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/watchdawg/citywatch/internal/cache"
	"github.com/watchdawg/citywatch/internal/config"
	"github.com/watchdawg/citywatch/internal/database"
	"github.com/watchdawg/citywatch/internal/ingest"
	"github.com/watchdawg/citywatch/internal/logging"
	"github.com/watchdawg/citywatch/internal/metrics"
	"github.com/watchdawg/citywatch/internal/store"
)

// Refresher runs ingestion cycles against a live store. The database is
// optional; without it every start re-ingests from the source instead of
// serving the persisted snapshot.
type Refresher struct {
	cfg     *config.Config
	fetcher *ingest.Fetcher
	db      *database.DB
	store   *store.Store
	cache   *cache.Cache
}

// New creates a Refresher. db may be nil when persistence is disabled.
func New(cfg *config.Config, db *database.DB, st *store.Store, respCache *cache.Cache) *Refresher {
	return &Refresher{
		cfg:     cfg,
		fetcher: ingest.NewFetcher(cfg.Ingest),
		db:      db,
		store:   st,
		cache:   respCache,
	}
}

// Bootstrap makes the store ready at startup. It prefers the persisted
// snapshot so restarts do not hit the upstream; when none exists it falls
// back to a full refresh. With no source configured either, the persisted
// snapshot is required.
func (r *Refresher) Bootstrap(ctx context.Context) error {
	if r.db != nil {
		snap, err := r.db.LoadSnapshot(ctx)
		switch {
		case err == nil:
			r.store.Swap(snap)
			metrics.RecordSnapshotSwap(snap.Len(), r.store.Generation())
			logging.Info().
				Int("records", snap.Len()).
				Msg("Bootstrapped store from persisted snapshot")
			return nil
		case errors.Is(err, database.ErrNoSnapshot):
			logging.Info().Msg("No persisted snapshot, ingesting from source")
		default:
			return fmt.Errorf("load persisted snapshot: %w", err)
		}
	}

	if r.cfg.Ingest.SourcePath == "" && r.cfg.Ingest.SourceURL == "" {
		return errors.New("refresh: no ingest source configured and no persisted snapshot")
	}
	return r.Refresh(ctx)
}

// Refresh runs one full ingestion cycle and swaps the result into the
// store. The previous snapshot keeps serving readers until the swap, so a
// failed refresh never degrades the running service.
func (r *Refresher) Refresh(ctx context.Context) error {
	started := time.Now()

	result, err := r.ingestSource(ctx)
	if err != nil {
		metrics.RecordIngestRun(time.Since(started), 0, 0, nil, err)
		return err
	}

	snap := store.NewSnapshot(result.Records, result.Summary)

	if r.db != nil {
		if err := r.db.SaveSnapshot(ctx, snap); err != nil {
			// Persistence is an optimization; the fresh snapshot still
			// serves this process.
			logging.Warn().Err(err).Msg("Failed to persist snapshot")
		}
	}

	r.store.Swap(snap)
	r.cache.Clear()

	metrics.RecordIngestRun(time.Since(started),
		result.Summary.RowsRead,
		result.Summary.RowsAccepted,
		result.Summary.RejectedByReason,
		nil)
	metrics.RecordSnapshotSwap(snap.Len(), r.store.Generation())

	logging.Info().
		Int64("rows_read", result.Summary.RowsRead).
		Int64("rows_accepted", result.Summary.RowsAccepted).
		Int64("rows_rejected", result.Summary.RowsRejected).
		Dur("elapsed", time.Since(started)).
		Msg("Refresh complete")

	return nil
}

// ingestSource reads the extract from the local path when one is
// configured, otherwise it downloads from the source URL.
func (r *Refresher) ingestSource(ctx context.Context) (*ingest.Result, error) {
	if r.cfg.Ingest.SourcePath != "" {
		return ingest.ReadCSVFile(ctx, r.cfg.Ingest.SourcePath, r.cfg.Geo)
	}

	body, err := r.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return ingest.ReadCSV(ctx, bytes.NewReader(body), r.cfg.Geo)
}
