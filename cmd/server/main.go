// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

// Package main is the entry point for the CityWatch server.
//
// CityWatch ingests the Seattle Police Department incident extract,
// normalizes it into an immutable in-memory snapshot backed by DuckDB
// persistence, and serves filtered analytics over HTTP: neighborhood trend
// rankings, category drill-downs, map samples, and incident tables.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered load (defaults, config.yaml, env vars)
//  2. Logging: zerolog with the configured level and format
//  3. Database: DuckDB snapshot persistence (optional)
//  4. Bootstrap: serve the persisted snapshot, or ingest from the source
//  5. Supervisor tree: periodic ingest refresher and the HTTP server
//
// # Configuration
//
// Key environment variables:
//   - INGEST_SOURCE_URL: HTTP(S) URL of the CSV extract
//   - INGEST_SOURCE_PATH: local CSV path (overrides the URL)
//   - INGEST_REFRESH_INTERVAL: periodic re-ingest interval, 0 disables
//   - DATABASE_PATH: DuckDB file for snapshot persistence, empty disables
//   - SERVER_PORT: HTTP listen port (default 8710)
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the refresher stops, and the database closes.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/watchdawg/citywatch/internal/api"
	"github.com/watchdawg/citywatch/internal/cache"
	"github.com/watchdawg/citywatch/internal/config"
	"github.com/watchdawg/citywatch/internal/database"
	"github.com/watchdawg/citywatch/internal/logging"
	"github.com/watchdawg/citywatch/internal/refresh"
	"github.com/watchdawg/citywatch/internal/store"
	"github.com/watchdawg/citywatch/internal/supervisor"
	"github.com/watchdawg/citywatch/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("source_url", cfg.Ingest.SourceURL).
		Str("source_path", cfg.Ingest.SourcePath).
		Str("db_path", cfg.Database.Path).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting CityWatch")

	var db *database.DB
	if cfg.Database.Path != "" {
		db, err = database.New(&cfg.Database)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing database")
			}
		}()
	} else {
		logging.Info().Msg("Snapshot persistence disabled (no database path)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.New()
	respCache := cache.New(cfg.API.CacheTTL)
	defer respCache.Stop()

	refresher := refresh.New(cfg, db, st, respCache)
	if err := refresher.Bootstrap(ctx); err != nil {
		// The API can come up without data; readiness stays 503 until the
		// first successful refresh.
		logging.Error().Err(err).Msg("Bootstrap failed, serving without data until a refresh succeeds")
	}

	router := api.NewRouter(api.NewHandler(st, respCache, cfg), cfg)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPService(server, supervisor.DefaultTreeConfig().ShutdownTimeout))

	if cfg.Ingest.RefreshInterval > 0 {
		tree.AddIngestService(services.NewRefreshService(refresher, cfg.Ingest.RefreshInterval))
	} else {
		logging.Info().Msg("Periodic refresh disabled (refresh interval is 0)")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("CityWatch stopped gracefully")
}
