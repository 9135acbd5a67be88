// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package services

import (
	"context"
	"time"

	"github.com/watchdawg/citywatch/internal/logging"
)

// Refresher runs one ingestion cycle.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshService re-ingests the extract on a fixed interval. A failed cycle
// is logged and retried at the next tick rather than crashing the service;
// the store keeps serving the previous snapshot in the meantime.
type RefreshService struct {
	refresher Refresher
	interval  time.Duration
}

// NewRefreshService wraps a Refresher as a supervised periodic service.
// The interval must be positive; callers disable periodic refresh by not
// adding the service at all.
func NewRefreshService(refresher Refresher, interval time.Duration) *RefreshService {
	return &RefreshService{refresher: refresher, interval: interval}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.refresher.Refresh(ctx); err != nil {
				logging.Error().Err(err).Msg("Scheduled refresh failed")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (s *RefreshService) String() string {
	return "ingest-refresh"
}
