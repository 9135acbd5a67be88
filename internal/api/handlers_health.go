// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package api

import (
	"net/http"
	"time"

	"github.com/watchdawg/citywatch/internal/models"
)

// healthStatus is the payload of the liveness and readiness endpoints.
type healthStatus struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	StoreReady    bool    `json:"store_ready"`
	Records       int     `json:"records,omitempty"`
}

// HealthLive reports process liveness. It succeeds as soon as the HTTP
// server is up, regardless of whether a snapshot has been ingested.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, healthStatus{
		Status:        "alive",
		UptimeSeconds: time.Since(h.start).Seconds(),
		StoreReady:    h.store.Ready(),
	}, models.Metadata{Timestamp: time.Now().UTC()})
}

// HealthReady reports readiness to serve data. It returns 503 until the
// first snapshot has been swapped in, so load balancers hold traffic during
// the initial ingest.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Current()
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    models.ErrCodeStoreNotReady,
			Message: "waiting for first data snapshot",
		})
		return
	}

	respondJSON(w, r, http.StatusOK, healthStatus{
		Status:        "ready",
		UptimeSeconds: time.Since(h.start).Seconds(),
		StoreReady:    true,
		Records:       snap.Len(),
	}, models.Metadata{Timestamp: time.Now().UTC()})
}
