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

// Snapshot describes the currently served store generation: record count,
// covered date range, and the ingest summary that produced it.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, r, http.StatusOK, snap.Info(), models.Metadata{Timestamp: time.Now().UTC()})
}

// SnapshotAreas lists the distinct neighborhood values in the snapshot, for
// populating filter dropdowns.
func (h *Handler) SnapshotAreas(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, r, http.StatusOK, snap.Areas(), models.Metadata{Timestamp: time.Now().UTC()})
}

// SnapshotPrecincts lists the distinct precinct values in the snapshot.
func (h *Handler) SnapshotPrecincts(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, r, http.StatusOK, snap.Precincts(), models.Metadata{Timestamp: time.Now().UTC()})
}

// SnapshotSectors lists the distinct sector values in the snapshot.
func (h *Handler) SnapshotSectors(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, r, http.StatusOK, snap.Sectors(), models.Metadata{Timestamp: time.Now().UTC()})
}
