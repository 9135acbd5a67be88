// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

// Package api exposes the analytics core over HTTP. Every endpoint reads a
// single immutable store snapshot, runs the filter pipeline, and serves a
// standardized response envelope. Responses are cached per snapshot
// generation, so a swap implicitly invalidates every cached entry.
package api

import (
	"net/http"
	"time"

	"github.com/watchdawg/citywatch/internal/cache"
	"github.com/watchdawg/citywatch/internal/config"
	"github.com/watchdawg/citywatch/internal/metrics"
	"github.com/watchdawg/citywatch/internal/models"
	"github.com/watchdawg/citywatch/internal/store"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	store *store.Store
	cache *cache.Cache
	cfg   *config.Config
	start time.Time
}

// NewHandler creates the handler set backed by the given store.
func NewHandler(st *store.Store, respCache *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{
		store: st,
		cache: respCache,
		cfg:   cfg,
		start: time.Now(),
	}
}

// snapshot fetches the current store snapshot or writes a 503 error response
// and returns false. Endpoints serving snapshot data call this first.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (*store.Snapshot, bool) {
	snap, err := h.store.Current()
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    models.ErrCodeStoreNotReady,
			Message: "no data snapshot available yet",
		})
		return nil, false
	}
	return snap, true
}

// serveCached wraps the compute-and-respond cycle shared by every data
// endpoint: check the response cache, run compute on a miss, store the
// result, and respond with query timing and any disabled-predicate reason
// codes in the metadata.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, endpoint string, compute func() (interface{}, []string)) {
	key := cache.GenerateKey(endpoint, h.store.Generation(), r.URL.Query().Encode())

	if cached, ok := h.cache.Get(key); ok {
		metrics.RecordCacheLookup(true)
		entry := cached.(cachedResponse)
		respondJSON(w, r, http.StatusOK, entry.Data, models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: entry.QueryTimeMS,
			Cached:      true,
			ReasonCodes: entry.ReasonCodes,
		})
		return
	}
	metrics.RecordCacheLookup(false)

	started := time.Now()
	data, reasons := compute()
	elapsed := time.Since(started)
	metrics.RecordQuery(endpoint, elapsed, reasons)

	entry := cachedResponse{
		Data:        data,
		QueryTimeMS: elapsed.Milliseconds(),
		ReasonCodes: reasons,
	}
	h.cache.Set(key, entry)

	respondJSON(w, r, http.StatusOK, data, models.Metadata{
		Timestamp:   time.Now().UTC(),
		QueryTimeMS: entry.QueryTimeMS,
		Cached:      false,
		ReasonCodes: reasons,
	})
}

// cachedResponse is what the response cache stores per key: the computed
// payload plus the metadata fields that describe how it was produced.
type cachedResponse struct {
	Data        interface{}
	QueryTimeMS int64
	ReasonCodes []string
}
