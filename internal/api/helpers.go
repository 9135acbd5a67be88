// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/watchdawg/citywatch/internal/logging"
	"github.com/watchdawg/citywatch/internal/models"
	"github.com/watchdawg/citywatch/internal/validation"
)

// sanitizeLogValue strips control characters from user input before it
// reaches the log stream, preventing log injection via crafted parameters.
func sanitizeLogValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// respondJSON writes a success envelope. Responses carry an FNV-1a ETag so
// clients can revalidate cheaply, and a short public max-age since the
// underlying snapshot only changes on ingest.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}, meta models.Metadata) {
	resp := models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	}

	body, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal response")
		respondError(w, r, http.StatusInternalServerError, &models.APIError{
			Code:    models.ErrCodeInternal,
			Message: "failed to encode response",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("ETag", generateETag(body))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to write response")
	}
}

// respondError writes an error envelope with the standard metadata block.
func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError) {
	logging.Ctx(r.Context()).Warn().
		Int("status", status).
		Str("code", apiErr.Code).
		Str("path", sanitizeLogValue(r.URL.Path)).
		Str("message", apiErr.Message).
		Msg("request failed")

	resp := models.APIResponse{
		Status:   "error",
		Error:    apiErr,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	}

	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// generateETag computes an FNV-1a hash of the response body.
func generateETag(b []byte) string {
	hash := uint32(2166136261)
	for _, c := range b {
		hash ^= uint32(c)
		hash *= 16777619
	}
	return fmt.Sprintf(`"%08x"`, hash)
}

// validateRequest runs struct validation and writes a 400 on failure,
// returning false so the handler can bail out with a bare return.
func validateRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if reqErr := validation.ValidateStruct(req); reqErr != nil {
		respondError(w, r, http.StatusBadRequest, reqErr.ToAPIError())
		return false
	}
	return true
}

// getIntParam reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func getIntParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// parseCommaSeparated splits a comma-separated parameter into trimmed items.
// Empty items are dropped, so "a,,b" yields two values and "" yields none.
func parseCommaSeparated(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
