// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by every HTTP
// endpoint, for both successful and error responses.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"total": 100, "results": [...]},
//	  "metadata": {
//	    "timestamp": "2026-08-28T12:00:00Z",
//	    "query_time_ms": 4,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "Invalid date range",
//	    "details": {"field": "start_date"}
//	  },
//	  "metadata": {"timestamp": "2026-08-28T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
//
// ReasonCodes lists filter predicates that were disabled while serving the
// request (for example POLYGON_DEGENERATE when a polygon arrived with fewer
// than three vertices). A query with disabled predicates still succeeds; the
// codes tell the client which constraints were not applied.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	ReasonCodes []string  `json:"reason_codes,omitempty"`
}

// API error codes.
const (
	// ErrCodeValidation marks invalid input parameters.
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeStoreNotReady marks requests served before the first store
	// snapshot has been built.
	ErrCodeStoreNotReady = "STORE_NOT_READY"
	// ErrCodeNotFound marks a missing resource.
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeInternal marks an unexpected server failure.
	ErrCodeInternal = "INTERNAL_ERROR"
)

// APIError is the structured error payload inside an error APIResponse.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
