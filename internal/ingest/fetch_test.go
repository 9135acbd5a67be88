// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/watchdawg/citywatch/internal/config"
)

func fetcherConfig(url string) config.IngestConfig {
	return config.IngestConfig{
		SourceURL:          url,
		FetchTimeout:       5 * time.Second,
		BreakerMaxFailures: 2,
		BreakerOpenTimeout: time.Minute,
	}
}

func TestFetchSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Report Number,Offense Date\n1,2024-01-01\n"))
	}))
	defer srv.Close()

	f := NewFetcher(fetcherConfig(srv.URL))
	body, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(body) == 0 {
		t.Error("expected non-empty body")
	}
}

func TestFetchNon200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFetcher(fetcherConfig(srv.URL))
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Error("expected error for 503 response")
	}
}

func TestFetchBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(fetcherConfig(srv.URL))

	// Two failures trip the breaker; later calls fail fast without
	// touching the upstream.
	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background()); err == nil {
			t.Fatal("expected failure")
		}
	}
	hitsBeforeOpen := hits

	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected open-circuit failure")
	}
	if hits != hitsBeforeOpen {
		t.Errorf("open breaker still hit upstream: %d -> %d", hitsBeforeOpen, hits)
	}
}
