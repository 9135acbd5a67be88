// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/watchdawg/citywatch/internal/config"
	"github.com/watchdawg/citywatch/internal/middleware"
)

// NewRouter assembles the chi router: request ID propagation, panic
// recovery, and CORS globally; rate limiting and Prometheus instrumentation
// on the data routes only, so health probes and scrapes are never throttled.
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.API.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Group(func(r chi.Router) {
			if cfg.API.RateLimitReqs > 0 {
				r.Use(httprate.LimitByIP(cfg.API.RateLimitReqs, cfg.API.RateLimitWindow))
			}
			r.Use(middleware.PrometheusMetrics)

			r.Route("/snapshot", func(r chi.Router) {
				r.Get("/", h.Snapshot)
				r.Get("/areas", h.SnapshotAreas)
				r.Get("/precincts", h.SnapshotPrecincts)
				r.Get("/sectors", h.SnapshotSectors)
			})

			r.Get("/query", h.Query)

			r.Route("/map", func(r chi.Router) {
				r.Get("/", h.MapPoints)
				r.Get("/nearby", h.MapNearby)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/kpis", h.KPIs)
				r.Get("/hourly", h.Hourly)
				r.Get("/trends", h.Trends)
				r.Get("/offenses", h.TopOffenses)
				r.Get("/drilldown", h.Drilldown)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
