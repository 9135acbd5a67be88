// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Ingest   IngestConfig   `koanf:"ingest"`
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Geo      GeoConfig      `koanf:"geo"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// IngestConfig controls where the incident extract comes from and how it is
// refreshed. Exactly one of SourceURL or SourcePath should be set; when both
// are set the local path wins (useful for development against a fixed file).
//
// Environment Variables:
//   - INGEST_SOURCE_URL: HTTP(S) URL of the CSV extract
//   - INGEST_SOURCE_PATH: local CSV file path (overrides the URL)
//   - INGEST_REFRESH_INTERVAL: periodic re-ingest interval, 0 disables (default: 24h)
//   - INGEST_FETCH_TIMEOUT: extract download timeout (default: 5m)
type IngestConfig struct {
	SourceURL       string        `koanf:"source_url"`
	SourcePath      string        `koanf:"source_path"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	FetchTimeout    time.Duration `koanf:"fetch_timeout"`

	// Circuit breaker settings for the remote fetch.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

// DatabaseConfig holds DuckDB persistence settings. The persisted store is an
// optimization - when Path is empty every start re-ingests from the source.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use runtime.NumCPU()
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds response shaping and rate limiting settings.
type APIConfig struct {
	MaxTableRows    int           `koanf:"max_table_rows"`
	MaxMapPoints    int           `koanf:"max_map_points"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// GeoConfig bounds the coordinates accepted during ingestion. Rows whose
// coordinates fall outside the box are rejected with a typed reason.
// Defaults cover the Seattle metro extract this service was built for.
type GeoConfig struct {
	MinLat float64 `koanf:"min_lat"`
	MaxLat float64 `koanf:"max_lat"`
	MinLon float64 `koanf:"min_lon"`
	MaxLon float64 `koanf:"max_lon"`
}

// LoggingConfig holds log level and output format settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", c.Server.Timeout)
	}

	if c.Ingest.SourceURL == "" && c.Ingest.SourcePath == "" && c.Database.Path == "" {
		return fmt.Errorf("no data source configured: set ingest.source_url, ingest.source_path, or database.path")
	}
	if c.Ingest.FetchTimeout <= 0 {
		return fmt.Errorf("ingest fetch timeout must be positive, got %s", c.Ingest.FetchTimeout)
	}
	if c.Ingest.RefreshInterval < 0 {
		return fmt.Errorf("ingest refresh interval must not be negative, got %s", c.Ingest.RefreshInterval)
	}

	if c.API.MaxTableRows <= 0 {
		return fmt.Errorf("api max_table_rows must be positive, got %d", c.API.MaxTableRows)
	}
	if c.API.MaxMapPoints <= 0 {
		return fmt.Errorf("api max_map_points must be positive, got %d", c.API.MaxMapPoints)
	}
	if c.API.RateLimitReqs < 0 {
		return fmt.Errorf("api rate_limit_reqs must not be negative, got %d", c.API.RateLimitReqs)
	}

	if c.Geo.MinLat >= c.Geo.MaxLat {
		return fmt.Errorf("geo bounding box: min_lat %.4f must be below max_lat %.4f", c.Geo.MinLat, c.Geo.MaxLat)
	}
	if c.Geo.MinLon >= c.Geo.MaxLon {
		return fmt.Errorf("geo bounding box: min_lon %.4f must be below max_lon %.4f", c.Geo.MinLon, c.Geo.MaxLon)
	}
	if c.Geo.MinLat < -90 || c.Geo.MaxLat > 90 {
		return fmt.Errorf("geo bounding box: latitude range [%.4f, %.4f] outside [-90, 90]", c.Geo.MinLat, c.Geo.MaxLat)
	}
	if c.Geo.MinLon < -180 || c.Geo.MaxLon > 180 {
		return fmt.Errorf("geo bounding box: longitude range [%.4f, %.4f] outside [-180, 180]", c.Geo.MinLon, c.Geo.MaxLon)
	}

	if c.Database.Threads < 0 {
		return fmt.Errorf("database threads must not be negative, got %d", c.Database.Threads)
	}

	return nil
}

// Addr returns the host:port listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
