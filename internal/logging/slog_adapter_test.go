// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSlogHandlerLevels(t *testing.T) {
	var buf bytes.Buffer

	handler := NewSlogHandlerWithLogger(zerolog.New(&buf))
	slogger := slog.New(handler)

	tests := []struct {
		name  string
		log   func()
		level string
	}{
		{"Debug", func() { slogger.Debug("debug msg") }, `"level":"debug"`},
		{"Info", func() { slogger.Info("info msg") }, `"level":"info"`},
		{"Warn", func() { slogger.Warn("warn msg") }, `"level":"warn"`},
		{"Error", func() { slogger.Error("error msg") }, `"level":"error"`},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.log()
		if !strings.Contains(buf.String(), tt.level) {
			t.Errorf("%s: expected %s in output: %s", tt.name, tt.level, buf.String())
		}
	}
}

func TestSlogHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer

	handler := NewSlogHandlerWithLogger(zerolog.New(&buf))
	slogger := slog.New(handler)

	slogger.Info("with attrs",
		slog.String("name", "ingest"),
		slog.Int("rows", 42),
		slog.Bool("ok", true),
	)

	output := buf.String()
	for _, want := range []string{`"name":"ingest"`, `"rows":42`, `"ok":true`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestSlogHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer

	handler := NewSlogHandlerWithLogger(zerolog.New(&buf))
	slogger := slog.New(handler).With(slog.String("service", "http"))

	slogger.Info("preconfigured")

	if !strings.Contains(buf.String(), `"service":"http"`) {
		t.Errorf("expected preconfigured attr in output: %s", buf.String())
	}
}

func TestSlogHandlerWithGroup(t *testing.T) {
	var buf bytes.Buffer

	handler := NewSlogHandlerWithLogger(zerolog.New(&buf))
	slogger := slog.New(handler).WithGroup("supervisor")

	slogger.Info("grouped", slog.String("state", "running"))

	if !strings.Contains(buf.String(), `"supervisor.state":"running"`) {
		t.Errorf("expected group-prefixed attr in output: %s", buf.String())
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	handler := NewSlogHandlerWithLogger(zerolog.New(nil).Level(zerolog.WarnLevel))

	if handler.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug to be disabled at warn level")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error to be enabled at warn level")
	}
}

func TestNewSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	NewSlogLogger().Info("through global")

	if !strings.Contains(buf.String(), "through global") {
		t.Errorf("expected message through global logger: %s", buf.String())
	}
}
