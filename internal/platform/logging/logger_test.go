package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WarnContextAddsTraceAndErrorFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.WarnContext(ctx, "source fetch failed", "source", "mlbstats", "error", errors.New("timeout"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["source"] != "mlbstats" {
		t.Fatalf("unexpected source field: %v", fields["source"])
	}
	if fields["error"] != "timeout" {
		t.Fatalf("unexpected error field: %v", fields["error"])
	}
	if fields["trace_id"] != traceID.String() || fields["span_id"] != spanID.String() {
		t.Fatalf("missing trace fields: %v", fields)
	}
}

func TestLogger_OddArgsAndNamed(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).Named("aggregator")

	logger.Info("dangling", "only-key")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got=%d", len(entries))
	}
	if entries[0].LoggerName != "aggregator" {
		t.Fatalf("unexpected logger name %q", entries[0].LoggerName)
	}
	if _, ok := entries[0].ContextMap()["only-key"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
}

func TestNewJSONWriter_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown", "sport", "hockey")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"sport":"hockey"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"verbose": LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestLogger_TypedFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).With("component", "warmer")

	logger.Info("warmed", "date", civil.Date{Year: 2026, Month: time.March, Day: 14}, "took", 1500*time.Millisecond)

	fields := logs.All()[0].ContextMap()
	if fields["date"] != "2026-03-14" {
		t.Fatalf("expected civil date as text, got %v", fields["date"])
	}
	if fields["took"] != 1500*time.Millisecond {
		t.Fatalf("unexpected duration field: %v", fields["took"])
	}
	if fields["component"] != "warmer" {
		t.Fatalf("expected With fields to carry over, got %v", fields)
	}
}

func TestSync_OnlyOnce(t *testing.T) {
	t.Parallel()

	logger := NewNop()
	if err := logger.Sync(); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if err := logger.Sync(); err != nil {
		t.Fatalf("second sync: %v", err)
	}
}
