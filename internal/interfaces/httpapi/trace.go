package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("day-planner/internal/interfaces/httpapi")

// startSpan opens child spans for handlers only. Helpers and untraced routes
// (health, metrics) reuse whatever span is already in ctx.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, nonRecordingSpan{parent}
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}

// nonRecordingSpan hands out the parent without letting helpers end it.
type nonRecordingSpan struct {
	trace.Span
}

func (nonRecordingSpan) End(...trace.SpanEndOption) {}
