package usecase

import (
	"context"

	"cloud.google.com/go/civil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var usecaseTracer = otel.Tracer("day-planner/internal/usecase")

// startUsecaseSpan only opens a child span. Background work without a parent
// (warm-up started from cron, CLI commands without tracing) gets a span that
// records nothing.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, noop.Span{}
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func dateAttr(key string, date civil.Date) attribute.KeyValue {
	return attribute.String(key, date.String())
}
