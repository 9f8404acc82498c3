package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Span attribute keys.
const (
	AttrRunID    = attribute.Key("kara.run.id")
	AttrRoutine  = attribute.Key("kara.routine")
	AttrActions  = attribute.Key("kara.actions")
	AttrReplayed = attribute.Key("kara.replayed")
	AttrPhase    = attribute.Key("kara.phase")
)

// NoopTracer returns a tracer that records nothing.
func NoopTracer() trace.Tracer {
	return tracenoop.NewTracerProvider().Tracer("")
}

// StartSpan starts an internal span. A nil tracer yields a no-op span.
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = NoopTracer()
	}
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan records err on span, sets its status and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
