package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the pipecanvas tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("pipecanvas")

// StartValidateSpan starts a span for a validator round trip.
// Uses the global OTel tracer.
func StartValidateSpan(ctx context.Context, nodes, edges int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "pipecanvas.validate",
		trace.WithAttributes(
			attribute.Int("pipeline.nodes", nodes),
			attribute.Int("pipeline.edges", edges),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
