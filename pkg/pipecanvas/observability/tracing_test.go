package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory
// span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("pipecanvas")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartValidateSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	t.Run("creates span with correct name and attributes", func(t *testing.T) {
		ctx := context.Background()
		_, span := StartValidateSpan(ctx, 4, 3)
		require.NotNil(t, span)

		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "pipecanvas.validate", s.Name)

		var nodes, edges int64
		for _, attr := range s.Attributes {
			switch attr.Key {
			case "pipeline.nodes":
				nodes = attr.Value.AsInt64()
			case "pipeline.edges":
				edges = attr.Value.AsInt64()
			}
		}
		assert.Equal(t, int64(4), nodes)
		assert.Equal(t, int64(3), edges)
	})

	t.Run("returns context with span", func(t *testing.T) {
		exporter.Reset()

		ctx, span := StartValidateSpan(context.Background(), 1, 0)
		require.NotNil(t, ctx)

		AddSpanEvent(ctx, "request sent", attribute.String("url", "http://localhost:8000"))
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		require.Len(t, spans[0].Events, 1)
		assert.Equal(t, "request sent", spans[0].Events[0].Name)
	})
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	t.Run("records error status", func(t *testing.T) {
		_, span := StartValidateSpan(context.Background(), 2, 1)
		EndSpanWithError(span, errors.New("validator unreachable"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		require.Len(t, spans[0].Events, 1)
		assert.Equal(t, "exception", spans[0].Events[0].Name)
	})

	t.Run("records ok status", func(t *testing.T) {
		exporter.Reset()

		_, span := StartValidateSpan(context.Background(), 2, 1)
		EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("tolerates nil span", func(t *testing.T) {
		EndSpanWithError(nil, errors.New("ignored"))
	})
}
