package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records editor engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when
// disabled.
type MetricsRecorder interface {
	// RecordEdit records a committed structural edit by operation name.
	RecordEdit(ctx context.Context, op string)

	// RecordHistoryNav records an undo/redo attempt and whether the
	// cursor actually moved.
	RecordHistoryNav(ctx context.Context, direction string, moved bool)

	// RecordHistoryDepth records the history length after a change.
	RecordHistoryDepth(ctx context.Context, depth int)

	// RecordValidate records a validator round trip.
	RecordValidate(ctx context.Context, duration time.Duration, err error)

	// RecordNotice records a published user notice by level.
	RecordNotice(ctx context.Context, level string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	edits           metric.Int64Counter
	historyNavs     metric.Int64Counter
	historyDepth    metric.Int64Histogram
	validateRuns    metric.Int64Counter
	validateLatency metric.Float64Histogram
	notices         metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("pipecanvas")

	edits, err := meter.Int64Counter("pipecanvas.edits",
		metric.WithDescription("Number of committed structural edits"),
	)
	if err != nil {
		return nil, err
	}

	historyNavs, err := meter.Int64Counter("pipecanvas.history.navigations",
		metric.WithDescription("Number of undo/redo attempts"),
	)
	if err != nil {
		return nil, err
	}

	historyDepth, err := meter.Int64Histogram("pipecanvas.history.depth",
		metric.WithDescription("History length observed after each change"),
	)
	if err != nil {
		return nil, err
	}

	validateRuns, err := meter.Int64Counter("pipecanvas.validate.runs",
		metric.WithDescription("Number of validator round trips"),
	)
	if err != nil {
		return nil, err
	}

	validateLatency, err := meter.Float64Histogram("pipecanvas.validate.latency_ms",
		metric.WithDescription("Validator round-trip latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	notices, err := meter.Int64Counter("pipecanvas.notices",
		metric.WithDescription("Number of published user notices"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		edits:           edits,
		historyNavs:     historyNavs,
		historyDepth:    historyDepth,
		validateRuns:    validateRuns,
		validateLatency: validateLatency,
		notices:         notices,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEdit records a committed structural edit.
func (m *otelMetrics) RecordEdit(ctx context.Context, op string) {
	m.edits.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// RecordHistoryNav records an undo/redo attempt.
func (m *otelMetrics) RecordHistoryNav(ctx context.Context, direction string, moved bool) {
	m.historyNavs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("direction", direction),
		attribute.Bool("moved", moved),
	))
}

// RecordHistoryDepth records the history length.
func (m *otelMetrics) RecordHistoryDepth(ctx context.Context, depth int) {
	m.historyDepth.Record(ctx, int64(depth))
}

// RecordValidate records a validator round trip.
func (m *otelMetrics) RecordValidate(ctx context.Context, duration time.Duration, err error) {
	m.validateRuns.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))
	m.validateLatency.Record(ctx, float64(duration.Milliseconds()))
}

// RecordNotice records a published notice.
func (m *otelMetrics) RecordNotice(ctx context.Context, level string) {
	m.notices.Add(ctx, 1, metric.WithAttributes(attribute.String("level", level)))
}
