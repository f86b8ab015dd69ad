package observability

import (
	"context"
	"time"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordEdit does nothing.
func (NoopMetrics) RecordEdit(_ context.Context, _ string) {}

// RecordHistoryNav does nothing.
func (NoopMetrics) RecordHistoryNav(_ context.Context, _ string, _ bool) {}

// RecordHistoryDepth does nothing.
func (NoopMetrics) RecordHistoryDepth(_ context.Context, _ int) {}

// RecordValidate does nothing.
func (NoopMetrics) RecordValidate(_ context.Context, _ time.Duration, _ error) {}

// RecordNotice does nothing.
func (NoopMetrics) RecordNotice(_ context.Context, _ string) {}
