// Package observability provides structured logging, metrics, and
// tracing for the pipeline editor engine.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// Everything is opt-in; no-op implementations cover the disabled case.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds editor session context to a logger.
// Returns a new logger with the session_id field.
func EnrichLogger(logger *slog.Logger, sessionID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("session_id", sessionID))
}

// LogEditApplied logs a committed structural edit.
func LogEditApplied(logger *slog.Logger, op string, nodes, edges, historyLen int) {
	if logger == nil {
		return
	}
	logger.Debug("edit applied",
		slog.String("op", op),
		slog.Int("nodes", nodes),
		slog.Int("edges", edges),
		slog.Int("history_len", historyLen),
	)
}

// LogEditIgnored logs an edit that changed nothing and was dropped
// before reaching history.
func LogEditIgnored(logger *slog.Logger, op string) {
	if logger == nil {
		return
	}
	logger.Debug("edit ignored, no change",
		slog.String("op", op),
	)
}

// LogHistoryNav logs an undo/redo navigation.
func LogHistoryNav(logger *slog.Logger, direction string, ok bool, index int) {
	if logger == nil {
		return
	}
	logger.Debug("history navigation",
		slog.String("direction", direction),
		slog.Bool("moved", ok),
		slog.Int("index", index),
	)
}

// LogValidateStart logs the start of a validator call.
func LogValidateStart(logger *slog.Logger, nodes, edges int) {
	if logger == nil {
		return
	}
	logger.Info("validating pipeline",
		slog.Int("nodes", nodes),
		slog.Int("edges", edges),
	)
}

// LogValidateComplete logs a successful validator response.
func LogValidateComplete(logger *slog.Logger, isDAG bool, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("validation completed",
		slog.Bool("is_dag", isDAG),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogValidateError logs a validator failure.
func LogValidateError(logger *slog.Logger, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("validation failed",
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
