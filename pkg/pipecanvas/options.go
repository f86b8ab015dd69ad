package pipecanvas

import (
	"log/slog"

	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/event"
	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/history"
	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/observability"
	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/sched"
)

// editorConfig holds construction-time editor configuration.
type editorConfig struct {
	initial    GraphState
	maxHistory int
	types      *TypeRegistry
	notifier   *event.Notifier
	validator  Validator
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
	scheduler  sched.Scheduler
}

func defaultEditorConfig() editorConfig {
	return editorConfig{
		initial:    NewGraphState(),
		maxHistory: history.DefaultMaxSize,
		types:      NewTypeRegistry(),
		notifier:   event.NewNotifier(),
		metrics:    observability.NoopMetrics{},
		scheduler:  sched.Immediate{},
	}
}

// Option configures an Editor at construction.
type Option func(*editorConfig)

// WithInitialState seeds the editor with an existing graph instead of
// an empty one. The supplied value becomes the state ClearHistory
// restores.
func WithInitialState(s GraphState) Option {
	return func(c *editorConfig) {
		c.initial = s
	}
}

// WithMaxHistory caps the undo history depth.
// Default: history.DefaultMaxSize.
func WithMaxHistory(n int) Option {
	return func(c *editorConfig) {
		if n > 0 {
			c.maxHistory = n
		}
	}
}

// WithRegistry replaces the builtin node-type registry.
func WithRegistry(r *TypeRegistry) Option {
	return func(c *editorConfig) {
		if r != nil {
			c.types = r
		}
	}
}

// WithNotifier replaces the user-notice channel.
func WithNotifier(n *event.Notifier) Option {
	return func(c *editorConfig) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithValidator wires the external pipeline validator.
// Without one, Validate returns ErrNoValidator.
func WithValidator(v Validator) Option {
	return func(c *editorConfig) {
		c.validator = v
	}
}

// WithLogger enables structured logging. A nil logger disables it.
func WithLogger(l *slog.Logger) Option {
	return func(c *editorConfig) {
		c.logger = l
	}
}

// WithMetrics wires a metrics recorder.
// Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *editorConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithScheduler sets the scheduler used for deferred guard clears.
// Pass the application's event loop (sched.Loop) in production and a
// sched.Manual in tests. Default: sched.Immediate.
func WithScheduler(d sched.Scheduler) Option {
	return func(c *editorConfig) {
		if d != nil {
			c.scheduler = d
		}
	}
}
