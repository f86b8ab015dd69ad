package pipecanvas

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/event"
	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/history"
	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/observability"
	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/sched"
)

// ValidationReport is the validator's verdict on a submitted pipeline.
type ValidationReport struct {
	NumNodes int  `json:"num_nodes"`
	NumEdges int  `json:"num_edges"`
	IsDAG    bool `json:"is_dag"`
}

// Validator checks a pipeline with an external service.
// Implemented by bridge.Client.
type Validator interface {
	Validate(ctx context.Context, s GraphState) (ValidationReport, error)
}

// Editor owns the canonical graph state and its history, and exposes
// the discrete operations the command layer and the reconciliation
// layer dispatch into. All methods are expected to run on a single
// event-loop goroutine (see package sched).
//
// Example:
//
//	ed := pipecanvas.NewEditor(
//	    pipecanvas.WithMaxHistory(100),
//	    pipecanvas.WithValidator(bridge.NewClient("http://localhost:8000")),
//	)
//	node, _ := ed.AddNode(pipecanvas.TypeInput, pipecanvas.Position{X: 100, Y: 80})
type Editor struct {
	store     *history.Store[GraphState]
	types     *TypeRegistry
	notifier  *event.Notifier
	validator Validator
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	scheduler sched.Scheduler
}

// NewEditor creates an editor with an empty graph. Configure it with
// functional options; every option has a workable default.
func NewEditor(opts ...Option) *Editor {
	cfg := defaultEditorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ed := &Editor{
		types:     cfg.types,
		notifier:  cfg.notifier,
		validator: cfg.validator,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
		scheduler: cfg.scheduler,
	}
	ed.store = history.New(cfg.initial).
		WithMaxSize(cfg.maxHistory).
		WithEquality(GraphState.Equal).
		WithScheduler(cfg.scheduler)
	return ed
}

// State returns the current canonical snapshot.
func (e *Editor) State() GraphState { return e.store.State() }

// OnChange registers a listener for canonical state transitions,
// including those caused by undo/redo.
func (e *Editor) OnChange(fn func(GraphState, history.Cause)) {
	e.store.OnChange(history.Listener[GraphState](fn))
}

// NodeTypes returns the node-type registry.
func (e *Editor) NodeTypes() *TypeRegistry { return e.types }

// Notifier returns the user-notice channel.
func (e *Editor) Notifier() *event.Notifier { return e.notifier }

// Scheduler returns the scheduler the editor defers guard clears on.
func (e *Editor) Scheduler() sched.Scheduler { return e.scheduler }

// AddNode creates a node of the given registered type at pos, seeded
// with the type's default data. Returns ErrUnknownNodeType for tags
// absent from the registry.
func (e *Editor) AddNode(tag string, pos Position) (Node, error) {
	typ, ok := e.types.Get(tag)
	if !ok {
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownNodeType, tag)
	}

	var created Node
	e.apply("add_node", func(s GraphState) GraphState {
		next := AddNode(s, tag, pos, typ.DefaultData)
		created = next.Nodes[len(next.Nodes)-1]
		return next
	})
	return created, nil
}

// Connect creates an edge between two handles. Handle membership is
// advisory at connect time: unknown nodes or handles are logged but do
// not block the connection, and handles that later disappear leave the
// edge dangling rather than auto-pruned.
func (e *Editor) Connect(source, sourceHandle, target, targetHandle string) Edge {
	e.warnUnknownHandle(source, sourceHandle, DirectionOut)
	e.warnUnknownHandle(target, targetHandle, DirectionIn)

	var created Edge
	e.apply("connect", func(s GraphState) GraphState {
		next := AddEdge(s, source, sourceHandle, target, targetHandle)
		created = next.Edges[len(next.Edges)-1]
		return next
	})
	return created
}

// RemoveNodes deletes the named nodes and every edge touching them.
// Unknown ids are ignored.
func (e *Editor) RemoveNodes(ids ...string) {
	e.apply("remove_nodes", func(s GraphState) GraphState {
		return RemoveNodes(s, ids...)
	})
}

// RemoveEdges deletes the named edges. Unknown ids are ignored.
func (e *Editor) RemoveEdges(ids ...string) {
	e.apply("remove_edges", func(s GraphState) GraphState {
		return RemoveEdges(s, ids...)
	})
}

// PatchNodeData shallow-merges partial into a node's data.
// No-op for unknown ids.
func (e *Editor) PatchNodeData(id string, partial map[string]any) {
	e.apply("patch_node_data", func(s GraphState) GraphState {
		return PatchNodeData(s, id, partial)
	})
}

// MoveNodes commits settled positions for the named nodes as a single
// history entry. Called by the reconciliation layer at drag end.
func (e *Editor) MoveNodes(positions map[string]Position) {
	e.apply("move_nodes", func(s GraphState) GraphState {
		return MoveNodes(s, positions)
	})
}

// Undo steps the canonical state back one entry.
// Returns false at the beginning of history.
func (e *Editor) Undo() bool {
	ok := e.store.Undo()
	observability.LogHistoryNav(e.logger, "undo", ok, e.store.Index())
	e.metrics.RecordHistoryNav(context.Background(), "undo", ok)
	return ok
}

// Redo steps the canonical state forward one entry.
// Returns false at the tip.
func (e *Editor) Redo() bool {
	ok := e.store.Redo()
	observability.LogHistoryNav(e.logger, "redo", ok, e.store.Index())
	e.metrics.RecordHistoryNav(context.Background(), "redo", ok)
	return ok
}

// ClearHistory collapses history to the editor's original initial
// state.
func (e *Editor) ClearHistory() {
	e.store.Clear()
	observability.LogHistoryNav(e.logger, "clear", true, 0)
}

// CanUndo reports whether Undo would move the cursor.
func (e *Editor) CanUndo() bool { return e.store.CanUndo() }

// CanRedo reports whether Redo would move the cursor.
func (e *Editor) CanRedo() bool { return e.store.CanRedo() }

// HistorySize returns the number of retained history entries.
func (e *Editor) HistorySize() int { return e.store.Len() }

// HistoryIndex returns the history cursor position.
func (e *Editor) HistoryIndex() int { return e.store.Index() }

// Handles returns a node's current handle list: static per type, or
// freshly derived from content for content-driven types.
func (e *Editor) Handles(nodeID string) ([]Handle, error) {
	node, ok := e.State().Node(nodeID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, nodeID)
	}
	typ, ok := e.types.Get(node.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, node.Type)
	}
	return typ.HandlesFor(node), nil
}

// Validate submits the current pipeline to the external validator and
// reports the verdict as a user notice. Any failure surfaces as one
// generic notice; local state is never touched.
func (e *Editor) Validate(ctx context.Context) (ValidationReport, error) {
	if e.validator == nil {
		return ValidationReport{}, ErrNoValidator
	}

	state := e.State()
	observability.LogValidateStart(e.logger, len(state.Nodes), len(state.Edges))
	ctx, span := observability.StartValidateSpan(ctx, len(state.Nodes), len(state.Edges))
	done := observability.TimedOperation()

	report, err := e.validator.Validate(ctx, state)

	elapsed := done()
	observability.EndSpanWithError(span, err)
	e.metrics.RecordValidate(ctx, durationMs(elapsed), err)

	if err != nil {
		observability.LogValidateError(e.logger, err, elapsed)
		e.notify(event.LevelError, "Pipeline validation failed")
		return ValidationReport{}, err
	}

	observability.LogValidateComplete(e.logger, report.IsDAG, elapsed)
	e.notify(event.LevelInfo, fmt.Sprintf(
		"Pipeline has %d nodes and %d edges. DAG: %t",
		report.NumNodes, report.NumEdges, report.IsDAG))
	return report, nil
}

// apply routes an edit through history, logging whether it committed.
func (e *Editor) apply(op string, fn func(GraphState) GraphState) bool {
	changed := e.store.Update(fn)
	if !changed {
		observability.LogEditIgnored(e.logger, op)
		return false
	}
	state := e.State()
	observability.LogEditApplied(e.logger, op, len(state.Nodes), len(state.Edges), e.store.Len())
	e.metrics.RecordEdit(context.Background(), op)
	e.metrics.RecordHistoryDepth(context.Background(), e.store.Len())
	return true
}

func durationMs(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func (e *Editor) notify(level event.Level, message string) {
	if e.notifier == nil {
		return
	}
	e.notifier.Publish(level, message)
	e.metrics.RecordNotice(context.Background(), string(level))
}

func (e *Editor) warnUnknownHandle(nodeID, handleID string, dir Direction) {
	if e.logger == nil {
		return
	}
	handles, err := e.Handles(nodeID)
	if err != nil {
		e.logger.Warn("connecting to unknown node",
			slog.String("node_id", nodeID))
		return
	}
	for _, h := range handles {
		if h.ID == handleID && h.Direction == dir {
			return
		}
	}
	e.logger.Warn("connecting to handle outside the node's derived set",
		slog.String("node_id", nodeID),
		slog.String("handle_id", handleID),
	)
}
