// Package reconcile mediates between the canonical, history-owned
// graph state and the rendering layer's own mutable mirror.
//
// The mirror is mutated directly by drag and selection gestures for
// responsiveness. The controller applies a one-way commit-on-settle
// rule: continuous changes (dragging) fold back into canonical state
// exactly once per gesture, discrete mirror-origin removals commit
// immediately, and canonical changes overwrite the mirror wholesale.
// An explicit phase field, not ambient boolean flags, prevents the two
// directions from feeding back into each other.
package reconcile

import (
	"log/slog"

	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas"
	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/history"
	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/sched"
)

// Phase is the controller's position in the reconciliation state
// machine. Transitions are validated: a request that arrives in the
// wrong phase is an echo of the controller's own activity and is
// dropped.
type Phase int

// Controller phases.
const (
	// PhaseIdle accepts commits from the mirror.
	PhaseIdle Phase = iota
	// PhaseApplyingHistory covers a canonical-to-mirror push; mirror
	// activity observed now is an echo of that push.
	PhaseApplyingHistory
	// PhaseCommittingMirror covers a mirror-to-canonical commit; the
	// resulting canonical change must not overwrite the mirror
	// mid-commit.
	PhaseCommittingMirror
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseApplyingHistory:
		return "applying-history"
	case PhaseCommittingMirror:
		return "committing-mirror"
	default:
		return "unknown"
	}
}

// Mirror is the view layer's transient copy of the graph.
// SetGraph overwrites it wholesale; Graph reads its settled value,
// including in-gesture node positions.
type Mirror interface {
	SetGraph(s pipecanvas.GraphState)
	Graph() pipecanvas.GraphState
}

// Controller keeps one editor and one mirror in sync.
// Like the editor, it lives on a single event-loop goroutine.
type Controller struct {
	editor    *pipecanvas.Editor
	mirror    Mirror
	scheduler sched.Scheduler
	logger    *slog.Logger
	phase     Phase
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger enables structured logging of dropped echoes and phase
// activity.
func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// WithScheduler overrides the scheduler used for deferred phase resets
// and settled-position reads. Default: the editor's scheduler.
func WithScheduler(d sched.Scheduler) ControllerOption {
	return func(c *Controller) {
		if d != nil {
			c.scheduler = d
		}
	}
}

// NewController wires an editor to a mirror. The mirror is immediately
// overwritten with the canonical state, and every subsequent canonical
// change (including undo/redo) is pushed the same way.
func NewController(ed *pipecanvas.Editor, m Mirror, opts ...ControllerOption) *Controller {
	c := &Controller{
		editor:    ed,
		mirror:    m,
		scheduler: ed.Scheduler(),
		phase:     PhaseIdle,
	}
	for _, opt := range opts {
		opt(c)
	}

	ed.OnChange(func(s pipecanvas.GraphState, _ history.Cause) {
		c.pushCanonical(s)
	})
	c.pushCanonical(ed.State())
	return c
}

// Phase returns the controller's current phase.
func (c *Controller) Phase() Phase { return c.phase }

// NodeDragStop reports gesture completion for the named nodes. The
// settled mirror positions are read on the next tick — after the view
// layer's own synchronous update pass has flushed — and committed as a
// single history entry. Intermediate drag frames never touch history.
//
// With no ids, every node's mirror position is committed.
func (c *Controller) NodeDragStop(ids ...string) {
	if c.phase != PhaseIdle {
		c.dropEcho("node drag stop")
		return
	}
	c.scheduler.Defer(func() {
		c.commitPositions(ids)
	})
}

// MirrorNodesRemoved reports a library-level node deletion gesture.
// Discrete removals commit to canonical state immediately.
func (c *Controller) MirrorNodesRemoved(ids ...string) {
	c.commitMirrorChange("mirror node removal", func() {
		c.editor.RemoveNodes(ids...)
	})
}

// MirrorEdgesRemoved reports a library-level edge deletion gesture.
func (c *Controller) MirrorEdgesRemoved(ids ...string) {
	c.commitMirrorChange("mirror edge removal", func() {
		c.editor.RemoveEdges(ids...)
	})
}

// pushCanonical overwrites the mirror with canonical state, unless the
// controller is inside a commit it itself initiated.
func (c *Controller) pushCanonical(s pipecanvas.GraphState) {
	if c.phase == PhaseCommittingMirror {
		return
	}
	c.phase = PhaseApplyingHistory
	// The mirror gets its own deep copy: the view layer mutates it
	// freely during gestures, and history entries must never alias it.
	c.mirror.SetGraph(s.Clone())
	c.scheduler.Defer(func() {
		if c.phase == PhaseApplyingHistory {
			c.phase = PhaseIdle
		}
	})
}

// commitPositions reads the mirror's settled snapshot and folds the
// final positions into canonical state.
func (c *Controller) commitPositions(ids []string) {
	if c.phase != PhaseIdle {
		c.dropEcho("position commit")
		return
	}

	settled := c.mirror.Graph()
	positions := make(map[string]pipecanvas.Position)
	if len(ids) == 0 {
		for _, n := range settled.Nodes {
			positions[n.ID] = n.Position
		}
	} else {
		for _, id := range ids {
			if n, ok := settled.Node(id); ok {
				positions[id] = n.Position
			}
		}
	}

	c.commitMirrorChange("position commit", func() {
		c.editor.MoveNodes(positions)
	})
}

// commitMirrorChange runs a mirror-to-canonical commit with the phase
// guard raised, then realigns the mirror to the committed canonical
// state. The realignment covers removals the commit cascaded beyond
// what the mirror gesture itself touched (edges of a removed node).
func (c *Controller) commitMirrorChange(what string, commit func()) {
	if c.phase != PhaseIdle {
		c.dropEcho(what)
		return
	}
	c.phase = PhaseCommittingMirror
	commit()
	c.phase = PhaseIdle
	c.pushCanonical(c.editor.State())
}

func (c *Controller) dropEcho(what string) {
	if c.logger == nil {
		return
	}
	c.logger.Warn("dropping view-layer echo",
		slog.String("request", what),
		slog.String("phase", c.phase.String()),
	)
}
