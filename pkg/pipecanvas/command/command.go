// Package command interprets discrete user intents against keyboard
// and pointer input and dispatches them into the editor.
//
// Precedence rules:
//   - undo/redo accelerators are intercepted even while a text field
//     has focus; every other shortcut is suppressed while typing
//   - deletion prefers selected edges: if any edge is selected only
//     edges are deleted, even when nodes also appear selected
//   - Escape closes the help overlay if open, otherwise clears the
//     selection, never both in one keystroke
package command

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas"
)

// Key names for non-character keys, following the DOM KeyboardEvent
// convention the rendering layers already speak.
const (
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
)

// KeyEvent is a normalized keyboard event. Editing reports whether a
// text or otherwise editable field currently has focus.
type KeyEvent struct {
	Key     string
	Ctrl    bool
	Meta    bool
	Shift   bool
	Alt     bool
	Editing bool
}

// accel reports whether the platform accelerator modifier is held.
func (ev KeyEvent) accel() bool { return ev.Ctrl || ev.Meta }

// Selection exposes what the view layer currently has selected.
type Selection interface {
	NodeIDs() []string
	EdgeIDs() []string
}

// Surface is the presentation the router manipulates directly: the
// help overlay and the selection highlight.
type Surface interface {
	HelpVisible() bool
	SetHelpVisible(visible bool)
	ClearSelection()
}

// Router maps input events to editor operations.
type Router struct {
	editor    *pipecanvas.Editor
	selection Selection
	surface   Surface
	logger    *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger enables structured logging of dispatched intents.
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) { r.logger = l }
}

// NewRouter creates a router over an editor, the view's selection, and
// the presentation surface.
func NewRouter(ed *pipecanvas.Editor, sel Selection, surface Surface, opts ...RouterOption) *Router {
	r := &Router{editor: ed, selection: sel, surface: surface}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandleKey routes a keyboard event. Returns true if the event was
// consumed; the caller should then suppress the platform default.
func (r *Router) HandleKey(ev KeyEvent) bool {
	key := strings.ToLower(ev.Key)

	// Global accelerators work even while typing.
	if ev.accel() && key == "z" && !ev.Shift {
		r.dispatch("undo")
		r.editor.Undo()
		return true
	}
	if ev.accel() && (key == "y" || (key == "z" && ev.Shift)) {
		r.dispatch("redo")
		r.editor.Redo()
		return true
	}

	// Everything else yields to an editing field.
	if ev.Editing {
		return false
	}

	switch ev.Key {
	case KeyDelete, KeyBackspace:
		r.dispatch("delete_selection")
		r.DeleteSelection()
		return true
	case KeyEscape:
		if r.surface.HelpVisible() {
			r.dispatch("close_help")
			r.surface.SetHelpVisible(false)
		} else {
			r.dispatch("clear_selection")
			r.surface.ClearSelection()
		}
		return true
	case "?":
		r.dispatch("toggle_help")
		r.surface.SetHelpVisible(!r.surface.HelpVisible())
		return true
	}
	return false
}

// DeleteSelection removes the current selection with edge precedence:
// selected edges are deleted alone whenever any exist; selected nodes
// are deleted (with their incident edges) only when no edge is
// selected.
func (r *Router) DeleteSelection() {
	edges := r.selection.EdgeIDs()
	if len(edges) > 0 {
		r.editor.RemoveEdges(edges...)
		return
	}
	if nodes := r.selection.NodeIDs(); len(nodes) > 0 {
		r.editor.RemoveNodes(nodes...)
	}
}

// HandleDrop instantiates a node from a drag-and-drop payload: an
// opaque type tag resolved against the registry. Unknown tags surface
// as a user notice and create nothing.
func (r *Router) HandleDrop(typeTag string, pos pipecanvas.Position) (pipecanvas.Node, bool) {
	r.dispatch("drop_node")
	node, err := r.editor.AddNode(typeTag, pos)
	if err != nil {
		if errors.Is(err, pipecanvas.ErrUnknownNodeType) {
			r.editor.Notifier().Warnf(fmt.Sprintf("Unknown node type %q", typeTag))
		}
		return pipecanvas.Node{}, false
	}
	return node, true
}

func (r *Router) dispatch(intent string) {
	if r.logger == nil {
		return
	}
	r.logger.Debug("dispatching intent", slog.String("intent", intent))
}
