package reconcile

import "github.com/pipecanvas/pipecanvas/pkg/pipecanvas"

// Draft is the two-phase buffer for text-field edits inside a node.
// Keystrokes update only the draft; the draft commits to canonical
// state in one PatchNodeData call on focus loss. Undo granularity is
// therefore one step per completed edit, not one per keystroke.
type Draft struct {
	editor *pipecanvas.Editor
	nodeID string
	key    string
	value  any
	dirty  bool
}

// NewDraft starts a draft for one data key of one node, seeded with
// the current canonical value.
func NewDraft(ed *pipecanvas.Editor, nodeID, key string) *Draft {
	d := &Draft{editor: ed, nodeID: nodeID, key: key}
	if node, ok := ed.State().Node(nodeID); ok {
		d.value = node.Data[key]
	}
	return d
}

// Value returns the draft's current value. The rendering layer (and
// live handle previews) read this, not canonical state, while the
// field has focus.
func (d *Draft) Value() any { return d.value }

// Dirty reports whether the draft differs from its seed.
func (d *Draft) Dirty() bool { return d.dirty }

// Update records a keystroke. Canonical state and history are not
// touched.
func (d *Draft) Update(v any) {
	d.value = v
	d.dirty = true
}

// Commit folds the draft into canonical state on focus loss. A clean
// draft commits nothing. The draft is reusable afterwards.
func (d *Draft) Commit() {
	if !d.dirty {
		return
	}
	d.editor.PatchNodeData(d.nodeID, map[string]any{d.key: d.value})
	d.dirty = false
}

// Discard abandons the draft and re-seeds it from canonical state.
func (d *Draft) Discard() {
	d.dirty = false
	if node, ok := d.editor.State().Node(d.nodeID); ok {
		d.value = node.Data[d.key]
	} else {
		d.value = nil
	}
}
