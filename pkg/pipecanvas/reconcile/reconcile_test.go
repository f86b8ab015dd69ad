package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas"
	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/sched"
)

// fakeMirror is a view-layer stand-in. Tests mutate its state directly
// to simulate in-gesture changes.
type fakeMirror struct {
	state    pipecanvas.GraphState
	setCalls int
	onSet    func()
}

func (m *fakeMirror) SetGraph(s pipecanvas.GraphState) {
	m.state = s
	m.setCalls++
	if m.onSet != nil {
		m.onSet()
	}
}

func (m *fakeMirror) Graph() pipecanvas.GraphState { return m.state }

// newRig builds an editor, mirror, and controller sharing one manual
// scheduler, with the initial push already flushed.
func newRig(t *testing.T) (*pipecanvas.Editor, *fakeMirror, *Controller, *sched.Manual) {
	t.Helper()
	ticker := &sched.Manual{}
	ed := pipecanvas.NewEditor(pipecanvas.WithScheduler(ticker))
	mirror := &fakeMirror{}
	c := NewController(ed, mirror, WithScheduler(ticker))
	ticker.Flush()
	require.Equal(t, PhaseIdle, c.Phase())
	return ed, mirror, c, ticker
}

// TestNewController_PushesInitialState tests the initial overwrite.
func TestNewController_PushesInitialState(t *testing.T) {
	_, mirror, _, _ := newRig(t)
	assert.Equal(t, 1, mirror.setCalls)
	assert.Empty(t, mirror.state.Nodes)
}

// TestController_CanonicalChange_OverwritesMirror tests the
// canonical-to-mirror direction for edits and undo/redo.
func TestController_CanonicalChange_OverwritesMirror(t *testing.T) {
	ed, mirror, _, ticker := newRig(t)

	ed.AddNode(pipecanvas.TypeInput, pipecanvas.Position{X: 7})
	ticker.Flush()
	require.Len(t, mirror.state.Nodes, 1)

	ed.Undo()
	ticker.Flush()
	assert.Empty(t, mirror.state.Nodes)

	ed.Redo()
	ticker.Flush()
	assert.Len(t, mirror.state.Nodes, 1)
}

// TestController_DragGesture_OneHistoryEntry tests commit-on-settle: a
// drag through 50 intermediate mirror frames produces exactly one
// history entry holding the release-time position.
func TestController_DragGesture_OneHistoryEntry(t *testing.T) {
	ed, mirror, c, ticker := newRig(t)
	node, _ := ed.AddNode(pipecanvas.TypeInput, pipecanvas.Position{})
	ticker.Flush()
	sizeBefore := ed.HistorySize()

	// 50 intermediate frames mutate only the mirror.
	for i := 1; i <= 50; i++ {
		mirror.state.Nodes[0].Position = pipecanvas.Position{X: float64(i), Y: float64(i * 2)}
	}
	c.NodeDragStop(node.ID)

	// Nothing committed within the same synchronous pass.
	assert.Equal(t, sizeBefore, ed.HistorySize())

	ticker.Flush()

	assert.Equal(t, sizeBefore+1, ed.HistorySize())
	got, _ := ed.State().Node(node.ID)
	assert.Equal(t, pipecanvas.Position{X: 50, Y: 100}, got.Position)
	assert.Equal(t, PhaseIdle, c.Phase())
}

// TestController_DragStop_NoMovement_NoEntry tests that settling in
// the original position creates no history entry.
func TestController_DragStop_NoMovement_NoEntry(t *testing.T) {
	ed, _, c, ticker := newRig(t)
	node, _ := ed.AddNode(pipecanvas.TypeInput, pipecanvas.Position{X: 3})
	ticker.Flush()
	sizeBefore := ed.HistorySize()

	c.NodeDragStop(node.ID)
	ticker.Flush()

	assert.Equal(t, sizeBefore, ed.HistorySize())
}

// TestController_MirrorRemoval_CommitsImmediately tests the discrete
// removal path, including the edge cascade realignment.
func TestController_MirrorRemoval_CommitsImmediately(t *testing.T) {
	ed, mirror, c, ticker := newRig(t)
	in, _ := ed.AddNode(pipecanvas.TypeInput, pipecanvas.Position{})
	out, _ := ed.AddNode(pipecanvas.TypeOutput, pipecanvas.Position{})
	ed.Connect(in.ID, "value", out.ID, "value")
	ticker.Flush()

	c.MirrorNodesRemoved(in.ID)

	// Committed synchronously, no tick needed.
	state := ed.State()
	require.Len(t, state.Nodes, 1)
	assert.Empty(t, state.Edges)

	// The realignment push removed the cascaded edge from the mirror.
	assert.Len(t, mirror.state.Nodes, 1)
	assert.Empty(t, mirror.state.Edges)
	ticker.Flush()
	assert.Equal(t, PhaseIdle, c.Phase())
}

// TestController_MirrorEdgeRemoval tests discrete edge removal.
func TestController_MirrorEdgeRemoval(t *testing.T) {
	ed, mirror, c, ticker := newRig(t)
	in, _ := ed.AddNode(pipecanvas.TypeInput, pipecanvas.Position{})
	out, _ := ed.AddNode(pipecanvas.TypeOutput, pipecanvas.Position{})
	edge := ed.Connect(in.ID, "value", out.ID, "value")
	ticker.Flush()

	c.MirrorEdgesRemoved(edge.ID)

	assert.Empty(t, ed.State().Edges)
	assert.Empty(t, mirror.state.Edges)
	ticker.Flush()
}

// TestController_EchoDuringHistoryApply_Dropped tests loop prevention:
// mirror activity fired synchronously by the controller's own
// canonical push is dropped instead of committed.
func TestController_EchoDuringHistoryApply_Dropped(t *testing.T) {
	ed, mirror, c, ticker := newRig(t)
	node, _ := ed.AddNode(pipecanvas.TypeInput, pipecanvas.Position{})
	ticker.Flush()

	echoed := false
	mirror.onSet = func() {
		if !echoed {
			echoed = true
			// The view layer reporting the removal it just received.
			c.MirrorNodesRemoved(node.ID)
			c.NodeDragStop(node.ID)
		}
	}

	ed.Undo()
	require.True(t, echoed)
	ticker.Flush()

	// The undone state survived; the echo did not re-commit anything.
	assert.Empty(t, ed.State().Nodes)
	assert.Equal(t, PhaseIdle, c.Phase())
}

// TestController_PhaseString covers the phase names.
func TestController_PhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "applying-history", PhaseApplyingHistory.String())
	assert.Equal(t, "committing-mirror", PhaseCommittingMirror.String())
	assert.Equal(t, "unknown", Phase(99).String())
}
