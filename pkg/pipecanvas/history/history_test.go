package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/sched"
)

// doc is a minimal snapshot type for store tests.
type doc struct {
	Text string
	Rev  int
}

// TestNew verifies a fresh store holds exactly the initial entry.
func TestNew(t *testing.T) {
	store := New(doc{Text: "a"})

	assert.Equal(t, doc{Text: "a"}, store.State())
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, store.Index())
	assert.False(t, store.CanUndo())
	assert.False(t, store.CanRedo())
}

// TestStore_Set_AppendsAndAdvances tests basic history growth.
func TestStore_Set_AppendsAndAdvances(t *testing.T) {
	store := New(doc{Text: "a"})

	assert.True(t, store.Set(doc{Text: "b"}))
	assert.True(t, store.Set(doc{Text: "c"}))

	assert.Equal(t, doc{Text: "c"}, store.State())
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, 2, store.Index())
	assert.True(t, store.CanUndo())
	assert.False(t, store.CanRedo())
}

// TestStore_Set_EqualTip_NoOp tests that idempotent writes do not grow
// history.
func TestStore_Set_EqualTip_NoOp(t *testing.T) {
	store := New(doc{Text: "a"})
	store.Set(doc{Text: "b"})

	assert.False(t, store.Set(doc{Text: "b"}))
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, 1, store.Index())
}

// TestStore_Update_AppliesFunction tests functional updates against
// the current tip.
func TestStore_Update_AppliesFunction(t *testing.T) {
	store := New(doc{Rev: 1})

	assert.True(t, store.Update(func(d doc) doc {
		d.Rev++
		return d
	}))
	assert.Equal(t, 2, store.State().Rev)
}

// TestStore_UndoRedo_RoundTrip tests that undo followed by redo
// restores the exact pre-undo state.
func TestStore_UndoRedo_RoundTrip(t *testing.T) {
	store := New(doc{Text: "a"})
	store.Set(doc{Text: "b"})
	store.Set(doc{Text: "c"})
	before := store.State()

	require.True(t, store.Undo())
	assert.Equal(t, doc{Text: "b"}, store.State())

	require.True(t, store.Redo())
	assert.Equal(t, before, store.State())
}

// TestStore_Undo_AtOrigin_NoOp tests the lower boundary.
func TestStore_Undo_AtOrigin_NoOp(t *testing.T) {
	store := New(doc{Text: "a"})

	assert.False(t, store.Undo())
	assert.Equal(t, doc{Text: "a"}, store.State())
}

// TestStore_Redo_AtTip_NoOp tests the upper boundary.
func TestStore_Redo_AtTip_NoOp(t *testing.T) {
	store := New(doc{Text: "a"})
	store.Set(doc{Text: "b"})

	assert.False(t, store.Redo())
	assert.Equal(t, doc{Text: "b"}, store.State())
}

// TestStore_Set_FromMidHistory_DiscardsRedoBranch tests branch
// truncation: pushing while behind the tip drops the discarded future.
func TestStore_Set_FromMidHistory_DiscardsRedoBranch(t *testing.T) {
	store := New(doc{Text: "a"})
	store.Set(doc{Text: "b"})
	store.Set(doc{Text: "c"})
	require.True(t, store.Undo())
	require.True(t, store.CanRedo())

	assert.True(t, store.Set(doc{Text: "b2"}))

	assert.False(t, store.CanRedo())
	assert.Equal(t, 3, store.Len()) // a, b, b2
	assert.Equal(t, doc{Text: "b2"}, store.State())
	require.True(t, store.Undo())
	assert.Equal(t, doc{Text: "b"}, store.State())
}

// TestStore_Set_Eviction tests that history never exceeds the cap and
// the cursor stays on the new tip after eviction.
func TestStore_Set_Eviction(t *testing.T) {
	store := New(doc{Rev: 0}).WithMaxSize(3)

	for i := 1; i <= 5; i++ {
		store.Set(doc{Rev: i})
	}

	assert.Equal(t, 3, store.Len())
	assert.Equal(t, 2, store.Index())
	assert.Equal(t, doc{Rev: 5}, store.State())

	// The oldest surviving entry is Rev 3.
	require.True(t, store.Undo())
	require.True(t, store.Undo())
	assert.Equal(t, doc{Rev: 3}, store.State())
	assert.False(t, store.CanUndo())
}

// TestStore_Clear_RestoresOriginalInitial tests that Clear collapses
// to the construction-time initial value, not the current one.
func TestStore_Clear_RestoresOriginalInitial(t *testing.T) {
	store := New(doc{Text: "origin"})
	store.Set(doc{Text: "b"})
	store.Set(doc{Text: "c"})

	store.Clear()

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, store.Index())
	assert.Equal(t, doc{Text: "origin"}, store.State())
	assert.False(t, store.CanUndo())
	assert.False(t, store.CanRedo())
}

// TestStore_WithEquality_CustomFunction tests that a custom equality
// function gates growth.
func TestStore_WithEquality_CustomFunction(t *testing.T) {
	// Only Text participates in equality; Rev changes are invisible.
	store := New(doc{Text: "a", Rev: 1}).
		WithEquality(func(a, b doc) bool { return a.Text == b.Text })

	assert.False(t, store.Set(doc{Text: "a", Rev: 99}))
	assert.True(t, store.Set(doc{Text: "b", Rev: 99}))
}

// TestStore_OnChange_Causes tests listener delivery with transition
// causes.
func TestStore_OnChange_Causes(t *testing.T) {
	var causes []Cause
	store := New(doc{Text: "a"})
	store.OnChange(func(_ doc, cause Cause) {
		causes = append(causes, cause)
	})

	store.Set(doc{Text: "b"})
	store.Undo()
	store.Redo()
	store.Clear()

	assert.Equal(t, []Cause{CauseSet, CauseUndo, CauseRedo, CauseClear}, causes)
}

// TestStore_Guard_SuppressesSynchronousEcho tests the re-entrancy
// guard: a Set fired by a listener reacting to an undo is dropped.
func TestStore_Guard_SuppressesSynchronousEcho(t *testing.T) {
	ticker := &sched.Manual{}
	store := New(doc{Text: "a"}).WithScheduler(ticker)
	store.Set(doc{Text: "b"})

	echoed := false
	store.OnChange(func(state doc, cause Cause) {
		if cause == CauseUndo && !echoed {
			echoed = true
			// A rendering layer echoing the transition back.
			assert.False(t, store.Set(doc{Text: "echo"}))
		}
	})

	require.True(t, store.Undo())
	assert.True(t, echoed)
	assert.Equal(t, doc{Text: "a"}, store.State())

	// The guard stays raised until the next tick flushes.
	assert.False(t, store.Set(doc{Text: "late-echo"}))
	ticker.Flush()

	// After the tick, writes go through again.
	assert.True(t, store.Set(doc{Text: "c"}))
	assert.Equal(t, doc{Text: "c"}, store.State())
}

// TestStore_Guard_ClearsWithImmediateScheduler tests that the default
// scheduler clears the guard as soon as listener delivery finishes.
func TestStore_Guard_ClearsWithImmediateScheduler(t *testing.T) {
	store := New(doc{Text: "a"})
	store.Set(doc{Text: "b"})

	require.True(t, store.Undo())
	assert.True(t, store.Set(doc{Text: "c"}))
}
