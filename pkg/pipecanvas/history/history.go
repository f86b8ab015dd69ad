// Package history provides a generic bounded undo/redo store.
//
// The store owns an ordered sequence of immutable snapshots plus a
// cursor. New snapshots appended while the cursor is behind the tip
// discard the redo branch (classic linear-undo semantics, no redo
// tree). The store knows nothing about what it holds; deep equality
// between candidate and tip gates history growth so idempotent writes
// never create entries.
package history

import (
	"reflect"
	"sync"

	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/sched"
)

// DefaultMaxSize is the default history depth before eviction.
const DefaultMaxSize = 50

// Cause identifies what kind of transition produced a state change.
type Cause string

// Causes passed to OnChange listeners.
const (
	CauseSet   Cause = "set"
	CauseUndo  Cause = "undo"
	CauseRedo  Cause = "redo"
	CauseClear Cause = "clear"
)

// Listener observes state changes. It is called synchronously after
// the store's cursor has moved, with the new current state.
type Listener[S any] func(state S, cause Cause)

// Store is a bounded undo/redo container for snapshots of type S.
// Use New to create a store, then chain With* calls to configure it
// before the first Set.
//
// Store is not safe for concurrent use; it is designed to live on a
// single event-loop goroutine (see package sched).
//
// Example:
//
//	store := history.New(initial).
//	    WithMaxSize(100).
//	    WithEquality(func(a, b State) bool { return a.Equal(b) })
type Store[S any] struct {
	entries []S
	index   int
	initial S

	maxSize   int
	eq        func(a, b S) bool
	scheduler sched.Scheduler

	// applying suppresses Set/Update while an undo/redo/clear
	// transition is being delivered to listeners. Cleared on the next
	// scheduler tick so every synchronous downstream reaction to the
	// transition is covered.
	applying bool

	mu        sync.Mutex
	listeners []Listener[S]
}

// New creates a store seeded with a single entry holding initial.
// Defaults: max size DefaultMaxSize, reflect.DeepEqual equality, and
// an Immediate scheduler.
func New[S any](initial S) *Store[S] {
	return &Store[S]{
		entries:   []S{initial},
		index:     0,
		initial:   initial,
		maxSize:   DefaultMaxSize,
		eq:        func(a, b S) bool { return reflect.DeepEqual(a, b) },
		scheduler: sched.Immediate{},
	}
}

// WithMaxSize sets the maximum number of retained entries.
// Values below 1 are ignored. Returns the store for chaining.
func (s *Store[S]) WithMaxSize(n int) *Store[S] {
	if n >= 1 {
		s.maxSize = n
	}
	return s
}

// WithEquality sets the equality function that gates history growth.
// Returns the store for chaining.
func (s *Store[S]) WithEquality(eq func(a, b S) bool) *Store[S] {
	if eq != nil {
		s.eq = eq
	}
	return s
}

// WithScheduler sets the scheduler used to clear the re-entrancy guard
// after undo/redo/clear transitions. Returns the store for chaining.
func (s *Store[S]) WithScheduler(d sched.Scheduler) *Store[S] {
	if d != nil {
		s.scheduler = d
	}
	return s
}

// OnChange registers a listener for state transitions.
// Returns the store for chaining.
func (s *Store[S]) OnChange(fn Listener[S]) *Store[S] {
	if fn != nil {
		s.mu.Lock()
		s.listeners = append(s.listeners, fn)
		s.mu.Unlock()
	}
	return s
}

// State returns the current snapshot.
func (s *Store[S]) State() S {
	return s.entries[s.index]
}

// CanUndo reports whether Undo would move the cursor.
func (s *Store[S]) CanUndo() bool { return s.index > 0 }

// CanRedo reports whether Redo would move the cursor.
func (s *Store[S]) CanRedo() bool { return s.index < len(s.entries)-1 }

// Len returns the number of retained entries.
func (s *Store[S]) Len() int { return len(s.entries) }

// Index returns the cursor position.
func (s *Store[S]) Index() int { return s.index }

// Set appends v as the new tip. Returns false without touching history
// when v equals the current tip, or when an undo/redo transition is
// still being applied (the guard window).
func (s *Store[S]) Set(v S) bool {
	return s.push(v)
}

// Update computes the new tip by applying fn to the current tip, then
// behaves like Set.
func (s *Store[S]) Update(fn func(S) S) bool {
	return s.push(fn(s.State()))
}

func (s *Store[S]) push(candidate S) bool {
	if s.applying {
		return false
	}
	if s.eq(candidate, s.State()) {
		return false
	}

	// Discard the redo branch, append, advance.
	s.entries = append(s.entries[:s.index+1], candidate)
	s.index = len(s.entries) - 1

	// Evict the oldest entry; the cursor keeps pointing at the tip.
	if len(s.entries) > s.maxSize {
		s.entries = s.entries[1:]
		s.index = len(s.entries) - 1
	}

	s.notify(CauseSet)
	return true
}

// Undo moves the cursor back one entry. Returns false at index 0.
func (s *Store[S]) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	s.index--
	s.applyTransition(CauseUndo)
	return true
}

// Redo moves the cursor forward one entry. Returns false at the tip.
func (s *Store[S]) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	s.index++
	s.applyTransition(CauseRedo)
	return true
}

// Clear collapses history to a single entry equal to the original
// initial value supplied at construction, regardless of edits since.
func (s *Store[S]) Clear() {
	s.entries = []S{s.initial}
	s.index = 0
	s.applyTransition(CauseClear)
}

// applyTransition delivers an index change to listeners with the guard
// raised, then schedules the guard to clear on the next tick. Any Set
// fired synchronously by a listener reacting to this transition is a
// no-op; a Set deferred past the tick goes through normally.
func (s *Store[S]) applyTransition(cause Cause) {
	s.applying = true
	s.notify(cause)
	s.scheduler.Defer(func() {
		s.applying = false
	})
}

func (s *Store[S]) notify(cause Cause) {
	s.mu.Lock()
	listeners := make([]Listener[S], len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	state := s.State()
	for _, fn := range listeners {
		fn(state, cause)
	}
}
