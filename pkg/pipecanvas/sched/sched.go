// Package sched provides the cooperative scheduling primitives the
// editor engine runs on: an event loop that processes handlers one at
// a time, and a deferred-task queue that drains after each handler's
// synchronous effects have flushed.
//
// The engine's re-entrancy guards rely on "next tick" semantics: a
// guard raised during a state transition must stay raised for every
// synchronous downstream reaction to that transition, and clear only
// once the current handler (and nothing else) has run to completion.
// Defer gives exactly that: tasks deferred during a handler run after
// the handler returns and before the next handler starts.
package sched

import "sync"

// Scheduler schedules a function to run on the next tick.
type Scheduler interface {
	// Defer enqueues fn to run after the current handler's synchronous
	// effects have flushed. Ordering between deferred tasks is FIFO.
	Defer(fn func())
}

// Immediate is a degenerate Scheduler that runs deferred tasks
// synchronously at the point of the Defer call. It is the default for
// callers that do not drive an event loop; guard windows collapse to
// "after the current call stack unwinds to the Defer site".
type Immediate struct{}

// Defer runs fn immediately.
func (Immediate) Defer(fn func()) { fn() }

// Manual is a Scheduler for tests. Deferred tasks accumulate until
// Flush is called explicitly, making tick boundaries visible to the
// test.
type Manual struct {
	mu    sync.Mutex
	tasks []func()
}

// Defer enqueues fn until the next Flush.
func (m *Manual) Defer(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, fn)
}

// Pending returns the number of tasks waiting for Flush.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Flush runs all pending tasks in FIFO order, including tasks deferred
// by the tasks themselves. Returns the number of tasks run.
func (m *Manual) Flush() int {
	count := 0
	for {
		m.mu.Lock()
		if len(m.tasks) == 0 {
			m.mu.Unlock()
			return count
		}
		fn := m.tasks[0]
		m.tasks = m.tasks[1:]
		m.mu.Unlock()

		fn()
		count++
	}
}
