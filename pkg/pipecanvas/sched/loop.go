package sched

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrLoopClosed indicates Post was called after Close.
var ErrLoopClosed = errors.New("event loop is closed")

// Loop is a single-goroutine event loop. Handlers posted to the loop
// run strictly one at a time; after each handler returns, tasks
// deferred during that handler drain in FIFO order before the next
// handler starts. All editor state mutations are expected to happen on
// the loop goroutine, which is why the engine itself needs no locks.
type Loop struct {
	handlers chan func()
	done     chan struct{}
	closed   atomic.Bool

	mu       sync.Mutex
	deferred []func()
}

// NewLoop creates and starts an event loop.
// Call Close to stop it.
func NewLoop() *Loop {
	l := &Loop{
		handlers: make(chan func(), 64),
		done:     make(chan struct{}),
	}
	go l.run()
	return l
}

// Post enqueues a handler for execution on the loop goroutine.
// Returns ErrLoopClosed after Close.
func (l *Loop) Post(handler func()) error {
	if l.closed.Load() {
		return ErrLoopClosed
	}
	select {
	case l.handlers <- handler:
		return nil
	case <-l.done:
		return ErrLoopClosed
	}
}

// Defer implements Scheduler. Tasks deferred from a handler run after
// that handler returns and before the next posted handler starts.
// Tasks deferred from off-loop goroutines run after the next handler.
func (l *Loop) Defer(fn func()) {
	l.mu.Lock()
	l.deferred = append(l.deferred, fn)
	l.mu.Unlock()
}

// Close stops the loop. Pending handlers are discarded.
func (l *Loop) Close() {
	if l.closed.CompareAndSwap(false, true) {
		close(l.done)
	}
}

func (l *Loop) run() {
	for {
		select {
		case handler := <-l.handlers:
			handler()
			l.drain()
		case <-l.done:
			return
		}
	}
}

// drain runs deferred tasks until none remain. Tasks deferred while
// draining run in the same drain pass, matching microtask semantics.
func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.deferred) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.deferred[0]
		l.deferred = l.deferred[1:]
		l.mu.Unlock()

		fn()
	}
}
