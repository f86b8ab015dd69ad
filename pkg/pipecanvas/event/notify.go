// Package event provides the notification side channel between the
// engine and the presentation layer.
//
// The engine publishes short-lived notices ("pipeline is a DAG",
// "validation failed"); subscribers decide how to render and expire
// them. Publishing never blocks the engine: when a subscriber's buffer
// is full, its oldest undelivered notice is dropped to make room.
package event

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a notice for presentation.
type Level string

// Notice levels.
const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Notice is a short-lived user-facing message.
type Notice struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier fans notices out to subscribers.
type Notifier struct {
	mu     sync.Mutex
	subs   map[string]chan Notice
	closed bool
}

// NewNotifier creates a notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]chan Notice)}
}

// Publish creates a notice and delivers it to every subscriber.
// Delivery is non-blocking with drop-oldest semantics per subscriber.
// Returns the created notice.
func (n *Notifier) Publish(level Level, message string) Notice {
	notice := Notice{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		Time:    time.Now().UTC(),
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return notice
	}
	for _, ch := range n.subs {
		for {
			select {
			case ch <- notice:
			default:
				// Buffer full: drop the oldest and retry once more.
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
	return notice
}

// Infof publishes an info notice.
func (n *Notifier) Infof(message string) Notice { return n.Publish(LevelInfo, message) }

// Warnf publishes a warning notice.
func (n *Notifier) Warnf(message string) Notice { return n.Publish(LevelWarn, message) }

// Errorf publishes an error notice.
func (n *Notifier) Errorf(message string) Notice { return n.Publish(LevelError, message) }

// Subscribe registers a subscriber with the given buffer size
// (minimum 1) and returns its channel plus an unsubscribe function.
// The channel is closed on unsubscribe or Close.
func (n *Notifier) Subscribe(buffer int) (<-chan Notice, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Notice, buffer)
	id := uuid.NewString()

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	n.subs[id] = ch
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			if _, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(ch)
			}
			n.mu.Unlock()
		})
	}
	return ch, cancel
}

// Close shuts down the notifier and closes all subscriber channels.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}
