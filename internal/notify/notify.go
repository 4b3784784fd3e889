// Package notify carries user-facing notifications from the
// reconciliation engine to whatever surface displays them. Delivery is
// fire-and-forget; no acknowledgment flows back.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification for display.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is one user-visible event.
type Notification struct {
	ID       uuid.UUID `json:"id"`
	Severity Severity  `json:"severity"`
	Title    string    `json:"title"`
	Detail   string    `json:"detail"`
	At       time.Time `json:"at"`
}

// New builds a notification stamped with a fresh id and the current time.
func New(severity Severity, title, detail string) Notification {
	return Notification{
		ID:       uuid.New(),
		Severity: severity,
		Title:    title,
		Detail:   detail,
		At:       time.Now(),
	}
}

// Sink receives notifications. Publish must not block.
type Sink interface {
	Publish(n Notification)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(n Notification)

func (f SinkFunc) Publish(n Notification) { f(n) }

// Feed is a buffered channel-backed Sink for a single consumer (an SSE
// connection, a TUI). When the consumer falls behind the oldest pending
// notification is dropped: these are toasts, not an audit trail.
type Feed struct {
	ch chan Notification

	mu     sync.Mutex
	closed bool
}

// NewFeed builds a feed holding up to size pending notifications.
func NewFeed(size int) *Feed {
	return &Feed{ch: make(chan Notification, size)}
}

// Publish enqueues n without blocking.
func (f *Feed) Publish(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	for {
		select {
		case f.ch <- n:
			return
		default:
		}

		select {
		case <-f.ch:
		default:
		}
	}
}

// C is the consumer side of the feed.
func (f *Feed) C() <-chan Notification { return f.ch }

// Close stops the feed. Publish after Close is a no-op.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}
