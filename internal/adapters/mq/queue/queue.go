// Package queue carries roster changes from the directory to the feed workers.
//
// The queue never blocks a producer: a roster mutation has already happened
// by the time its change is published, so a full queue drops the change
// instead of holding up the HTTP request.
package queue

import (
	"context"
	"sync"

	"github.com/okian/activities/internal/domain/model"
	"github.com/okian/activities/pkg/metrics"
)

// defaultQueueCapacity is used when no capacity option is given.
const defaultQueueCapacity = 1024

// Event is the payload flowing through the queue.
type Event = model.Change

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a change. Returns ErrFull or ErrClosed when refused.
	Enqueue(ctx context.Context, e Event) error

	// Dequeue returns the channel consumers read from.
	// It is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Event

	// Len returns the current number of queued changes.
	Len(ctx context.Context) int

	// Close stops accepting changes. Buffered changes stay readable.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events   chan Event
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan Event, q.capacity)

	metrics.UpdateFeedQueueCapacity(q.capacity)
	metrics.UpdateFeedQueueSize(0)
	return q
}

// Enqueue adds a change without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordFeedDrop("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordFeedDrop("context_cancelled")
		return err
	}

	select {
	case q.events <- e:
		metrics.RecordFeedEnqueue()
		metrics.UpdateFeedQueueSize(len(q.events))
		return nil
	default:
		metrics.RecordFeedDrop("queue_full")
		metrics.RecordErrorByComponent("feed", "queue_full")
		return ErrFull
	}
}

// Dequeue returns the shared receive channel. Several consumers may range
// over it; each change is delivered to exactly one of them.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Event {
	return q.events
}

// Len returns the current number of queued changes.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.events)
	metrics.UpdateFeedQueueSize(size)
	return size
}

// Close stops accepting changes.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.events)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
