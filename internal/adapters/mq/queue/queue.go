// Package queue holds screenings waiting for asynchronous assessment.
package queue

import (
	"context"
	"sync"

	"github.com/okian/nutriscreen/internal/domain/types"
	"github.com/okian/nutriscreen/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Screening is the payload flowing through the queue.
type Screening = types.Screening

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds a screening. It returns ErrQueueFull or ErrQueueClosed
	// instead of blocking.
	Enqueue(ctx context.Context, s Screening) error

	// Dequeue returns a channel of screenings. The channel is closed after
	// the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Screening

	// Len returns the current number of queued screenings.
	Len(ctx context.Context) int

	// Close stops accepting screenings.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	items    chan Screening
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Screening, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a screening to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Screening) error { //nolint:gocritic // hugeParam: passed by value onto the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordError("queue", "closed")
		return ErrQueueClosed
	}

	select {
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordError("queue", "context_cancelled")
		return ctx.Err()
	default:
	}

	select {
	case q.items <- s:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.items))
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordError("queue", "queue_full")
		return ErrQueueFull
	}
}

// Dequeue returns a channel receiving screenings in FIFO order.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Screening {
	out := make(chan Screening)
	go func() {
		defer close(out)
		for s := range q.items {
			select {
			case out <- s:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.items))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued screenings.
func (q *InMemoryQueue) Len(_ context.Context) int {
	n := len(q.items)
	metrics.UpdateQueueSize(n)
	return n
}

// Close stops the queue. Queued screenings are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
