package dispatcher

import (
	"context"
	"sync"

	"github.com/haenin/hr-eapproval/internal/domain/event"
)

// Queue buffers events produced inside a transaction. The caller flushes it
// only after the transaction commits; on rollback the buffer is discarded, so
// every observed event corresponds to durably committed state.
type Queue struct {
	mu     sync.Mutex
	events []*event.Event
}

// NewQueue creates an empty commit-phase queue
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue buffers an event until Flush or Discard
func (q *Queue) Enqueue(evt *event.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, evt)
}

// Len returns the number of buffered events
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Flush drains the buffer into the dispatcher asynchronously, in enqueue
// order. Call only after the enclosing transaction committed.
func (q *Queue) Flush(ctx context.Context, d Dispatcher) {
	q.mu.Lock()
	events := q.events
	q.events = nil
	q.mu.Unlock()

	for _, evt := range events {
		d.DispatchAsync(ctx, evt)
	}
}

// Discard drops all buffered events without delivering them
func (q *Queue) Discard() {
	q.mu.Lock()
	q.events = nil
	q.mu.Unlock()
}
