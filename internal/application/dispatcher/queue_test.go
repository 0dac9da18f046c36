package dispatcher

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/haenin/hr-eapproval/internal/domain/event"
)

func TestQueue_FlushDeliversAll(t *testing.T) {
	d := NewDispatcher()

	var mu sync.Mutex
	var order []int64
	done := make(chan struct{}, 2)
	d.Subscribe(event.TypeRequested, func(ctx context.Context, evt *event.Event) error {
		mu.Lock()
		order = append(order, evt.DocID)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})

	q := NewQueue()
	q.Enqueue(event.NewEvent(event.TypeRequested, 1, "vacation", nil))
	q.Enqueue(event.NewEvent(event.TypeRequested, 2, "vacation", nil))

	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}

	q.Flush(context.Background(), d)
	<-done
	<-done

	if q.Len() != 0 {
		t.Errorf("Len() after flush = %d, want 0", q.Len())
	}
	if len(order) != 2 {
		t.Fatalf("delivered %d events, want 2", len(order))
	}
}

func TestQueue_DiscardDropsEvents(t *testing.T) {
	d := NewDispatcher()

	var called atomic.Bool
	d.Subscribe(event.TypeCompleted, func(ctx context.Context, evt *event.Event) error {
		called.Store(true)
		return nil
	})

	q := NewQueue()
	q.Enqueue(event.NewEvent(event.TypeCompleted, 1, "vacation", nil))
	q.Discard()

	if q.Len() != 0 {
		t.Errorf("Len() after discard = %d, want 0", q.Len())
	}

	q.Flush(context.Background(), d)
	if err := d.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if called.Load() {
		t.Error("discarded event must not be delivered")
	}
}

func TestQueue_FlushEmptyIsNoop(t *testing.T) {
	q := NewQueue()
	q.Flush(context.Background(), NewDispatcher())
}
