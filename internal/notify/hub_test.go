package notify

import (
	"context"
	"testing"
	"time"

	"github.com/haenin/hr-eapproval/internal/domain/event"
)

func TestHub_SubscribeAndPush(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe("emp-1")
	defer cancel()

	if got := hub.SessionCount("emp-1"); got != 1 {
		t.Fatalf("SessionCount = %d, want 1", got)
	}

	hub.Push("emp-1", Notice{Type: event.TypeRequested, DocID: 7, Message: "hello"})

	select {
	case n := <-ch:
		if n.DocID != 7 || n.Message != "hello" {
			t.Errorf("received %+v", n)
		}
	case <-time.After(time.Second):
		t.Fatal("notice not delivered")
	}
}

func TestHub_PushToUnknownEmployeeIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Push("nobody", Notice{Message: "lost"})
}

func TestHub_MultipleSessionsReceiveSameNotice(t *testing.T) {
	hub := NewHub()

	ch1, cancel1 := hub.Subscribe("emp-1")
	defer cancel1()
	ch2, cancel2 := hub.Subscribe("emp-1")
	defer cancel2()

	if got := hub.SessionCount("emp-1"); got != 2 {
		t.Fatalf("SessionCount = %d, want 2", got)
	}

	hub.Push("emp-1", Notice{DocID: 1})

	for i, ch := range []<-chan Notice{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("session %d did not receive the notice", i)
		}
	}
}

func TestHub_CancelClosesAndReleasesSession(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe("emp-1")
	cancel()

	if got := hub.SessionCount("emp-1"); got != 0 {
		t.Errorf("SessionCount after cancel = %d, want 0", got)
	}
	if _, open := <-ch; open {
		t.Error("channel still open after cancel")
	}

	// A second cancel must be safe.
	cancel()
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe("emp-1")
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < sessionBuffer*2; i++ {
			hub.Push("emp-1", Notice{DocID: int64(i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Push blocked on a full session buffer")
	}
}

func TestFanout_RoutesNoticesByEventType(t *testing.T) {
	hub := NewHub()
	fanout := NewFanout(hub)

	drafter, cancelDrafter := hub.Subscribe("emp-1")
	defer cancelDrafter()
	approver, cancelApprover := hub.Subscribe("mgr-1")
	defer cancelApprover()
	referencer, cancelRef := hub.Subscribe("ref-1")
	defer cancelRef()

	ctx := context.Background()

	if err := fanout.handle(ctx, event.NewRequested(1, "vacation", "Leave", "mgr-1", 11, 1)); err != nil {
		t.Fatalf("handle(requested) error = %v", err)
	}
	select {
	case n := <-approver:
		if n.Type != event.TypeRequested {
			t.Errorf("approver notice type = %v", n.Type)
		}
	default:
		t.Error("approver did not receive the request notice")
	}
	select {
	case n := <-drafter:
		t.Errorf("drafter unexpectedly received %+v", n)
	default:
	}

	if err := fanout.handle(ctx, event.NewCompleted(1, "vacation", "{}", "emp-1", "Leave", "2026-000001", []string{"ref-1"})); err != nil {
		t.Fatalf("handle(completed) error = %v", err)
	}
	for name, ch := range map[string]<-chan Notice{"drafter": drafter, "referencer": referencer} {
		select {
		case n := <-ch:
			if n.Type != event.TypeCompleted {
				t.Errorf("%s notice type = %v", name, n.Type)
			}
		default:
			t.Errorf("%s did not receive the completion notice", name)
		}
	}

	if err := fanout.handle(ctx, event.NewRejected(1, "vacation", "{}", "emp-1", "missing receipts")); err != nil {
		t.Fatalf("handle(rejected) error = %v", err)
	}
	select {
	case n := <-drafter:
		if n.Message != "Your document was rejected: missing receipts" {
			t.Errorf("rejection message = %q", n.Message)
		}
	default:
		t.Error("drafter did not receive the rejection notice")
	}
}
