package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/haenin/hr-eapproval/internal/application/dispatcher"
	"github.com/haenin/hr-eapproval/internal/domain/event"
)

// Fanout translates engine events into notices for the affected employees.
// Approval requests and reminders go to the assigned approver; outcomes and
// recalls go to the drafter; completions additionally reach the referencers.
type Fanout struct {
	hub *Hub
}

// NewFanout creates a fanout bound to a session hub
func NewFanout(hub *Hub) *Fanout {
	return &Fanout{hub: hub}
}

// Bind subscribes the fanout to every event family on the dispatcher
func (f *Fanout) Bind(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeRequested, "notify-fanout", f.handle)
	d.SubscribeNamed(event.TypeCompleted, "notify-fanout", f.handle)
	d.SubscribeNamed(event.TypeRejected, "notify-fanout", f.handle)
	d.SubscribeNamed(event.TypeRecalled, "notify-fanout", f.handle)
	d.SubscribeNamed(event.TypeReminder, "notify-fanout", f.handle)
}

func (f *Fanout) handle(ctx context.Context, evt *event.Event) error {
	title := evt.GetPayloadString(event.KeyTitle)
	notice := Notice{
		Type:      evt.Type,
		DocID:     evt.DocID,
		Title:     title,
		CreatedAt: time.Now(),
	}

	switch evt.Type {
	case event.TypeRequested:
		notice.Message = fmt.Sprintf("Document %q is waiting for your approval", title)
		f.hub.Push(evt.GetPayloadString(event.KeyApproverID), notice)

	case event.TypeReminder:
		notice.Message = fmt.Sprintf("Document %q has been waiting %d days for your approval",
			title, evt.GetPayloadInt(event.KeyWaitingDays))
		f.hub.Push(evt.GetPayloadString(event.KeyApproverID), notice)

	case event.TypeCompleted:
		notice.Message = fmt.Sprintf("Document %q was approved", title)
		f.hub.Push(evt.GetPayloadString(event.KeyDrafterID), notice)
		for _, refID := range evt.GetPayloadStrings(event.KeyReferencers) {
			f.hub.Push(refID, notice)
		}

	case event.TypeRejected:
		// Rejected events carry no title, only the rejection comment.
		notice.Message = fmt.Sprintf("Your document was rejected: %s",
			evt.GetPayloadString(event.KeyComment))
		f.hub.Push(evt.GetPayloadString(event.KeyDrafterID), notice)

	case event.TypeRecalled:
		notice.Message = fmt.Sprintf("Document %q was recalled to draft", title)
		f.hub.Push(evt.GetPayloadString(event.KeyDrafterID), notice)
	}

	return nil
}
