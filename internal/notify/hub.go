package notify

import (
	"sync"
	"time"

	"github.com/haenin/hr-eapproval/internal/domain/event"
)

// Notice is a user-facing notification derived from an engine event
type Notice struct {
	Type      event.Type `json:"type"`
	DocID     int64      `json:"doc_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}

const sessionBuffer = 16

// Hub is a concurrency-safe registry of live notification sessions keyed by
// employee ID. It is owned by the notification subsystem; the orchestrator
// never touches it.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string][]chan Notice
}

// NewHub creates an empty session hub
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string][]chan Notice),
	}
}

// Subscribe opens a notification session for an employee. The returned
// cancel func closes the session and releases it from the hub.
func (h *Hub) Subscribe(employeeID string) (<-chan Notice, func()) {
	ch := make(chan Notice, sessionBuffer)

	h.mu.Lock()
	h.sessions[employeeID] = append(h.sessions[employeeID], ch)
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		chans := h.sessions[employeeID]
		for i, c := range chans {
			if c == ch {
				h.sessions[employeeID] = append(chans[:i], chans[i+1:]...)
				close(ch)
				break
			}
		}
		if len(h.sessions[employeeID]) == 0 {
			delete(h.sessions, employeeID)
		}
	}
	return ch, cancel
}

// Push delivers a notice to every open session of an employee. A session
// whose buffer is full is skipped; notices are advisory, not durable.
func (h *Hub) Push(employeeID string, n Notice) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.sessions[employeeID] {
		select {
		case ch <- n:
		default:
		}
	}
}

// SessionCount returns the number of open sessions for an employee
func (h *Hub) SessionCount(employeeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[employeeID])
}
