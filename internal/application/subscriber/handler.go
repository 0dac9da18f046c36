package subscriber

import (
	"context"

	"github.com/haenin/hr-eapproval/internal/domain/event"
)

// DomainHandler is the capability a downstream HR domain registers for a
// template key. Handlers must be idempotent: duplicate delivery of the same
// document must not double-apply effects. The event payload is the only data
// a handler may rely on.
type DomainHandler interface {
	// Domain names the downstream domain, used for logging and the
	// idempotency ledger.
	Domain() string

	// OnCompleted applies the domain side effect for an approved document
	OnCompleted(ctx context.Context, evt *event.Event) error

	// OnRejected reacts to a rejected document
	OnRejected(ctx context.Context, evt *event.Event) error
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}
