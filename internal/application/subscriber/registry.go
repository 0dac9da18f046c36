package subscriber

import (
	"context"
	"fmt"
	"sync"

	"github.com/haenin/hr-eapproval/internal/application/dispatcher"
	"github.com/haenin/hr-eapproval/internal/domain/event"
)

// Registry maps template keys to domain handlers. It is populated at startup
// so adding a new HR form requires registering a handler, never touching the
// orchestrator.
type Registry struct {
	mu     sync.RWMutex
	byKey  map[string]DomainHandler
	logger Logger
}

// NewRegistry creates an empty handler registry
func NewRegistry(logger Logger) *Registry {
	return &Registry{
		byKey:  make(map[string]DomainHandler),
		logger: logger,
	}
}

// Register binds a template key to a domain handler. Registering the same
// key twice replaces the previous handler.
func (r *Registry) Register(templateKey string, handler DomainHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byKey[templateKey] = handler

	if r.logger != nil {
		r.logger.Info("Domain handler registered",
			"template_key", templateKey,
			"domain", handler.Domain(),
		)
	}
}

// Resolve returns the handler for a template key
func (r *Registry) Resolve(templateKey string) (DomainHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byKey[templateKey]
	return h, ok
}

// Keys returns all registered template keys
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	return keys
}

// Bind subscribes the registry to completion and rejection events on the
// dispatcher. Events with a template key no handler claims are logged and
// dropped; they carry no side effects for this deployment.
func (r *Registry) Bind(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeCompleted, "domain-registry", func(ctx context.Context, evt *event.Event) error {
		return r.route(ctx, evt, true)
	})
	d.SubscribeNamed(event.TypeRejected, "domain-registry", func(ctx context.Context, evt *event.Event) error {
		return r.route(ctx, evt, false)
	})
}

func (r *Registry) route(ctx context.Context, evt *event.Event, completed bool) error {
	handler, ok := r.Resolve(evt.TemplateKey)
	if !ok {
		if r.logger != nil {
			r.logger.Info("No domain handler for template key",
				"template_key", evt.TemplateKey,
				"doc_id", evt.DocID,
				"event_type", evt.Type,
			)
		}
		return nil
	}

	var err error
	if completed {
		err = handler.OnCompleted(ctx, evt)
	} else {
		err = handler.OnRejected(ctx, evt)
	}
	if err != nil {
		return fmt.Errorf("domain %s: %w", handler.Domain(), err)
	}
	return nil
}
