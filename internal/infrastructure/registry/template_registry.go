package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/internal/domain/entity"
)

// TemplateRegistry resolves template keys against the set configured at
// startup. The engine only checks existence; the metadata is advisory.
type TemplateRegistry struct {
	mu        sync.RWMutex
	templates map[string]port.TemplateMetadata
}

// New creates a registry from the configured templates
func New(templates []port.TemplateMetadata) *TemplateRegistry {
	byKey := make(map[string]port.TemplateMetadata, len(templates))
	for _, t := range templates {
		byKey[t.Key] = t
	}
	return &TemplateRegistry{templates: byKey}
}

// Resolve returns the metadata for a template key, or entity.ErrNotFound
func (r *TemplateRegistry) Resolve(ctx context.Context, key string) (*port.TemplateMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.templates[key]
	if !ok {
		return nil, fmt.Errorf("%w: template %q", entity.ErrNotFound, key)
	}
	return &meta, nil
}

// Keys returns all registered template keys
func (r *TemplateRegistry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.templates))
	for k := range r.templates {
		keys = append(keys, k)
	}
	return keys
}

// Verify interface compliance
var _ port.TemplateRegistry = (*TemplateRegistry)(nil)
