package port

import (
	"context"
	"time"
)

// FileStore is the external file storage collaborator. The engine persists
// only the returned storage key.
type FileStore interface {
	// Put stores content under the given directory and returns an opaque
	// storage key.
	Put(ctx context.Context, content []byte, directory string) (string, error)

	// Delete releases the stored object for the given key.
	Delete(ctx context.Context, storageKey string) error

	// PresignedURL returns a time-limited download URL for the given key.
	PresignedURL(ctx context.Context, storageKey string, ttl time.Duration) (string, error)
}

// TemplateMetadata describes a registered approval form template
type TemplateMetadata struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// TemplateRegistry resolves template keys to metadata. Resolution fails with
// entity.ErrNotFound for unknown keys.
type TemplateRegistry interface {
	Resolve(ctx context.Context, key string) (*TemplateMetadata, error)
}

// SequenceGenerator hands out document numbers, invoked once at submit
type SequenceGenerator interface {
	NextDocNumber(ctx context.Context) (string, error)
}
