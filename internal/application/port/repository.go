package port

import (
	"context"
	"time"

	"github.com/haenin/hr-eapproval/internal/domain/entity"
)

// DocumentRepository defines persistence operations for Document
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id int64) (*entity.Document, error)
	Update(ctx context.Context, doc *entity.Document) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	SetSubmission(ctx context.Context, id int64, docNumber string, at time.Time) error

	// ClearSubmission removes the document number and submission time when a
	// recall returns the document to draft.
	ClearSubmission(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*entity.Document, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Document, error)
	Delete(ctx context.Context, id int64) error
}

// LineRepository defines persistence operations for Line
type LineRepository interface {
	Create(ctx context.Context, line *entity.Line) error
	GetByID(ctx context.Context, id int64) (*entity.Line, error)
	GetByDocID(ctx context.Context, docID int64) ([]*entity.Line, error)

	// MarkProcessed sets status/comment/processedAt on a line only if it is
	// still PENDING. Returns false when the line was already processed, which
	// signals a lost race to the caller.
	MarkProcessed(ctx context.Context, id int64, status, comment string, processedAt time.Time) (bool, error)

	// ResetByDocID returns every line of a document to PENDING with comment
	// and processedAt cleared.
	ResetByDocID(ctx context.Context, docID int64) error

	DeleteByDocID(ctx context.Context, docID int64) error
}

// ReferenceRepository defines persistence operations for Reference
type ReferenceRepository interface {
	Create(ctx context.Context, ref *entity.Reference) error
	GetByDocID(ctx context.Context, docID int64) ([]*entity.Reference, error)
	DeleteByDocID(ctx context.Context, docID int64) error
}

// AttachmentRepository defines persistence operations for Attachment metadata
type AttachmentRepository interface {
	Create(ctx context.Context, att *entity.Attachment) error
	GetByID(ctx context.Context, id int64) (*entity.Attachment, error)
	GetByDocID(ctx context.Context, docID int64) ([]*entity.Attachment, error)
	DeleteByDocID(ctx context.Context, docID int64) error
}

// BookmarkRepository defines persistence operations for Bookmark
type BookmarkRepository interface {
	Exists(ctx context.Context, docID int64, employeeID string) (bool, error)
	Create(ctx context.Context, bm *entity.Bookmark) error
	Delete(ctx context.Context, docID int64, employeeID string) error
	DeleteByDocID(ctx context.Context, docID int64) error
}

// EffectRepository is the idempotency ledger for downstream subscribers.
// A (domain, docID) pair is recorded at most once; duplicate event delivery
// must not double-apply side effects.
type EffectRepository interface {
	// RecordOnce inserts the effect if absent. Returns false when the pair
	// was already recorded.
	RecordOnce(ctx context.Context, domain string, docID int64, payload string) (bool, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
