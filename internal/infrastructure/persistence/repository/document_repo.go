package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/internal/domain/entity"
	"github.com/haenin/hr-eapproval/pkg/database"
	"go.uber.org/zap"
)

// DocumentRepository implements port.DocumentRepository
type DocumentRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *database.DB, logger *zap.Logger) port.DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

const documentColumns = `id, template_key, title, drafter_id, details, status, doc_number, submitted_at, created_at, updated_at`

// Create persists a new document
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (template_key, title, drafter_id, details, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query,
		doc.TemplateKey,
		doc.Title,
		doc.DrafterID,
		doc.Details,
		doc.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create document", zap.Error(err))
		return fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	doc.ID = id
	return nil
}

// GetByID retrieves a document by ID. Returns nil when absent.
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`

	doc, err := scanDocument(r.db.ExecutorFrom(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get document by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// Update replaces the mutable header fields of a document
func (r *DocumentRepository) Update(ctx context.Context, doc *entity.Document) error {
	query := `
		UPDATE documents
		SET template_key = ?, title = ?, details = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query,
		doc.TemplateKey,
		doc.Title,
		doc.Details,
		doc.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update document", zap.Int64("id", doc.ID), zap.Error(err))
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

// UpdateStatus sets the document status
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE documents SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update document status", zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// SetSubmission records the document number and submission time
func (r *DocumentRepository) SetSubmission(ctx context.Context, id int64, docNumber string, at time.Time) error {
	query := `UPDATE documents SET doc_number = ?, submitted_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query, docNumber, at, id)
	if err != nil {
		r.logger.Error("Failed to set submission", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to set submission: %w", err)
	}
	return nil
}

// ClearSubmission removes the document number and submission time, used when
// a recall returns the document to draft
func (r *DocumentRepository) ClearSubmission(ctx context.Context, id int64) error {
	query := `UPDATE documents SET doc_number = '', submitted_at = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to clear submission", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to clear submission: %w", err)
	}
	return nil
}

// List retrieves documents with pagination, newest first
func (r *DocumentRepository) List(ctx context.Context, limit, offset int) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return r.queryDocuments(ctx, query, limit, offset)
}

// ListByStatus retrieves documents in a given status with pagination
func (r *DocumentRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE status = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return r.queryDocuments(ctx, query, status, limit, offset)
}

// Delete removes a document row
func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete document", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]*entity.Document, error) {
	rows, err := r.db.ExecutorFrom(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list documents", zap.Error(err))
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*entity.Document, error) {
	var doc entity.Document
	var submittedAt sql.NullTime

	err := row.Scan(
		&doc.ID,
		&doc.TemplateKey,
		&doc.Title,
		&doc.DrafterID,
		&doc.Details,
		&doc.Status,
		&doc.DocNumber,
		&submittedAt,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if submittedAt.Valid {
		doc.SubmittedAt = &submittedAt.Time
	}
	return &doc, nil
}

// Verify interface compliance
var _ port.DocumentRepository = (*DocumentRepository)(nil)
