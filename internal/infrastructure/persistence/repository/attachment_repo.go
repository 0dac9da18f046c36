package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/internal/domain/entity"
	"github.com/haenin/hr-eapproval/pkg/database"
	"go.uber.org/zap"
)

// AttachmentRepository implements port.AttachmentRepository
type AttachmentRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *database.DB, logger *zap.Logger) port.AttachmentRepository {
	return &AttachmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists attachment metadata
func (r *AttachmentRepository) Create(ctx context.Context, att *entity.Attachment) error {
	query := `INSERT INTO attachments (doc_id, storage_key, original_name) VALUES (?, ?, ?)`

	result, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query, att.DocID, att.StorageKey, att.OriginalName)
	if err != nil {
		r.logger.Error("Failed to create attachment", zap.Int64("doc_id", att.DocID), zap.Error(err))
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	att.ID = id
	return nil
}

// GetByID retrieves attachment metadata by ID. Returns nil when absent.
func (r *AttachmentRepository) GetByID(ctx context.Context, id int64) (*entity.Attachment, error) {
	query := `SELECT id, doc_id, storage_key, original_name, created_at FROM attachments WHERE id = ?`

	var att entity.Attachment
	err := r.db.ExecutorFrom(ctx).QueryRowContext(ctx, query, id).Scan(
		&att.ID,
		&att.DocID,
		&att.StorageKey,
		&att.OriginalName,
		&att.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get attachment", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return &att, nil
}

// GetByDocID retrieves all attachments of a document
func (r *AttachmentRepository) GetByDocID(ctx context.Context, docID int64) ([]*entity.Attachment, error) {
	query := `SELECT id, doc_id, storage_key, original_name, created_at FROM attachments WHERE doc_id = ?`

	rows, err := r.db.ExecutorFrom(ctx).QueryContext(ctx, query, docID)
	if err != nil {
		r.logger.Error("Failed to list attachments", zap.Int64("doc_id", docID), zap.Error(err))
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var atts []*entity.Attachment
	for rows.Next() {
		var att entity.Attachment
		if err := rows.Scan(&att.ID, &att.DocID, &att.StorageKey, &att.OriginalName, &att.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		atts = append(atts, &att)
	}
	return atts, rows.Err()
}

// DeleteByDocID removes all attachment metadata of a document
func (r *AttachmentRepository) DeleteByDocID(ctx context.Context, docID int64) error {
	_, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, `DELETE FROM attachments WHERE doc_id = ?`, docID)
	if err != nil {
		r.logger.Error("Failed to delete attachments", zap.Int64("doc_id", docID), zap.Error(err))
		return fmt.Errorf("failed to delete attachments: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.AttachmentRepository = (*AttachmentRepository)(nil)
