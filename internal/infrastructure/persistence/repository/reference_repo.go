package repository

import (
	"context"
	"fmt"

	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/internal/domain/entity"
	"github.com/haenin/hr-eapproval/pkg/database"
	"go.uber.org/zap"
)

// ReferenceRepository implements port.ReferenceRepository
type ReferenceRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *database.DB, logger *zap.Logger) port.ReferenceRepository {
	return &ReferenceRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new reference
func (r *ReferenceRepository) Create(ctx context.Context, ref *entity.Reference) error {
	query := `INSERT INTO doc_references (doc_id, referencer_id) VALUES (?, ?)`

	result, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query, ref.DocID, ref.ReferencerID)
	if err != nil {
		r.logger.Error("Failed to create reference", zap.Int64("doc_id", ref.DocID), zap.Error(err))
		return fmt.Errorf("failed to create reference: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	ref.ID = id
	return nil
}

// GetByDocID retrieves all references of a document
func (r *ReferenceRepository) GetByDocID(ctx context.Context, docID int64) ([]*entity.Reference, error) {
	query := `SELECT id, doc_id, referencer_id FROM doc_references WHERE doc_id = ?`

	rows, err := r.db.ExecutorFrom(ctx).QueryContext(ctx, query, docID)
	if err != nil {
		r.logger.Error("Failed to list references", zap.Int64("doc_id", docID), zap.Error(err))
		return nil, fmt.Errorf("failed to list references: %w", err)
	}
	defer rows.Close()

	var refs []*entity.Reference
	for rows.Next() {
		var ref entity.Reference
		if err := rows.Scan(&ref.ID, &ref.DocID, &ref.ReferencerID); err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}
		refs = append(refs, &ref)
	}
	return refs, rows.Err()
}

// DeleteByDocID removes all references of a document
func (r *ReferenceRepository) DeleteByDocID(ctx context.Context, docID int64) error {
	_, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, `DELETE FROM doc_references WHERE doc_id = ?`, docID)
	if err != nil {
		r.logger.Error("Failed to delete references", zap.Int64("doc_id", docID), zap.Error(err))
		return fmt.Errorf("failed to delete references: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.ReferenceRepository = (*ReferenceRepository)(nil)
