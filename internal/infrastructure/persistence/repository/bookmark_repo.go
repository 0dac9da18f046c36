package repository

import (
	"context"
	"fmt"

	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/internal/domain/entity"
	"github.com/haenin/hr-eapproval/pkg/database"
	"go.uber.org/zap"
)

// BookmarkRepository implements port.BookmarkRepository
type BookmarkRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *database.DB, logger *zap.Logger) port.BookmarkRepository {
	return &BookmarkRepository{
		db:     db,
		logger: logger,
	}
}

// Exists reports whether the employee bookmarked the document
func (r *BookmarkRepository) Exists(ctx context.Context, docID int64, employeeID string) (bool, error) {
	query := `SELECT COUNT(1) FROM bookmarks WHERE doc_id = ? AND employee_id = ?`

	var count int
	err := r.db.ExecutorFrom(ctx).QueryRowContext(ctx, query, docID, employeeID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to check bookmark", zap.Int64("doc_id", docID), zap.Error(err))
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return count > 0, nil
}

// Create persists a bookmark
func (r *BookmarkRepository) Create(ctx context.Context, bm *entity.Bookmark) error {
	query := `INSERT INTO bookmarks (doc_id, employee_id) VALUES (?, ?)`

	result, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query, bm.DocID, bm.EmployeeID)
	if err != nil {
		r.logger.Error("Failed to create bookmark", zap.Int64("doc_id", bm.DocID), zap.Error(err))
		return fmt.Errorf("failed to create bookmark: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	bm.ID = id
	return nil
}

// Delete removes a bookmark
func (r *BookmarkRepository) Delete(ctx context.Context, docID int64, employeeID string) error {
	_, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, `DELETE FROM bookmarks WHERE doc_id = ? AND employee_id = ?`, docID, employeeID)
	if err != nil {
		r.logger.Error("Failed to delete bookmark", zap.Int64("doc_id", docID), zap.Error(err))
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}

// DeleteByDocID removes all bookmarks of a document
func (r *BookmarkRepository) DeleteByDocID(ctx context.Context, docID int64) error {
	_, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, `DELETE FROM bookmarks WHERE doc_id = ?`, docID)
	if err != nil {
		r.logger.Error("Failed to delete bookmarks", zap.Int64("doc_id", docID), zap.Error(err))
		return fmt.Errorf("failed to delete bookmarks: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.BookmarkRepository = (*BookmarkRepository)(nil)
