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

// LineRepository implements port.LineRepository
type LineRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewLineRepository creates a new line repository
func NewLineRepository(db *database.DB, logger *zap.Logger) port.LineRepository {
	return &LineRepository{
		db:     db,
		logger: logger,
	}
}

const lineColumns = `id, doc_id, seq, approver_id, status, comment, processed_at, created_at`

// Create persists a new approval line
func (r *LineRepository) Create(ctx context.Context, line *entity.Line) error {
	query := `
		INSERT INTO approval_lines (doc_id, seq, approver_id, status)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query,
		line.DocID,
		line.Seq,
		line.ApproverID,
		line.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create line", zap.Int64("doc_id", line.DocID), zap.Int("seq", line.Seq), zap.Error(err))
		return fmt.Errorf("failed to create line: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	line.ID = id
	return nil
}

// GetByID retrieves a line by ID. Returns nil when absent.
func (r *LineRepository) GetByID(ctx context.Context, id int64) (*entity.Line, error) {
	query := `SELECT ` + lineColumns + ` FROM approval_lines WHERE id = ?`

	line, err := scanLine(r.db.ExecutorFrom(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get line by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get line: %w", err)
	}
	return line, nil
}

// GetByDocID retrieves all lines of a document ordered by seq
func (r *LineRepository) GetByDocID(ctx context.Context, docID int64) ([]*entity.Line, error) {
	query := `SELECT ` + lineColumns + ` FROM approval_lines WHERE doc_id = ? ORDER BY seq`

	rows, err := r.db.ExecutorFrom(ctx).QueryContext(ctx, query, docID)
	if err != nil {
		r.logger.Error("Failed to list lines", zap.Int64("doc_id", docID), zap.Error(err))
		return nil, fmt.Errorf("failed to list lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.Line
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// MarkProcessed conditionally finalizes a line. The status guard in the
// WHERE clause makes concurrent callers race for a single affected row.
func (r *LineRepository) MarkProcessed(ctx context.Context, id int64, status, comment string, processedAt time.Time) (bool, error) {
	query := `
		UPDATE approval_lines
		SET status = ?, comment = ?, processed_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query, status, comment, processedAt, id, entity.LineStatusPending)
	if err != nil {
		r.logger.Error("Failed to mark line processed", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to mark line processed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected == 1, nil
}

// ResetByDocID returns every line of a document to PENDING
func (r *LineRepository) ResetByDocID(ctx context.Context, docID int64) error {
	query := `
		UPDATE approval_lines
		SET status = ?, comment = '', processed_at = NULL
		WHERE doc_id = ?
	`

	_, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query, entity.LineStatusPending, docID)
	if err != nil {
		r.logger.Error("Failed to reset lines", zap.Int64("doc_id", docID), zap.Error(err))
		return fmt.Errorf("failed to reset lines: %w", err)
	}
	return nil
}

// DeleteByDocID removes all lines of a document
func (r *LineRepository) DeleteByDocID(ctx context.Context, docID int64) error {
	_, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, `DELETE FROM approval_lines WHERE doc_id = ?`, docID)
	if err != nil {
		r.logger.Error("Failed to delete lines", zap.Int64("doc_id", docID), zap.Error(err))
		return fmt.Errorf("failed to delete lines: %w", err)
	}
	return nil
}

func scanLine(row rowScanner) (*entity.Line, error) {
	var line entity.Line
	var processedAt sql.NullTime

	err := row.Scan(
		&line.ID,
		&line.DocID,
		&line.Seq,
		&line.ApproverID,
		&line.Status,
		&line.Comment,
		&processedAt,
		&line.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if processedAt.Valid {
		line.ProcessedAt = &processedAt.Time
	}
	return &line, nil
}

// Verify interface compliance
var _ port.LineRepository = (*LineRepository)(nil)
