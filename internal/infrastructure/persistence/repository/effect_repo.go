package repository

import (
	"context"
	"fmt"

	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/pkg/database"
	"go.uber.org/zap"
)

// EffectRepository implements port.EffectRepository on the approval_effects
// ledger table.
type EffectRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewEffectRepository creates a new effect repository
func NewEffectRepository(db *database.DB, logger *zap.Logger) port.EffectRepository {
	return &EffectRepository{
		db:     db,
		logger: logger,
	}
}

// RecordOnce inserts the (domain, docID) effect if absent. The unique index
// turns a duplicate delivery into zero affected rows.
func (r *EffectRepository) RecordOnce(ctx context.Context, domain string, docID int64, payload string) (bool, error) {
	query := `
		INSERT INTO approval_effects (domain, doc_id, payload)
		VALUES (?, ?, ?)
		ON CONFLICT (domain, doc_id) DO NOTHING
	`

	result, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query, domain, docID, payload)
	if err != nil {
		r.logger.Error("Failed to record effect", zap.String("domain", domain), zap.Int64("doc_id", docID), zap.Error(err))
		return false, fmt.Errorf("failed to record effect: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected == 1, nil
}

// Verify interface compliance
var _ port.EffectRepository = (*EffectRepository)(nil)
