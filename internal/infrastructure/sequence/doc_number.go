package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/pkg/database"
	"go.uber.org/zap"
)

// Generator hands out per-year document numbers from the doc_sequences
// table. When called inside a transaction the increment commits or rolls
// back together with the submit.
type Generator struct {
	db     *database.DB
	logger *zap.Logger
}

// New creates a new document number generator
func New(db *database.DB, logger *zap.Logger) port.SequenceGenerator {
	return &Generator{
		db:     db,
		logger: logger,
	}
}

// NextDocNumber increments the counter for the current year and returns a
// number formatted as YYYY-NNNNNN.
func (g *Generator) NextDocNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	ex := g.db.ExecutorFrom(ctx)

	if _, err := ex.ExecContext(ctx,
		`INSERT INTO doc_sequences (year, counter) VALUES (?, 0) ON CONFLICT (year) DO NOTHING`, year); err != nil {
		g.logger.Error("Failed to seed sequence row", zap.Int("year", year), zap.Error(err))
		return "", fmt.Errorf("failed to seed sequence: %w", err)
	}

	if _, err := ex.ExecContext(ctx,
		`UPDATE doc_sequences SET counter = counter + 1 WHERE year = ?`, year); err != nil {
		g.logger.Error("Failed to increment sequence", zap.Int("year", year), zap.Error(err))
		return "", fmt.Errorf("failed to increment sequence: %w", err)
	}

	var counter int64
	if err := ex.QueryRowContext(ctx,
		`SELECT counter FROM doc_sequences WHERE year = ?`, year).Scan(&counter); err != nil {
		return "", fmt.Errorf("failed to read sequence: %w", err)
	}

	return fmt.Sprintf("%d-%06d", year, counter), nil
}

// Verify interface compliance
var _ port.SequenceGenerator = (*Generator)(nil)
