package repository

import (
	"context"

	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/pkg/database"
)

// TxManager implements port.TransactionManager by injecting a transaction
// into the context shared by every repository call inside fn.
type TxManager struct {
	db *database.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *database.DB) port.TransactionManager {
	return &TxManager{db: db}
}

// WithTransaction executes fn within a single database transaction
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithTransactionContext(ctx, fn)
}

// Verify interface compliance
var _ port.TransactionManager = (*TxManager)(nil)
