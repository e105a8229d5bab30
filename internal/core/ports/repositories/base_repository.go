package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager hands out database transactions to services that must
// check and write under one lock, such as booking and cash closing.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback is a no-op on a transaction that already finished.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
