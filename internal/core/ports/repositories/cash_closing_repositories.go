package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CashClosingReader defines read operations for cash closings
type CashClosingReader interface {
	FindCashClosingByID(ctx context.Context, closingID string) (*domain.CashClosing, error)
	ListCashClosingsByCompany(ctx context.Context, companyID string, limit, offset int) ([]domain.CashClosing, int, error)
}

// CashClosingWriter defines write operations for cash closings
type CashClosingWriter interface {
	// InsertCashClosingInTx persists a closing inside the aggregator's transaction.
	InsertCashClosingInTx(ctx context.Context, tx pgx.Tx, closing domain.CashClosing) error

	UpdateCashClosingState(ctx context.Context, closingID string, state domain.CashClosingState, at time.Time) error
}

// CashClosingRepositoryFacade combines all cash-closing repository interfaces
type CashClosingRepositoryFacade interface {
	CashClosingReader
	CashClosingWriter
}

// CashClosingRepositoryWithTx extends CashClosingRepositoryFacade with transaction capabilities
type CashClosingRepositoryWithTx interface {
	CashClosingRepositoryFacade
	TransactionManager
}
