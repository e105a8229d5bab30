package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
)

// RecurringReader defines read operations for standing reservations
type RecurringReader interface {
	FindRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringReservation, error)

	// ListActiveRecurringByField returns active rules of a field whose window has not ended before from.
	ListActiveRecurringByField(ctx context.Context, fieldID string, from domain.Date) ([]domain.RecurringReservation, error)
}

// RecurringWriter defines write operations for standing reservations
type RecurringWriter interface {
	SaveRecurring(ctx context.Context, rule domain.RecurringReservation) error
	DeactivateRecurring(ctx context.Context, recurringID string, at time.Time) error
}

// RecurringRepositoryFacade combines all recurring-reservation repository interfaces
type RecurringRepositoryFacade interface {
	RecurringReader
	RecurringWriter
}
