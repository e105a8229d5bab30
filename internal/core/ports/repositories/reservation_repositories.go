package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ReservationFilter narrows list queries.
type ReservationFilter struct {
	CompanyID string
	Limit     int
	Offset    int
}

// ReservationReader defines read operations for reservations outside a transaction
type ReservationReader interface {
	FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error)

	// ListReservationsByFieldDate returns every row of a field on a date ordered by start time.
	ListReservationsByFieldDate(ctx context.Context, fieldID string, date domain.Date) ([]domain.Reservation, error)

	// ListPendingApproval returns receipts awaiting review, oldest date first, and the total count.
	ListPendingApproval(ctx context.Context, filter ReservationFilter) ([]domain.Reservation, int, error)

	// ListBlockingOverlapping returns blocking reservations of a field from from onwards
	// (up to until when set) whose time of day overlaps iv, ordered by date and start.
	ListBlockingOverlapping(ctx context.Context, fieldID string, from domain.Date, until *domain.Date, iv domain.Interval) ([]domain.Reservation, error)

	// ListReservationsByUser returns a user's bookings, newest date first, and the total count.
	ListReservationsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Reservation, int, error)
}

// ReservationTxWriter defines operations that run inside a caller-owned transaction.
// Callers hold the field-day lock before checking and writing.
type ReservationTxWriter interface {
	// LockFieldDay serializes writers of one field on one date until tx ends.
	LockFieldDay(ctx context.Context, tx pgx.Tx, fieldID string, date domain.Date) error

	// FindBlockingInTx locks and returns reservations in blocking states that overlap iv.
	FindBlockingInTx(ctx context.Context, tx pgx.Tx, fieldID string, date domain.Date, iv domain.Interval) ([]domain.Reservation, error)

	// FindOpenSlotInTx locks and returns the Available materialized row matching iv exactly, or nil.
	FindOpenSlotInTx(ctx context.Context, tx pgx.Tx, fieldID string, date domain.Date, iv domain.Interval) (*domain.Reservation, error)

	// FindReservationByIDForUpdate locks a reservation row.
	FindReservationByIDForUpdate(ctx context.Context, tx pgx.Tx, reservationID string) (*domain.Reservation, error)

	// InsertReservationInTx inserts a row. Overlaps rejected by the database surface as apperrors.ErrConflict.
	InsertReservationInTx(ctx context.Context, tx pgx.Tx, r domain.Reservation) error

	// UpdateReservationInTx writes back every mutable column of r.
	UpdateReservationInTx(ctx context.Context, tx pgx.Tx, r domain.Reservation) error

	// ListDayRowsInTx returns every row of the field-day, ordered by start time.
	ListDayRowsInTx(ctx context.Context, tx pgx.Tx, fieldID string, date domain.Date) ([]domain.Reservation, error)

	// LockSettlementCandidatesInTx locks a company's settleable reservations ordered by date and start.
	LockSettlementCandidatesInTx(ctx context.Context, tx pgx.Tx, companyID string) ([]domain.Reservation, error)

	// MarkClosedInTx stamps the given reservations as swept into closingID.
	MarkClosedInTx(ctx context.Context, tx pgx.Tx, reservationIDs []string, closingID string, at time.Time) error
}

// ReservationWriter defines standalone write operations
type ReservationWriter interface {
	// CompletePast moves confirmed bookings that ended before now to Completada.
	CompletePast(ctx context.Context, now time.Time) (int64, error)
}

// ReservationRepositoryFacade combines all reservation repository interfaces
type ReservationRepositoryFacade interface {
	ReservationReader
	ReservationTxWriter
	ReservationWriter
}

// ReservationRepositoryWithTx extends ReservationRepositoryFacade with transaction capabilities
type ReservationRepositoryWithTx interface {
	ReservationRepositoryFacade
	TransactionManager
}
