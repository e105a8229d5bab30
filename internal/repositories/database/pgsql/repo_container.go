package pgsql

import (
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		FieldRepo:       newPgxFieldRepository(dbPool),
		ScheduleRepo:    newPgxScheduleRepository(dbPool),
		RecurringRepo:   newPgxRecurringRepository(dbPool),
		ReservationRepo: newPgxReservationRepository(dbPool),
		CashClosingRepo: newPgxCashClosingRepository(dbPool),
	}
}
