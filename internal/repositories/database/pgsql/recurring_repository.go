package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	"github.com/SscSPs/cancha_booking_app/internal/models"
	"github.com/SscSPs/cancha_booking_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recurringColumns = `recurring_id, field_id, user_id, recurrence_type, day_of_week, day_of_month,
	start_time, end_time, start_date, end_date, payment_amount, is_active, client_name, notes,
	created_by, created_at, updated_at`

// PgxRecurringRepository stores standing reservations.
type PgxRecurringRepository struct {
	BaseRepository
}

func newPgxRecurringRepository(pool *pgxpool.Pool) *PgxRecurringRepository {
	return &PgxRecurringRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurringRepositoryFacade = (*PgxRecurringRepository)(nil)

func scanRecurring(row pgx.Row) (models.RecurringReservation, error) {
	var m models.RecurringReservation
	err := row.Scan(
		&m.RecurringID,
		&m.FieldID,
		&m.UserID,
		&m.RecurrenceType,
		&m.DayOfWeek,
		&m.DayOfMonth,
		&m.StartTime,
		&m.EndTime,
		&m.StartDate,
		&m.EndDate,
		&m.PaymentAmount,
		&m.IsActive,
		&m.ClientName,
		&m.Notes,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (r *PgxRecurringRepository) FindRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringReservation, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_reservations WHERE recurring_id = $1;`
	m, err := scanRecurring(r.Pool.QueryRow(ctx, query, recurringID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("recurring reservation " + recurringID)
		}
		return nil, mapPgError(err, "failed to find recurring reservation")
	}
	rule := mapping.ToDomainRecurring(m)
	return &rule, nil
}

func (r *PgxRecurringRepository) ListActiveRecurringByField(ctx context.Context, fieldID string, from domain.Date) ([]domain.RecurringReservation, error) {
	query := `SELECT ` + recurringColumns + `
		FROM recurring_reservations
		WHERE field_id = $1 AND is_active AND (end_date IS NULL OR end_date >= $2)
		ORDER BY start_time, recurring_id;`
	rows, err := r.Pool.Query(ctx, query, fieldID, from.Time())
	if err != nil {
		return nil, mapPgError(err, "failed to list recurring reservations")
	}
	defer rows.Close()

	var ms []models.RecurringReservation
	for rows.Next() {
		m, err := scanRecurring(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan recurring reservation")
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating recurring reservations")
	}
	return mapping.ToDomainRecurringSlice(ms), nil
}

func (r *PgxRecurringRepository) SaveRecurring(ctx context.Context, rule domain.RecurringReservation) error {
	m := mapping.ToModelRecurring(rule)
	query := `
		INSERT INTO recurring_reservations (` + recurringColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RecurringID, m.FieldID, m.UserID, m.RecurrenceType, m.DayOfWeek, m.DayOfMonth,
		m.StartTime, m.EndTime, m.StartDate, m.EndDate, m.PaymentAmount, m.IsActive,
		m.ClientName, m.Notes, m.CreatedBy, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return mapPgError(err, "failed to save recurring reservation "+m.RecurringID)
	}
	return nil
}

func (r *PgxRecurringRepository) DeactivateRecurring(ctx context.Context, recurringID string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE recurring_reservations SET is_active = FALSE, updated_at = $2 WHERE recurring_id = $1 AND is_active;`,
		recurringID, at)
	if err != nil {
		return mapPgError(err, "failed to deactivate recurring reservation")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("active recurring reservation " + recurringID)
	}
	return nil
}
