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
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const calendarColumns = `c.calendar_id, c.field_id, c.user_id, c.cash_closing_id, c.calendar_date,
	c.calendar_init_time, c.calendar_end_time, c.calendar_state, c.payment_status, c.payment_receipt,
	c.payment_receipt_date, c.payment_amount, c.calendar_transaccion, c.approved_by, c.approved_date,
	c.rejection_reason, c.cancellation_reason, c.calendar_payment, c.is_materialized,
	c.created_by, c.created_at, c.updated_at`

// nonBlockingStates is the SQL twin of domain.NonBlockingStates.
var nonBlockingStates = func() []string {
	out := make([]string, len(domain.NonBlockingStates))
	for i, s := range domain.NonBlockingStates {
		out[i] = string(s)
	}
	return out
}()

// PgxReservationRepository stores calendar rows. Writers run inside a
// caller-owned transaction holding the field-day advisory lock.
type PgxReservationRepository struct {
	BaseRepository
}

func newPgxReservationRepository(pool *pgxpool.Pool) *PgxReservationRepository {
	return &PgxReservationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReservationRepositoryWithTx = (*PgxReservationRepository)(nil)

func scanCalendar(row pgx.Row) (models.Calendar, error) {
	var m models.Calendar
	err := row.Scan(
		&m.CalendarID,
		&m.FieldID,
		&m.UserID,
		&m.CashClosingID,
		&m.CalendarDate,
		&m.InitTime,
		&m.EndTime,
		&m.State,
		&m.PaymentStatus,
		&m.PaymentReceipt,
		&m.PaymentReceiptDate,
		&m.PaymentAmount,
		&m.Transaction,
		&m.ApprovedBy,
		&m.ApprovedDate,
		&m.RejectionReason,
		&m.CancellationReason,
		&m.Payment,
		&m.IsMaterialized,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func collectCalendars(rows pgx.Rows) ([]domain.Reservation, error) {
	defer rows.Close()
	var ms []models.Calendar
	for rows.Next() {
		m, err := scanCalendar(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan reservation")
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating reservations")
	}
	return mapping.ToDomainReservationSlice(ms), nil
}

func findReservation(ctx context.Context, q querier, query, reservationID string) (*domain.Reservation, error) {
	m, err := scanCalendar(q.QueryRow(ctx, query, reservationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("reservation " + reservationID)
		}
		return nil, mapPgError(err, "failed to find reservation "+reservationID)
	}
	r := mapping.ToDomainReservation(m)
	return &r, nil
}

func (r *PgxReservationRepository) FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendars c WHERE c.calendar_id = $1;`
	return findReservation(ctx, r.Pool, query, reservationID)
}

func (r *PgxReservationRepository) ListReservationsByFieldDate(ctx context.Context, fieldID string, date domain.Date) ([]domain.Reservation, error) {
	return listDayRows(ctx, r.Pool, fieldID, date, false)
}

func (r *PgxReservationRepository) ListBlockingOverlapping(ctx context.Context, fieldID string, from domain.Date, until *domain.Date, iv domain.Interval) ([]domain.Reservation, error) {
	var untilArg *time.Time
	if until != nil {
		t := until.Time()
		untilArg = &t
	}
	query := `SELECT ` + calendarColumns + `
		FROM calendars c
		WHERE c.field_id = $1
		  AND c.calendar_date >= $2
		  AND ($3::date IS NULL OR c.calendar_date <= $3::date)
		  AND c.calendar_init_time < $5
		  AND $4 < c.calendar_end_time
		  AND c.calendar_state <> ALL($6)
		ORDER BY c.calendar_date, c.calendar_init_time;`
	rows, err := r.Pool.Query(ctx, query, fieldID, from.Time(), untilArg, mapping.ToPgTime(iv.Start), mapping.ToPgTime(iv.End), nonBlockingStates)
	if err != nil {
		return nil, mapPgError(err, "failed to list overlapping reservations")
	}
	return collectCalendars(rows)
}

func (r *PgxReservationRepository) ListPendingApproval(ctx context.Context, filter portsrepo.ReservationFilter) ([]domain.Reservation, int, error) {
	where := `
		FROM calendars c
		JOIN fields f ON f.field_id = c.field_id
		WHERE c.payment_status = 'pendiente'
		  AND c.payment_receipt IS NOT NULL
		  AND ($1 = '' OR f.company_id = $1)`

	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*)`+where+`;`, filter.CompanyID).Scan(&total); err != nil {
		return nil, 0, mapPgError(err, "failed to count pending reservations")
	}

	query := `SELECT ` + calendarColumns + where + `
		ORDER BY c.calendar_date ASC, c.calendar_init_time ASC
		LIMIT $2 OFFSET $3;`
	rows, err := r.Pool.Query(ctx, query, filter.CompanyID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, mapPgError(err, "failed to list pending reservations")
	}
	list, err := collectCalendars(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PgxReservationRepository) ListReservationsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Reservation, int, error) {
	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM calendars WHERE user_id = $1;`, userID).Scan(&total); err != nil {
		return nil, 0, mapPgError(err, "failed to count user reservations")
	}
	query := `SELECT ` + calendarColumns + `
		FROM calendars c
		WHERE c.user_id = $1
		ORDER BY c.calendar_date DESC, c.calendar_init_time DESC
		LIMIT $2 OFFSET $3;`
	rows, err := r.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, mapPgError(err, "failed to list user reservations")
	}
	list, err := collectCalendars(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// LockFieldDay takes a transaction-scoped advisory lock keyed by field and date.
func (r *PgxReservationRepository) LockFieldDay(ctx context.Context, tx pgx.Tx, fieldID string, date domain.Date) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0));`, fieldID+"|"+date.String()); err != nil {
		return mapPgError(err, "failed to lock field day")
	}
	return nil
}

func (r *PgxReservationRepository) FindBlockingInTx(ctx context.Context, tx pgx.Tx, fieldID string, date domain.Date, iv domain.Interval) ([]domain.Reservation, error) {
	query := `SELECT ` + calendarColumns + `
		FROM calendars c
		WHERE c.field_id = $1
		  AND c.calendar_date = $2
		  AND c.calendar_init_time < $4
		  AND $3 < c.calendar_end_time
		  AND c.calendar_state <> ALL($5)
		ORDER BY c.calendar_init_time
		FOR UPDATE;`
	rows, err := tx.Query(ctx, query, fieldID, date.Time(), mapping.ToPgTime(iv.Start), mapping.ToPgTime(iv.End), nonBlockingStates)
	if err != nil {
		return nil, mapPgError(err, "failed to check overlapping reservations")
	}
	return collectCalendars(rows)
}

func (r *PgxReservationRepository) FindOpenSlotInTx(ctx context.Context, tx pgx.Tx, fieldID string, date domain.Date, iv domain.Interval) (*domain.Reservation, error) {
	query := `SELECT ` + calendarColumns + `
		FROM calendars c
		WHERE c.field_id = $1
		  AND c.calendar_date = $2
		  AND c.calendar_init_time = $3
		  AND c.calendar_end_time = $4
		  AND c.calendar_state = $5
		ORDER BY c.created_at
		LIMIT 1
		FOR UPDATE;`
	m, err := scanCalendar(tx.QueryRow(ctx, query, fieldID, date.Time(), mapping.ToPgTime(iv.Start), mapping.ToPgTime(iv.End), string(domain.StateAvailable)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapPgError(err, "failed to find open slot")
	}
	slot := mapping.ToDomainReservation(m)
	return &slot, nil
}

func (r *PgxReservationRepository) FindReservationByIDForUpdate(ctx context.Context, tx pgx.Tx, reservationID string) (*domain.Reservation, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendars c WHERE c.calendar_id = $1 FOR UPDATE;`
	return findReservation(ctx, tx, query, reservationID)
}

func (r *PgxReservationRepository) InsertReservationInTx(ctx context.Context, tx pgx.Tx, res domain.Reservation) error {
	m := mapping.ToModelCalendar(res)
	query := `
		INSERT INTO calendars (
			calendar_id, field_id, user_id, cash_closing_id, calendar_date, calendar_init_time, calendar_end_time,
			calendar_state, payment_status, payment_receipt, payment_receipt_date, payment_amount,
			calendar_transaccion, approved_by, approved_date, rejection_reason, cancellation_reason,
			calendar_payment, is_materialized, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := tx.Exec(ctx, query,
		m.CalendarID, m.FieldID, m.UserID, m.CashClosingID, m.CalendarDate, m.InitTime, m.EndTime,
		m.State, m.PaymentStatus, m.PaymentReceipt, m.PaymentReceiptDate, m.PaymentAmount,
		m.Transaction, m.ApprovedBy, m.ApprovedDate, m.RejectionReason, m.CancellationReason,
		m.Payment, m.IsMaterialized, m.CreatedBy, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return mapPgError(err, "failed to insert reservation "+m.CalendarID)
	}
	return nil
}

func (r *PgxReservationRepository) UpdateReservationInTx(ctx context.Context, tx pgx.Tx, res domain.Reservation) error {
	m := mapping.ToModelCalendar(res)
	query := `
		UPDATE calendars SET
			user_id = $2, cash_closing_id = $3, calendar_state = $4, payment_status = $5,
			payment_receipt = $6, payment_receipt_date = $7, payment_amount = $8,
			calendar_transaccion = $9, approved_by = $10, approved_date = $11,
			rejection_reason = $12, cancellation_reason = $13, calendar_payment = $14,
			created_by = $15, updated_at = $16
		WHERE calendar_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.CalendarID, m.UserID, m.CashClosingID, m.State, m.PaymentStatus,
		m.PaymentReceipt, m.PaymentReceiptDate, m.PaymentAmount,
		m.Transaction, m.ApprovedBy, m.ApprovedDate,
		m.RejectionReason, m.CancellationReason, m.Payment,
		m.CreatedBy, m.UpdatedAt,
	)
	if err != nil {
		return mapPgError(err, "failed to update reservation "+m.CalendarID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("reservation " + m.CalendarID)
	}
	return nil
}

func (r *PgxReservationRepository) ListDayRowsInTx(ctx context.Context, tx pgx.Tx, fieldID string, date domain.Date) ([]domain.Reservation, error) {
	return listDayRows(ctx, tx, fieldID, date, true)
}

func listDayRows(ctx context.Context, q querier, fieldID string, date domain.Date, lock bool) ([]domain.Reservation, error) {
	query := `SELECT ` + calendarColumns + `
		FROM calendars c
		WHERE c.field_id = $1 AND c.calendar_date = $2
		ORDER BY c.calendar_init_time, c.created_at`
	if lock {
		query += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, query+";", fieldID, date.Time())
	if err != nil {
		return nil, mapPgError(err, "failed to list reservations for field day")
	}
	return collectCalendars(rows)
}

func (r *PgxReservationRepository) LockSettlementCandidatesInTx(ctx context.Context, tx pgx.Tx, companyID string) ([]domain.Reservation, error) {
	settleable := make([]string, len(domain.SettleableStates))
	for i, s := range domain.SettleableStates {
		settleable[i] = string(s)
	}
	query := `SELECT ` + calendarColumns + `
		FROM calendars c
		JOIN fields f ON f.field_id = c.field_id
		WHERE f.company_id = $1
		  AND f.field_delete = FALSE
		  AND c.calendar_state = ANY($2)
		  AND c.calendar_payment = $3
		ORDER BY c.calendar_date, c.calendar_init_time
		FOR UPDATE OF c;`
	rows, err := tx.Query(ctx, query, companyID, settleable, string(domain.SettlementPending))
	if err != nil {
		return nil, mapPgError(err, "failed to lock settlement candidates")
	}
	return collectCalendars(rows)
}

func (r *PgxReservationRepository) MarkClosedInTx(ctx context.Context, tx pgx.Tx, reservationIDs []string, closingID string, at time.Time) error {
	if len(reservationIDs) == 0 {
		return nil
	}
	query := `
		UPDATE calendars
		SET calendar_payment = $3, payment_status = $4, cash_closing_id = $2, updated_at = $5
		WHERE calendar_id = ANY($1) AND calendar_payment = $6;
	`
	tag, err := tx.Exec(ctx, query, reservationIDs, closingID,
		string(domain.SettlementClosed), string(domain.PaymentClosed), at, string(domain.SettlementPending))
	if err != nil {
		return mapPgError(err, "failed to mark reservations closed")
	}
	if int(tag.RowsAffected()) != len(reservationIDs) {
		return apperrors.NewInvalidStateError("some reservations were settled concurrently")
	}
	return nil
}

// CompletePast moves bookings whose end instant is before now to Completada.
func (r *PgxReservationRepository) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE calendars
		SET calendar_state = $1, updated_at = $2
		WHERE calendar_state IN ($3, $4)
		  AND calendar_date + calendar_end_time < $5;
	`
	// Booking times are wall-clock times of the venue; now is compared in its own location.
	tag, err := r.Pool.Exec(ctx, query,
		string(domain.StateCompleted), now,
		string(domain.StateConfirmed), string(domain.StateReserved),
		pgtype.Timestamp{Time: now, Valid: true})
	if err != nil {
		return 0, mapPgError(err, "failed to complete past reservations")
	}
	return tag.RowsAffected(), nil
}
