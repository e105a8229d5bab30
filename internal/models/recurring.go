package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// RecurringReservation is a row of recurring_reservations.
type RecurringReservation struct {
	RecurringID    string          `db:"recurring_id"`
	FieldID        string          `db:"field_id"`
	UserID         *string         `db:"user_id"`
	RecurrenceType string          `db:"recurrence_type"`
	DayOfWeek      *int16          `db:"day_of_week"`
	DayOfMonth     *int16          `db:"day_of_month"`
	StartTime      pgtype.Time     `db:"start_time"`
	EndTime        pgtype.Time     `db:"end_time"`
	StartDate      time.Time       `db:"start_date"`
	EndDate        *time.Time      `db:"end_date"`
	PaymentAmount  decimal.Decimal `db:"payment_amount"`
	IsActive       bool            `db:"is_active"`
	ClientName     *string         `db:"client_name"`
	Notes          *string         `db:"notes"`
	AuditFields
}
