package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Calendar is a row of the calendars table, one booking or open slot.
type Calendar struct {
	CalendarID         string          `db:"calendar_id"`
	FieldID            string          `db:"field_id"`
	UserID             *string         `db:"user_id"`
	CashClosingID      *string         `db:"cash_closing_id"`
	CalendarDate       time.Time       `db:"calendar_date"`
	InitTime           pgtype.Time     `db:"calendar_init_time"`
	EndTime            pgtype.Time     `db:"calendar_end_time"`
	State              string          `db:"calendar_state"`
	PaymentStatus      *string         `db:"payment_status"`
	PaymentReceipt     *string         `db:"payment_receipt"`
	PaymentReceiptDate *time.Time      `db:"payment_receipt_date"`
	PaymentAmount      decimal.Decimal `db:"payment_amount"`
	Transaction        *string         `db:"calendar_transaccion"`
	ApprovedBy         *string         `db:"approved_by"`
	ApprovedDate       *time.Time      `db:"approved_date"`
	RejectionReason    *string         `db:"rejection_reason"`
	CancellationReason *string         `db:"cancellation_reason"`
	Payment            string          `db:"calendar_payment"`
	IsMaterialized     bool            `db:"is_materialized"`
	AuditFields
}
