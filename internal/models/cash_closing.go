package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashClosing is a row of cash_closings.
type CashClosing struct {
	CashClosingID  string          `db:"cash_closing_id"`
	CompanyID      string          `db:"company_id"`
	ReservationIDs []string        `db:"reservation_ids"`
	Total          decimal.Decimal `db:"cash_closing_total"`
	Date           time.Time       `db:"cash_closing_date"`
	State          string          `db:"cash_closing_state"`
	AuditFields
}
