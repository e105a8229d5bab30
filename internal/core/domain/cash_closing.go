package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashClosingState is cash_closing_state.
type CashClosingState string

const (
	ClosingUnprocessed CashClosingState = "Sin Procesar"
	ClosingPending     CashClosingState = "Pendiente"
	ClosingClosed      CashClosingState = "Cerrado"
	ClosingPaid        CashClosingState = "Pagado"
)

// CashClosing is a settlement batch of a company's reservations. The id list
// is written once and never edited.
type CashClosing struct {
	CashClosingID  string           `json:"cash_closing_id"`
	CompanyID      string           `json:"company_id"`
	ReservationIDs []string         `json:"reservation_ids"`
	Total          decimal.Decimal  `json:"cash_closing_total"`
	Date           Date             `json:"cash_closing_date"`
	State          CashClosingState `json:"cash_closing_state"`
	AuditFields
}

// NewCashClosing batches the given reservations in order and sums their amounts.
func NewCashClosing(id, companyID string, reservations []Reservation, by string, now time.Time) CashClosing {
	ids := make([]string, len(reservations))
	total := decimal.Zero
	for i, r := range reservations {
		ids[i] = r.ReservationID
		total = total.Add(r.PaymentAmount)
	}
	return CashClosing{
		CashClosingID:  id,
		CompanyID:      companyID,
		ReservationIDs: ids,
		Total:          total,
		Date:           DateOf(now),
		State:          ClosingPending,
		AuditFields:    AuditFields{CreatedAt: now, CreatedBy: by, UpdatedAt: now},
	}
}

// CanMarkPaid reports whether the closing may move to Pagado.
func (c CashClosing) CanMarkPaid() bool {
	return c.State == ClosingPending || c.State == ClosingClosed
}
