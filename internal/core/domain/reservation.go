package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ReservationState is the calendar_state of a reservation row. Values are the
// literal strings clients see.
type ReservationState string

const (
	StateAvailable      ReservationState = "Disponible"
	StateReserved       ReservationState = "Reservada"
	StateUnavailable    ReservationState = "No Disponible"
	StateByConfirmation ReservationState = "Por Confirmar"
	StateConfirmed      ReservationState = "Confirmada"
	StateCompleted      ReservationState = "Completada"
	StateCancelled      ReservationState = "Cancelada"
	StatePending        ReservationState = "Pendiente"
	StateApproved       ReservationState = "Aprobada"
	StateRejected       ReservationState = "Rechazada"
)

// NonBlockingStates never take part in conflict detection.
var NonBlockingStates = []ReservationState{StateCancelled, StateRejected, StateAvailable}

// BlocksSlot reports whether a reservation in state s occupies its interval.
func (s ReservationState) BlocksSlot() bool {
	for _, nb := range NonBlockingStates {
		if s == nb {
			return false
		}
	}
	return true
}

// Valid reports whether s is one of the known wire values.
func (s ReservationState) Valid() bool {
	switch s {
	case StateAvailable, StateReserved, StateUnavailable, StateByConfirmation, StateConfirmed,
		StateCompleted, StateCancelled, StatePending, StateApproved, StateRejected:
		return true
	}
	return false
}

// PaymentStatus tracks the receipt review. Empty means no payment yet.
type PaymentStatus string

const (
	PaymentNone     PaymentStatus = ""
	PaymentPending  PaymentStatus = "pendiente"
	PaymentApproved PaymentStatus = "aprobado"
	PaymentRejected PaymentStatus = "rechazado"
	PaymentClosed   PaymentStatus = "cerrado"
)

// SettlementStatus is calendar_payment: whether the booking was swept into a cash closing.
type SettlementStatus string

const (
	SettlementPending SettlementStatus = "Pendiente"
	SettlementClosed  SettlementStatus = "Cerrado"
)

// SettleableStates may be swept into a cash closing.
var SettleableStates = []ReservationState{StateConfirmed, StateApproved, StateReserved}

// Reservation is a calendar entry: one interval of one field on one date.
type Reservation struct {
	ReservationID      string           `json:"calendar_id"`
	FieldID            string           `json:"field_id"`
	UserID             *string          `json:"user_id,omitempty"`
	CashClosingID      *string          `json:"cash_closing_id,omitempty"`
	Date               Date             `json:"calendar_date"`
	Start              ClockTime        `json:"calendar_init_time"`
	End                ClockTime        `json:"calendar_end_time"`
	State              ReservationState `json:"calendar_state"`
	PaymentStatus      PaymentStatus    `json:"payment_status,omitempty"`
	Receipt            *string          `json:"payment_receipt,omitempty"`
	ReceiptDate        *time.Time       `json:"payment_receipt_date,omitempty"`
	PaymentAmount      decimal.Decimal  `json:"payment_amount"`
	Transaction        *string          `json:"calendar_transaccion,omitempty"`
	ApprovedBy         *string          `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time       `json:"approved_date,omitempty"`
	RejectionReason    *string          `json:"rejection_reason,omitempty"`
	CancellationReason *string          `json:"cancellation_reason,omitempty"`
	Settlement         SettlementStatus `json:"calendar_payment"`
	Materialized       bool             `json:"is_materialized"`
	AuditFields
}

func (r Reservation) Interval() Interval { return Interval{Start: r.Start, End: r.End} }

// Blocks reports whether r occupies iv on its date.
func (r Reservation) Blocks(iv Interval) bool {
	return r.State.BlocksSlot() && r.Interval().Overlaps(iv)
}

// HasReceipt reports whether a payment receipt is attached.
func (r Reservation) HasReceipt() bool {
	return r.Receipt != nil && strings.TrimSpace(*r.Receipt) != ""
}

// BelongsTo reports whether userID booked r.
func (r Reservation) BelongsTo(userID string) bool {
	return r.UserID != nil && *r.UserID == userID
}

// Settleable reports whether r can be swept into a cash closing.
func (r Reservation) Settleable() bool {
	if r.Settlement != SettlementPending {
		return false
	}
	for _, s := range SettleableStates {
		if r.State == s {
			return true
		}
	}
	return false
}

// NewOpenSlot returns an Available row for a materialized template slot.
func NewOpenSlot(id, fieldID string, date Date, iv Interval, now time.Time) Reservation {
	return Reservation{
		ReservationID: id,
		FieldID:       fieldID,
		Date:          date,
		Start:         iv.Start,
		End:           iv.End,
		State:         StateAvailable,
		Settlement:    SettlementPending,
		PaymentAmount: decimal.Zero,
		Materialized:  true,
		AuditFields:   AuditFields{CreatedAt: now, UpdatedAt: now},
	}
}

// Claim books an Available materialized row for userID. The row keeps its id.
func (r *Reservation) Claim(userID *string, transaction *string, amount decimal.Decimal, by string, now time.Time) error {
	if r.State != StateAvailable {
		return apperrors.NewConflictError("slot is no longer available")
	}
	r.UserID = userID
	r.Transaction = transaction
	r.PaymentAmount = amount
	r.State = StatePending
	r.PaymentStatus = PaymentNone
	r.Settlement = SettlementPending
	r.CancellationReason = nil
	r.CreatedBy = by
	r.UpdatedAt = now
	return nil
}

// AttachReceipt records a payment receipt and queues the booking for review.
// Every call overwrites the previous receipt.
func (r *Reservation) AttachReceipt(ref string, amount *decimal.Decimal, now time.Time) error {
	if strings.TrimSpace(ref) == "" {
		return apperrors.NewValidationError("receipt is required")
	}
	switch r.State {
	case StatePending, StateByConfirmation, StateReserved:
	default:
		return apperrors.NewInvalidStateError("cannot attach a receipt to a reservation in state " + string(r.State))
	}
	if r.PaymentStatus == PaymentApproved || r.Settlement == SettlementClosed {
		return apperrors.NewInvalidStateError("payment already approved")
	}
	r.Receipt = &ref
	r.ReceiptDate = &now
	if amount != nil && amount.IsPositive() {
		r.PaymentAmount = *amount
	}
	r.PaymentStatus = PaymentPending
	r.State = StateByConfirmation
	r.RejectionReason = nil
	r.UpdatedAt = now
	return nil
}

// Approve accepts the pending payment and confirms the booking.
func (r *Reservation) Approve(approverID string, now time.Time) error {
	if !r.HasReceipt() {
		return apperrors.NewInvalidStateError("reservation has no payment receipt")
	}
	if r.PaymentStatus == PaymentApproved || r.PaymentStatus == PaymentClosed {
		return apperrors.NewNotFoundError("pending payment for reservation " + r.ReservationID)
	}
	if r.PaymentStatus != PaymentPending {
		return apperrors.NewInvalidStateError("payment is not pending review")
	}
	r.PaymentStatus = PaymentApproved
	r.State = StateConfirmed
	r.ApprovedBy = &approverID
	r.ApprovedAt = &now
	r.RejectionReason = nil
	r.UpdatedAt = now
	return nil
}

// Reject refuses the payment. The booking returns to Pendiente so the user can resubmit.
func (r *Reservation) Reject(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperrors.NewValidationError("rejection_reason is required")
	}
	switch r.State {
	case StateCancelled, StateCompleted, StateAvailable:
		return apperrors.NewInvalidStateError("cannot reject a reservation in state " + string(r.State))
	}
	if r.Settlement == SettlementClosed {
		return apperrors.NewInvalidStateError("reservation already included in a cash closing")
	}
	r.PaymentStatus = PaymentRejected
	r.State = StatePending
	r.RejectionReason = &reason
	r.ApprovedBy = nil
	r.ApprovedAt = nil
	r.UpdatedAt = now
	return nil
}

// CheckCancellable fails with InvalidState when nothing is left to cancel.
// Cancel clears the user, so callers check this before ownership.
func (r Reservation) CheckCancellable() error {
	switch r.State {
	case StateCancelled, StateCompleted:
		return apperrors.NewInvalidStateError("reservation is already " + string(r.State))
	case StateAvailable:
		return apperrors.NewInvalidStateError("slot is not booked")
	}
	if r.Settlement == SettlementClosed {
		return apperrors.NewInvalidStateError("reservation already included in a cash closing")
	}
	return nil
}

// Cancel frees the interval. Materialized rows go back to Disponible so
// "never booked" stays distinguishable from "booked then cancelled".
func (r *Reservation) Cancel(reason string, now time.Time) error {
	if err := r.CheckCancellable(); err != nil {
		return err
	}
	r.UserID = nil
	r.Transaction = nil
	r.PaymentStatus = PaymentNone
	r.Receipt = nil
	r.ReceiptDate = nil
	r.PaymentAmount = decimal.Zero
	r.ApprovedBy = nil
	r.ApprovedAt = nil
	r.RejectionReason = nil
	if reason = strings.TrimSpace(reason); reason != "" {
		r.CancellationReason = &reason
	} else {
		r.CancellationReason = nil
	}
	if r.Materialized {
		r.State = StateAvailable
	} else {
		r.State = StateCancelled
	}
	r.UpdatedAt = now
	return nil
}

// ConfirmLegacy is the administrative Por Confirmar to Confirmada move.
func (r *Reservation) ConfirmLegacy(now time.Time) error {
	switch r.State {
	case StateByConfirmation, StateReserved:
	default:
		return apperrors.NewInvalidStateError("only reservations awaiting confirmation can be confirmed, state is " + string(r.State))
	}
	r.State = StateConfirmed
	r.UpdatedAt = now
	return nil
}

// MarkClosed records that r was swept into closingID. State is left as is.
func (r *Reservation) MarkClosed(closingID string, now time.Time) error {
	if !r.Settleable() {
		return apperrors.NewInvalidStateError("reservation " + r.ReservationID + " is not awaiting settlement")
	}
	r.Settlement = SettlementClosed
	r.PaymentStatus = PaymentClosed
	r.CashClosingID = &closingID
	r.UpdatedAt = now
	return nil
}
