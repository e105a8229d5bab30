package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationEventType names an outbound reservation event.
type ReservationEventType string

const (
	EventReservationConfirmed ReservationEventType = "reservation.confirmed"
	EventReservationCancelled ReservationEventType = "reservation.cancelled"
)

// ReservationEvent is published after a committed state change.
type ReservationEvent struct {
	Type          ReservationEventType `json:"type"`
	ReservationID string               `json:"calendar_id"`
	FieldID       string               `json:"field_id"`
	UserID        string               `json:"user_id,omitempty"`
	Date          Date                 `json:"calendar_date"`
	Start         ClockTime            `json:"start_time"`
	End           ClockTime            `json:"end_time"`
	State         ReservationState     `json:"calendar_state"`
	Amount        decimal.Decimal      `json:"payment_amount"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// NewReservationEvent snapshots r.
func NewReservationEvent(t ReservationEventType, r Reservation, userID string, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          t,
		ReservationID: r.ReservationID,
		FieldID:       r.FieldID,
		UserID:        userID,
		Date:          r.Date,
		Start:         r.Start,
		End:           r.End,
		State:         r.State,
		Amount:        r.PaymentAmount,
		OccurredAt:    at,
	}
}
