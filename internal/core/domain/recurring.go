package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceType is how often a standing booking repeats.
type RecurrenceType string

const (
	RecurrenceWeekly  RecurrenceType = "semanal"
	RecurrenceMonthly RecurrenceType = "mensual"
)

// RecurringReservation is a standing claim removing matching slots on every
// qualifying date of its validity window.
type RecurringReservation struct {
	RecurringID   string          `json:"recurring_id"`
	FieldID       string          `json:"field_id"`
	UserID        *string         `json:"user_id,omitempty"`
	Type          RecurrenceType  `json:"recurrence_type"`
	DayOfWeek     *time.Weekday   `json:"day_of_week,omitempty"`
	DayOfMonth    *int            `json:"day_of_month,omitempty"`
	Start         ClockTime       `json:"start_time"`
	End           ClockTime       `json:"end_time"`
	StartDate     Date            `json:"start_date"`
	EndDate       *Date           `json:"end_date,omitempty"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	IsActive      bool            `json:"is_active"`
	ClientName    string          `json:"client_name,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	AuditFields
}

func (r RecurringReservation) Interval() Interval { return Interval{Start: r.Start, End: r.End} }

// OccursOn reports whether the rule claims its interval on date d.
func (r RecurringReservation) OccursOn(d Date) bool {
	if !r.IsActive || d.Before(r.StartDate) {
		return false
	}
	if r.EndDate != nil && d.After(*r.EndDate) {
		return false
	}
	switch r.Type {
	case RecurrenceWeekly:
		return r.DayOfWeek != nil && *r.DayOfWeek == d.Weekday()
	case RecurrenceMonthly:
		return r.DayOfMonth != nil && *r.DayOfMonth == d.Day
	}
	return false
}

// MayShareDay reports whether two rules can ever fall on the same date.
// Weekly/monthly pairs are treated as colliding since some month will line up.
func (r RecurringReservation) MayShareDay(o RecurringReservation) bool {
	if r.EndDate != nil && o.StartDate.After(*r.EndDate) {
		return false
	}
	if o.EndDate != nil && r.StartDate.After(*o.EndDate) {
		return false
	}
	if r.Type == RecurrenceWeekly && o.Type == RecurrenceWeekly {
		return r.DayOfWeek != nil && o.DayOfWeek != nil && *r.DayOfWeek == *o.DayOfWeek
	}
	if r.Type == RecurrenceMonthly && o.Type == RecurrenceMonthly {
		return r.DayOfMonth != nil && o.DayOfMonth != nil && *r.DayOfMonth == *o.DayOfMonth
	}
	return true
}

// Validate checks the rule shape.
func (r RecurringReservation) Validate() error {
	if err := r.Interval().Validate(); err != nil {
		return err
	}
	if r.StartDate.IsZero() {
		return errors.New("start_date is required")
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return errors.New("end_date must not be before start_date")
	}
	switch r.Type {
	case RecurrenceWeekly:
		if r.DayOfWeek == nil || *r.DayOfWeek < time.Sunday || *r.DayOfWeek > time.Saturday {
			return errors.New("weekly recurrence requires day_of_week 0-6")
		}
	case RecurrenceMonthly:
		if r.DayOfMonth == nil || *r.DayOfMonth < 1 || *r.DayOfMonth > 31 {
			return errors.New("monthly recurrence requires day_of_month 1-31")
		}
	default:
		return errors.New("recurrence_type must be semanal or mensual")
	}
	if r.PaymentAmount.IsNegative() {
		return errors.New("payment_amount must not be negative")
	}
	return nil
}
