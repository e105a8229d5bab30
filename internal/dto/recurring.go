package dto

import "github.com/shopspring/decimal"

// CreateRecurringRequest defines a standing weekly or monthly booking.
type CreateRecurringRequest struct {
	UserID         *string         `json:"user_id"`
	RecurrenceType string          `json:"recurrence_type" binding:"required,oneof=semanal mensual"`
	DayOfWeek      *int            `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	DayOfMonth     *int            `json:"day_of_month" binding:"omitempty,min=1,max=31"`
	StartTime      string          `json:"start_time" binding:"required,clock"`
	EndTime        string          `json:"end_time" binding:"required,clock"`
	StartDate      string          `json:"start_date" binding:"required,caldate"`
	EndDate        *string         `json:"end_date" binding:"omitempty,caldate"`
	PaymentAmount  decimal.Decimal `json:"payment_amount"`
	ClientName     string          `json:"client_name"`
	Notes          string          `json:"notes"`
}
