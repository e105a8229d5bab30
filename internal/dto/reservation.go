package dto

import (
	"io"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReserveSlotRequest is the body of POST /fields/:fieldId/reserve-slot.
type ReserveSlotRequest struct {
	CalendarDate        string           `json:"calendar_date" binding:"required,caldate"`
	StartTime           string           `json:"start_time" binding:"required,clock"`
	EndTime             string           `json:"end_time" binding:"required,clock"`
	UserID              string           `json:"user_id"`
	CalendarTransaction string           `json:"calendar_transaction"`
	PaymentAmount       *decimal.Decimal `json:"payment_amount"`
}

// CreateCalendarForm is the multipart form of POST /calendars/create.
// The optional receipt travels in the receipt_image part.
type CreateCalendarForm struct {
	FieldID             string `form:"field_id" binding:"required"`
	UserID              string `form:"user_id"`
	CalendarDate        string `form:"calendar_date" binding:"required,caldate"`
	CalendarInitTime    string `form:"calendar_init_time" binding:"required,clock"`
	CalendarEndTime     string `form:"calendar_end_time" binding:"required,clock"`
	CalendarTransaccion string `form:"calendar_transaccion"`
	PaymentAmount       string `form:"payment_amount" binding:"omitempty,numeric"`
}

// UploadReceiptForm holds the non-file fields of POST /calendars/:calendarId/upload-receipt.
type UploadReceiptForm struct {
	PaymentAmount string `form:"payment_amount" binding:"omitempty,numeric"`
}

// ReceiptUpload is an incoming receipt file.
type ReceiptUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Amount      *decimal.Decimal
}

// CreateReservationCommand is the transport-neutral booking request.
type CreateReservationCommand struct {
	FieldID     string
	UserID      string
	Date        string
	StartTime   string
	EndTime     string
	Transaction string
	Amount      *decimal.Decimal
	Receipt     *ReceiptUpload
}

// RejectReservationRequest is the body of PUT /calendars/:calendarId/reject.
type RejectReservationRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

// CancelReservationRequest is the optional body of the cancel endpoints.
type CancelReservationRequest struct {
	Reason string `json:"reason"`
}

// ListPendingParams filters the admin approval queue.
type ListPendingParams struct {
	CompanyID string `form:"company_id"`
	PageParams
}

// FieldDateQuery is the ?date= query used by slot endpoints.
type FieldDateQuery struct {
	Date string `form:"date" binding:"required,caldate"`
}

// ReservationResponse is a reservation as clients see it.
type ReservationResponse struct {
	CalendarID          string                  `json:"calendar_id"`
	FieldID             string                  `json:"field_id"`
	UserID              *string                 `json:"user_id"`
	CalendarDate        domain.Date             `json:"calendar_date"`
	CalendarInitTime    domain.ClockTime        `json:"calendar_init_time"`
	CalendarEndTime     domain.ClockTime        `json:"calendar_end_time"`
	CalendarState       domain.ReservationState `json:"calendar_state"`
	PaymentStatus       *string                 `json:"payment_status"`
	PaymentReceipt      *string                 `json:"payment_receipt"`
	PaymentReceiptDate  *time.Time              `json:"payment_receipt_date"`
	PaymentAmount       decimal.Decimal         `json:"payment_amount"`
	CalendarTransaccion *string                 `json:"calendar_transaccion"`
	CalendarPayment     domain.SettlementStatus `json:"calendar_payment"`
	CashClosingID       *string                 `json:"cash_closing_id,omitempty"`
	ApprovedBy          *string                 `json:"approved_by,omitempty"`
	ApprovedDate        *time.Time              `json:"approved_date,omitempty"`
	RejectionReason     *string                 `json:"rejection_reason,omitempty"`
	CancellationReason  *string                 `json:"cancellation_reason,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

// ToReservationResponse converts a domain.Reservation to its DTO.
func ToReservationResponse(r *domain.Reservation) ReservationResponse {
	var status *string
	if r.PaymentStatus != domain.PaymentNone {
		s := string(r.PaymentStatus)
		status = &s
	}
	return ReservationResponse{
		CalendarID:          r.ReservationID,
		FieldID:             r.FieldID,
		UserID:              r.UserID,
		CalendarDate:        r.Date,
		CalendarInitTime:    r.Start,
		CalendarEndTime:     r.End,
		CalendarState:       r.State,
		PaymentStatus:       status,
		PaymentReceipt:      r.Receipt,
		PaymentReceiptDate:  r.ReceiptDate,
		PaymentAmount:       r.PaymentAmount,
		CalendarTransaccion: r.Transaction,
		CalendarPayment:     r.Settlement,
		CashClosingID:       r.CashClosingID,
		ApprovedBy:          r.ApprovedBy,
		ApprovedDate:        r.ApprovedAt,
		RejectionReason:     r.RejectionReason,
		CancellationReason:  r.CancellationReason,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// ToReservationResponses converts a slice of reservations.
func ToReservationResponses(rs []domain.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, len(rs))
	for i := range rs {
		out[i] = ToReservationResponse(&rs[i])
	}
	return out
}

// CreateReservationResponse is returned by POST /calendars/create.
type CreateReservationResponse struct {
	CalendarID    string                  `json:"calendar_id"`
	ReceiptURL    *string                 `json:"receipt_url"`
	CalendarState domain.ReservationState `json:"calendar_state"`
	PaymentStatus *string                 `json:"payment_status"`
}

// ListReservationsResponse is a page of reservations.
type ListReservationsResponse struct {
	Reservations []ReservationResponse `json:"data"`
	Meta         PageMeta              `json:"meta"`
}
