package dto

import "github.com/SscSPs/cancha_booking_app/internal/core/domain"

// ListCashClosingsResponse is a page of cash closings.
type ListCashClosingsResponse struct {
	CashClosings []domain.CashClosing `json:"data"`
	Meta         PageMeta             `json:"meta"`
}
