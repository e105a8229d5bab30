package services

import (
	"context"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
)

// CashClosingReaderSvc defines read operations for cash closings
type CashClosingReaderSvc interface {
	GetCashClosing(ctx context.Context, actor domain.Actor, closingID string) (*domain.CashClosing, error)
	ListCashClosings(ctx context.Context, actor domain.Actor, companyID string, params dto.PageParams) (*dto.ListCashClosingsResponse, error)
}

// CashClosingWriterSvc defines write operations for cash closings
type CashClosingWriterSvc interface {
	// CloseCompany sweeps the company's settleable reservations into one closing, all or nothing.
	CloseCompany(ctx context.Context, actor domain.Actor, companyID string) (*domain.CashClosing, error)

	MarkPaid(ctx context.Context, actor domain.Actor, closingID string) (*domain.CashClosing, error)
}

// CashClosingSvcFacade combines all cash-closing service interfaces
type CashClosingSvcFacade interface {
	CashClosingReaderSvc
	CashClosingWriterSvc
}
