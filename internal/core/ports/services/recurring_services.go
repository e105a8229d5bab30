package services

import (
	"context"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
)

// RecurringReaderSvc defines read operations for standing reservations
type RecurringReaderSvc interface {
	ListRecurring(ctx context.Context, fieldID string) ([]domain.RecurringReservation, error)

	// OccurrencesOn returns the rules that claim time on the field at date.
	OccurrencesOn(ctx context.Context, fieldID string, date domain.Date) ([]domain.RecurringReservation, error)
}

// RecurringWriterSvc defines write operations for standing reservations
type RecurringWriterSvc interface {
	CreateRecurring(ctx context.Context, actor domain.Actor, fieldID string, req dto.CreateRecurringRequest) (*domain.RecurringReservation, error)
	DeactivateRecurring(ctx context.Context, actor domain.Actor, recurringID string) error
}

// RecurringSvcFacade combines all recurring-reservation service interfaces
type RecurringSvcFacade interface {
	RecurringReaderSvc
	RecurringWriterSvc
}
