package services

import (
	"context"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
)

// ReservationReaderSvc defines read operations for reservations
type ReservationReaderSvc interface {
	GetReservation(ctx context.Context, actor domain.Actor, reservationID string) (*domain.Reservation, error)

	// ListFieldReservations returns the booked rows (Reservada, Por Confirmar and the other blocking states) of a field-day.
	ListFieldReservations(ctx context.Context, fieldID string, date string) ([]domain.Reservation, error)

	ListPendingApproval(ctx context.Context, actor domain.Actor, params dto.ListPendingParams) (*dto.ListReservationsResponse, error)
	ListMyReservations(ctx context.Context, actor domain.Actor, params dto.PageParams) (*dto.ListReservationsResponse, error)
}

// ReservationWriterSvc drives the reservation state machine
type ReservationWriterSvc interface {
	// CreateReservation books an interval atomically; overlaps fail with apperrors.ErrConflict.
	CreateReservation(ctx context.Context, actor domain.Actor, req dto.CreateReservationCommand) (*domain.Reservation, error)

	AttachReceipt(ctx context.Context, actor domain.Actor, reservationID string, receipt dto.ReceiptUpload) (*domain.Reservation, error)
	ApproveReservation(ctx context.Context, actor domain.Actor, reservationID string) (*domain.Reservation, error)
	RejectReservation(ctx context.Context, actor domain.Actor, reservationID string, reason string) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, actor domain.Actor, reservationID string, reason string) (*domain.Reservation, error)
	ConfirmReservation(ctx context.Context, actor domain.Actor, reservationID string) (*domain.Reservation, error)

	// CompletePast marks bookings whose end passed before now as Completada.
	CompletePast(ctx context.Context, now time.Time) (int64, error)
}

// ReservationSvcFacade combines all reservation service interfaces
type ReservationSvcFacade interface {
	ReservationReaderSvc
	ReservationWriterSvc
}
