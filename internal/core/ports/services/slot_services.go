package services

import (
	"context"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
)

// SlotGeneratorSvc derives the bookable slots of a field on a date
type SlotGeneratorSvc interface {
	// GenerateSlots returns the available slots ordered by start time.
	// date must be YYYY-MM-DD.
	GenerateSlots(ctx context.Context, fieldID string, date string) ([]domain.Slot, error)

	// SlotGrid returns every candidate slot with its availability and occupant.
	SlotGrid(ctx context.Context, fieldID string, date string) ([]domain.Slot, error)
}

// SlotMaterializerSvc persists template slots as Disponible rows
type SlotMaterializerSvc interface {
	// MaterializeDay writes the day's template slots that have no row yet and returns how many were written.
	MaterializeDay(ctx context.Context, actor domain.Actor, fieldID string, date string) (int, error)
}

// SlotSvcFacade combines all slot-related service interfaces
type SlotSvcFacade interface {
	SlotGeneratorSvc
	SlotMaterializerSvc
}
