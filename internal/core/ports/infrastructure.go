package ports

import (
	"context"
	"io"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
)

// SlotCache keeps recently computed slot grids. Implementations must treat
// every failure as a miss.
type SlotCache interface {
	GetGrid(ctx context.Context, fieldID string, date domain.Date) ([]domain.Slot, bool)
	SetGrid(ctx context.Context, fieldID string, date domain.Date, grid []domain.Slot)
	Invalidate(ctx context.Context, fieldID string, date domain.Date)
	// InvalidateField drops every cached date of a field.
	InvalidateField(ctx context.Context, fieldID string)
}

// EventPublisher ships reservation events to other systems after commit.
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, evt domain.ReservationEvent) error
}

// ReceiptStore persists payment receipt files and returns a reference clients can fetch.
type ReceiptStore interface {
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, ref string) error
}
