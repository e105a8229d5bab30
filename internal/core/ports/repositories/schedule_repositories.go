package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
)

// ScheduleReader defines read operations for schedule templates
type ScheduleReader interface {
	// FindTemplateRows returns the normalized rows of a field for one weekday, ordered by start time.
	FindTemplateRows(ctx context.Context, fieldID string, weekday time.Weekday) ([]domain.TemplateRow, error)

	// ListTemplateRows returns every normalized row of a field ordered by weekday and start time.
	ListTemplateRows(ctx context.Context, fieldID string) ([]domain.TemplateRow, error)

	// FindDenseSchedule returns the legacy dense encoding of a field or apperrors.ErrNotFound.
	FindDenseSchedule(ctx context.Context, fieldID string) (*domain.DenseSchedule, error)
}

// ScheduleWriter defines write operations for schedule templates
type ScheduleWriter interface {
	// ReplaceTemplateDay atomically swaps the normalized rows of one weekday.
	ReplaceTemplateDay(ctx context.Context, fieldID string, weekday time.Weekday, rows []domain.TemplateRow) error

	// ImportDenseSchedule stores the dense encoding and, in the same transaction, writes the
	// decoded rows for every weekday that has no normalized rows yet. It returns the weekdays written.
	ImportDenseSchedule(ctx context.Context, dense domain.DenseSchedule, decoded map[time.Weekday][]domain.TemplateRow) ([]time.Weekday, error)
}

// ScheduleRepositoryFacade combines all schedule-related repository interfaces
type ScheduleRepositoryFacade interface {
	ScheduleReader
	ScheduleWriter
}
