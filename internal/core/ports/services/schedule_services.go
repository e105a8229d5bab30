package services

import (
	"context"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
)

// ScheduleTemplateReaderSvc resolves weekday templates
type ScheduleTemplateReaderSvc interface {
	// GetTemplate returns the configured template, normalized rows first and the
	// dense encoding second, or apperrors.ErrNotFound.
	GetTemplate(ctx context.Context, fieldID string, weekday time.Weekday) (*domain.ScheduleTemplate, error)

	// ListWeek returns the effective template of every weekday, default grid included.
	ListWeek(ctx context.Context, fieldID string) ([]domain.ScheduleTemplate, error)
}

// ScheduleTemplateWriterSvc edits weekday templates
type ScheduleTemplateWriterSvc interface {
	ReplaceDay(ctx context.Context, actor domain.Actor, fieldID string, weekday time.Weekday, req dto.ReplaceScheduleDayRequest) (*domain.ScheduleTemplate, error)

	// ImportDense normalizes a legacy dense schedule into template rows.
	ImportDense(ctx context.Context, actor domain.Actor, fieldID string, req dto.ImportDenseScheduleRequest) ([]time.Weekday, error)
}

// ScheduleSvcFacade combines all schedule-related service interfaces
type ScheduleSvcFacade interface {
	ScheduleTemplateReaderSvc
	ScheduleTemplateWriterSvc
}
