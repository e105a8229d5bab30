package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
)

type scheduleService struct {
	BaseService
	fieldRepo    portsrepo.FieldReader
	scheduleRepo portsrepo.ScheduleRepositoryFacade
	grid         domain.DefaultGrid
}

// ScheduleOption configures the schedule service
type ScheduleOption func(*scheduleService)

// WithScheduleDefaultGrid overrides the grid shown for unconfigured weekdays.
func WithScheduleDefaultGrid(g domain.DefaultGrid) ScheduleOption {
	return func(s *scheduleService) {
		s.grid = g
	}
}

// NewScheduleService creates the schedule template service.
func NewScheduleService(fieldRepo portsrepo.FieldReader, scheduleRepo portsrepo.ScheduleRepositoryFacade, options ...ScheduleOption) portssvc.ScheduleSvcFacade {
	svc := &scheduleService{
		fieldRepo:    fieldRepo,
		scheduleRepo: scheduleRepo,
		grid:         domain.StandardGrid,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ScheduleSvcFacade = (*scheduleService)(nil)

// GetTemplate resolves normalized rows first, then the dense encoding.
func (s *scheduleService) GetTemplate(ctx context.Context, fieldID string, weekday time.Weekday) (*domain.ScheduleTemplate, error) {
	rows, err := s.scheduleRepo.FindTemplateRows(ctx, fieldID, weekday)
	if err != nil {
		s.LogError(ctx, err, "Failed to load schedule rows", slog.String("field_id", fieldID), slog.Int("weekday", int(weekday)))
		return nil, err
	}
	if len(rows) > 0 {
		return &domain.ScheduleTemplate{FieldID: fieldID, Weekday: weekday, Source: domain.SourceNormalized, Rows: rows}, nil
	}

	dense, err := s.scheduleRepo.FindDenseSchedule(ctx, fieldID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load dense schedule", slog.String("field_id", fieldID))
		}
		return nil, err
	}
	encoded, ok := dense.Days[weekday]
	if !ok || encoded == "" {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("schedule for field %s on %s", fieldID, weekday))
	}
	decoded, err := domain.DecodeDenseDay(fieldID, weekday, encoded)
	if err != nil {
		s.LogError(ctx, err, "Stored dense schedule is malformed", slog.String("field_id", fieldID), slog.Int("weekday", int(weekday)))
		return nil, apperrors.NewValidationError(err.Error())
	}
	return &domain.ScheduleTemplate{FieldID: fieldID, Weekday: weekday, Source: domain.SourceDense, Rows: decoded}, nil
}

// ListWeek returns Sunday through Saturday, falling back to the default grid.
func (s *scheduleService) ListWeek(ctx context.Context, fieldID string) ([]domain.ScheduleTemplate, error) {
	if _, err := s.loadField(ctx, s.fieldRepo, fieldID); err != nil {
		return nil, err
	}
	week := make([]domain.ScheduleTemplate, 0, 7)
	for w := time.Sunday; w <= time.Saturday; w++ {
		tmpl, err := s.GetTemplate(ctx, fieldID, w)
		switch {
		case err == nil:
			week = append(week, *tmpl)
		case errors.Is(err, apperrors.ErrNotFound):
			week = append(week, s.grid.Template(fieldID, w))
		default:
			return nil, err
		}
	}
	return week, nil
}

func (s *scheduleService) ReplaceDay(ctx context.Context, actor domain.Actor, fieldID string, weekday time.Weekday, req dto.ReplaceScheduleDayRequest) (*domain.ScheduleTemplate, error) {
	field, err := s.loadField(ctx, s.fieldRepo, fieldID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeCompany(ctx, actor, field.CompanyID); err != nil {
		return nil, err
	}
	if weekday < time.Sunday || weekday > time.Saturday {
		return nil, apperrors.NewValidationError(fmt.Sprintf("day_of_week %d out of range", weekday))
	}

	rows := make([]domain.TemplateRow, 0, len(req.Rows))
	for _, r := range req.Rows {
		iv, err := parseInterval(r.StartTime, r.EndTime)
		if err != nil {
			return nil, err
		}
		available := true
		if r.IsAvailable != nil {
			available = *r.IsAvailable
		}
		rows = append(rows, domain.TemplateRow{FieldID: fieldID, Weekday: weekday, Start: iv.Start, End: iv.End, IsAvailable: available})
	}
	if err := domain.ValidateTemplateRows(rows); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.scheduleRepo.ReplaceTemplateDay(ctx, fieldID, weekday, rows); err != nil {
		s.LogError(ctx, err, "Failed to replace schedule day", slog.String("field_id", fieldID), slog.Int("weekday", int(weekday)))
		return nil, err
	}
	s.LogInfo(ctx, "Schedule day replaced",
		slog.String("field_id", fieldID),
		slog.String("day", domain.DayName(weekday)),
		slog.Int("rows", len(rows)))

	tmpl := &domain.ScheduleTemplate{FieldID: fieldID, Weekday: weekday, Source: domain.SourceNormalized, Rows: rows}
	return tmpl, nil
}

func (s *scheduleService) ImportDense(ctx context.Context, actor domain.Actor, fieldID string, req dto.ImportDenseScheduleRequest) ([]time.Weekday, error) {
	field, err := s.loadField(ctx, s.fieldRepo, fieldID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeCompany(ctx, actor, field.CompanyID); err != nil {
		return nil, err
	}

	days := req.ByWeekday()
	decoded := make(map[time.Weekday][]domain.TemplateRow, len(days))
	for w, encoded := range days {
		rows, err := domain.DecodeDenseDay(fieldID, w, encoded)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		decoded[w] = rows
	}

	written, err := s.scheduleRepo.ImportDenseSchedule(ctx, domain.DenseSchedule{FieldID: fieldID, Days: days}, decoded)
	if err != nil {
		s.LogError(ctx, err, "Failed to import dense schedule", slog.String("field_id", fieldID))
		return nil, err
	}
	s.LogInfo(ctx, "Dense schedule imported", slog.String("field_id", fieldID), slog.Int("days_normalized", len(written)))
	return written, nil
}
