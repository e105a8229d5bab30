package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	"github.com/SscSPs/cancha_booking_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// Now returns the current time. Tests replace it to pin the clock.
	Now func() time.Time
}

func (s *BaseService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeCompany checks that the actor administers the company.
func (s *BaseService) AuthorizeCompany(ctx context.Context, actor domain.Actor, companyID string) error {
	if actor.ManagesCompany(companyID) {
		return nil
	}
	err := apperrors.NewForbiddenError("not allowed to manage company " + companyID)
	s.LogDebug(ctx, "Company authorization denied",
		slog.String("user_id", actor.UserID),
		slog.String("role", string(actor.Role)),
		slog.String("company_id", companyID))
	return err
}

// loadField resolves a live field or returns a not-found error.
func (s *BaseService) loadField(ctx context.Context, repo portsrepo.FieldReader, fieldID string) (*domain.Field, error) {
	if fieldID == "" {
		return nil, apperrors.NewValidationError("field id is required")
	}
	field, err := repo.FindFieldByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if field.Deleted {
		return nil, apperrors.NewNotFoundError("field " + fieldID)
	}
	return field, nil
}

// parseDate wraps domain.ParseDate errors as validation errors.
func parseDate(s string) (domain.Date, error) {
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, apperrors.NewValidationError(err.Error())
	}
	return d, nil
}

// parseInterval builds and validates a half-open interval from two HH:MM strings.
func parseInterval(start, end string) (domain.Interval, error) {
	s, err := domain.ParseClock(start)
	if err != nil {
		return domain.Interval{}, apperrors.NewValidationError(err.Error())
	}
	e, err := domain.ParseClock(end)
	if err != nil {
		return domain.Interval{}, apperrors.NewValidationError(err.Error())
	}
	iv := domain.Interval{Start: s, End: e}
	if err := iv.Validate(); err != nil {
		return domain.Interval{}, apperrors.NewValidationError(err.Error())
	}
	return iv, nil
}
