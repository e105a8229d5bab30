package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/core/ports"
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
	"github.com/google/uuid"
)

type recurringService struct {
	BaseService
	fieldRepo       portsrepo.FieldReader
	recurringRepo   portsrepo.RecurringRepositoryFacade
	reservationRepo portsrepo.ReservationReader
	cache           ports.SlotCache
}

// RecurringOption configures the recurring reservation service
type RecurringOption func(*recurringService)

// WithRecurringSlotCache drops a field's cached grids when its standing reservations change.
func WithRecurringSlotCache(cache ports.SlotCache) RecurringOption {
	return func(s *recurringService) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// NewRecurringService creates the standing-reservation service.
func NewRecurringService(
	fieldRepo portsrepo.FieldReader,
	recurringRepo portsrepo.RecurringRepositoryFacade,
	reservationRepo portsrepo.ReservationReader,
	options ...RecurringOption,
) portssvc.RecurringSvcFacade {
	svc := &recurringService{
		fieldRepo:       fieldRepo,
		recurringRepo:   recurringRepo,
		reservationRepo: reservationRepo,
		cache:           noopSlotCache{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

func (s *recurringService) ListRecurring(ctx context.Context, fieldID string) ([]domain.RecurringReservation, error) {
	if _, err := s.loadField(ctx, s.fieldRepo, fieldID); err != nil {
		return nil, err
	}
	rules, err := s.recurringRepo.ListActiveRecurringByField(ctx, fieldID, domain.DateOf(s.now()))
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurring reservations", slog.String("field_id", fieldID))
		return nil, err
	}
	if rules == nil {
		return []domain.RecurringReservation{}, nil
	}
	return rules, nil
}

func (s *recurringService) OccurrencesOn(ctx context.Context, fieldID string, date domain.Date) ([]domain.RecurringReservation, error) {
	rules, err := s.recurringRepo.ListActiveRecurringByField(ctx, fieldID, date)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RecurringReservation, 0, len(rules))
	for _, r := range rules {
		if r.OccursOn(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *recurringService) CreateRecurring(ctx context.Context, actor domain.Actor, fieldID string, req dto.CreateRecurringRequest) (*domain.RecurringReservation, error) {
	field, err := s.loadField(ctx, s.fieldRepo, fieldID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeCompany(ctx, actor, field.CompanyID); err != nil {
		return nil, err
	}

	iv, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	var endDate *domain.Date
	if req.EndDate != nil && *req.EndDate != "" {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		endDate = &d
	}

	now := s.now()
	rule := domain.RecurringReservation{
		RecurringID:   uuid.NewString(),
		FieldID:       fieldID,
		UserID:        req.UserID,
		Type:          domain.RecurrenceType(req.RecurrenceType),
		DayOfMonth:    req.DayOfMonth,
		Start:         iv.Start,
		End:           iv.End,
		StartDate:     startDate,
		EndDate:       endDate,
		PaymentAmount: req.PaymentAmount,
		IsActive:      true,
		ClientName:    req.ClientName,
		Notes:         req.Notes,
		AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: actor.UserID, UpdatedAt: now},
	}
	if req.DayOfWeek != nil {
		w := time.Weekday(*req.DayOfWeek)
		rule.DayOfWeek = &w
	}
	if rule.PaymentAmount.IsZero() {
		rule.PaymentAmount = field.PriceFor(iv)
	}
	if err := rule.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	existing, err := s.recurringRepo.ListActiveRecurringByField(ctx, fieldID, startDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to load recurring reservations for conflict check", slog.String("field_id", fieldID))
		return nil, err
	}
	for _, other := range existing {
		if rule.MayShareDay(other) && rule.Interval().Overlaps(other.Interval()) {
			s.LogInfo(ctx, "Recurring reservation conflicts with existing rule",
				slog.String("field_id", fieldID),
				slog.String("conflicting_id", other.RecurringID))
			return nil, apperrors.NewConflictError("overlaps recurring reservation " + other.RecurringID)
		}
	}

	from := startDate
	if today := domain.DateOf(now); from.Before(today) {
		from = today
	}
	booked, err := s.reservationRepo.ListBlockingOverlapping(ctx, fieldID, from, endDate, iv)
	if err != nil {
		s.LogError(ctx, err, "Failed to load reservations for conflict check", slog.String("field_id", fieldID))
		return nil, err
	}
	for _, r := range booked {
		if rule.OccursOn(r.Date) {
			s.LogInfo(ctx, "Recurring reservation conflicts with existing booking",
				slog.String("field_id", fieldID),
				slog.String("calendar_id", r.ReservationID),
				slog.String("date", r.Date.String()))
			return nil, apperrors.NewConflictError("overlaps a booking on " + r.Date.String())
		}
	}

	if err := s.recurringRepo.SaveRecurring(ctx, rule); err != nil {
		s.LogError(ctx, err, "Failed to save recurring reservation", slog.String("field_id", fieldID))
		return nil, err
	}
	s.cache.InvalidateField(ctx, fieldID)
	s.LogInfo(ctx, "Recurring reservation created",
		slog.String("recurring_id", rule.RecurringID),
		slog.String("field_id", fieldID),
		slog.String("type", string(rule.Type)))
	return &rule, nil
}

func (s *recurringService) DeactivateRecurring(ctx context.Context, actor domain.Actor, recurringID string) error {
	rule, err := s.recurringRepo.FindRecurringByID(ctx, recurringID)
	if err != nil {
		return err
	}
	field, err := s.loadField(ctx, s.fieldRepo, rule.FieldID)
	if err != nil {
		return err
	}
	if err := s.AuthorizeCompany(ctx, actor, field.CompanyID); err != nil {
		return err
	}
	if !rule.IsActive {
		return apperrors.NewInvalidStateError("recurring reservation is already inactive")
	}
	if err := s.recurringRepo.DeactivateRecurring(ctx, recurringID, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate recurring reservation", slog.String("recurring_id", recurringID))
		return err
	}
	s.cache.InvalidateField(ctx, rule.FieldID)
	s.LogInfo(ctx, "Recurring reservation deactivated", slog.String("recurring_id", recurringID))
	return nil
}
