package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/core/ports"
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/google/uuid"
)

type slotService struct {
	BaseService
	fieldRepo       portsrepo.FieldReader
	reservationRepo portsrepo.ReservationRepositoryWithTx
	templates       portssvc.ScheduleTemplateReaderSvc
	recurring       portssvc.RecurringReaderSvc
	cache           ports.SlotCache
	grid            domain.DefaultGrid
}

// SlotOption configures the slot service
type SlotOption func(*slotService)

// WithSlotCache caches computed grids.
func WithSlotCache(cache ports.SlotCache) SlotOption {
	return func(s *slotService) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithDefaultGrid sets the grid used when a weekday has no available template rows.
func WithDefaultGrid(g domain.DefaultGrid) SlotOption {
	return func(s *slotService) {
		s.grid = g
	}
}

// NewSlotService creates the slot generator.
func NewSlotService(
	fieldRepo portsrepo.FieldReader,
	reservationRepo portsrepo.ReservationRepositoryWithTx,
	templates portssvc.ScheduleTemplateReaderSvc,
	recurring portssvc.RecurringReaderSvc,
	options ...SlotOption,
) portssvc.SlotSvcFacade {
	svc := &slotService{
		fieldRepo:       fieldRepo,
		reservationRepo: reservationRepo,
		templates:       templates,
		recurring:       recurring,
		cache:           noopSlotCache{},
		grid:            domain.StandardGrid,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SlotSvcFacade = (*slotService)(nil)

func (s *slotService) GenerateSlots(ctx context.Context, fieldID string, date string) ([]domain.Slot, error) {
	grid, err := s.SlotGrid(ctx, fieldID, date)
	if err != nil {
		return nil, err
	}
	return domain.AvailableOnly(grid), nil
}

func (s *slotService) SlotGrid(ctx context.Context, fieldID string, date string) ([]domain.Slot, error) {
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadField(ctx, s.fieldRepo, fieldID); err != nil {
		return nil, err
	}
	if cached, ok := s.cache.GetGrid(ctx, fieldID, d); ok {
		s.LogDebug(ctx, "Slot grid served from cache", slog.String("field_id", fieldID), slog.String("date", d.String()))
		return cached, nil
	}

	candidates, err := s.candidateIntervals(ctx, fieldID, d)
	if err != nil {
		return nil, err
	}
	booked, err := s.reservationRepo.ListReservationsByFieldDate(ctx, fieldID, d)
	if err != nil {
		s.LogError(ctx, err, "Failed to load reservations for slot grid", slog.String("field_id", fieldID), slog.String("date", d.String()))
		return nil, err
	}
	standing, err := s.recurring.OccurrencesOn(ctx, fieldID, d)
	if err != nil {
		s.LogError(ctx, err, "Failed to load recurring reservations for slot grid", slog.String("field_id", fieldID))
		return nil, err
	}

	grid := make([]domain.Slot, 0, len(candidates))
	for _, iv := range candidates {
		slot := domain.Slot{FieldID: fieldID, Date: d, Start: iv.Start, End: iv.End, IsAvailable: true}
		for _, r := range booked {
			if r.Blocks(iv) {
				slot.IsAvailable = false
				slot.OccupiedBy = domain.OccupiedByReservation
				slot.State = r.State
				slot.ReservationID = r.ReservationID
				break
			}
		}
		if slot.IsAvailable {
			for _, rule := range standing {
				if rule.Interval().Overlaps(iv) {
					slot.IsAvailable = false
					slot.OccupiedBy = domain.OccupiedByRecurring
					break
				}
			}
		}
		grid = append(grid, slot)
	}
	sort.SliceStable(grid, func(i, j int) bool { return grid[i].Start < grid[j].Start })

	s.cache.SetGrid(ctx, fieldID, d, grid)
	return grid, nil
}

// candidateIntervals returns the template's available intervals, or the default grid when there are none.
func (s *slotService) candidateIntervals(ctx context.Context, fieldID string, d domain.Date) ([]domain.Interval, error) {
	tmpl, err := s.templates.GetTemplate(ctx, fieldID, d.Weekday())
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if tmpl != nil {
		if ivs := tmpl.AvailableIntervals(); len(ivs) > 0 {
			return ivs, nil
		}
	}
	return s.grid.Intervals(), nil
}

func (s *slotService) MaterializeDay(ctx context.Context, actor domain.Actor, fieldID string, date string) (created int, err error) {
	d, err := parseDate(date)
	if err != nil {
		return 0, err
	}
	field, err := s.loadField(ctx, s.fieldRepo, fieldID)
	if err != nil {
		return 0, err
	}
	if err := s.AuthorizeCompany(ctx, actor, field.CompanyID); err != nil {
		return 0, err
	}
	candidates, err := s.candidateIntervals(ctx, fieldID, d)
	if err != nil {
		return 0, err
	}

	tx, err := s.reservationRepo.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rbErr := s.reservationRepo.Rollback(ctx, tx); rbErr != nil {
				s.LogError(ctx, rbErr, "Failed to roll back materialization")
			}
		}
	}()

	if err = s.reservationRepo.LockFieldDay(ctx, tx, fieldID, d); err != nil {
		return 0, err
	}
	existing, err := s.reservationRepo.ListDayRowsInTx(ctx, tx, fieldID, d)
	if err != nil {
		return 0, err
	}

	now := s.now()
	for _, iv := range candidates {
		if hasRowFor(existing, iv) {
			continue
		}
		slot := domain.NewOpenSlot(uuid.NewString(), fieldID, d, iv, now)
		if err = s.reservationRepo.InsertReservationInTx(ctx, tx, slot); err != nil {
			s.LogError(ctx, err, "Failed to insert open slot", slog.String("field_id", fieldID), slog.String("interval", iv.String()))
			return 0, err
		}
		created++
	}

	if err = s.reservationRepo.Commit(ctx, tx); err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx, fieldID, d)
	s.LogInfo(ctx, "Day materialized",
		slog.String("field_id", fieldID),
		slog.String("date", d.String()),
		slog.Int("created", created))
	return created, nil
}

// hasRowFor reports whether iv is already booked or already has an open row.
func hasRowFor(rows []domain.Reservation, iv domain.Interval) bool {
	for _, r := range rows {
		if r.Blocks(iv) {
			return true
		}
		if r.State == domain.StateAvailable && r.Interval() == iv {
			return true
		}
	}
	return false
}

type noopSlotCache struct{}

func (noopSlotCache) GetGrid(context.Context, string, domain.Date) ([]domain.Slot, bool) {
	return nil, false
}
func (noopSlotCache) SetGrid(context.Context, string, domain.Date, []domain.Slot) {}
func (noopSlotCache) Invalidate(context.Context, string, domain.Date)             {}
func (noopSlotCache) InvalidateField(context.Context, string)                     {}
