package services

import (
	"context"
	"fmt"
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

const overlapMessage = "Ya existe una reserva en ese horario"

type reservationService struct {
	BaseService
	fieldRepo       portsrepo.FieldReader
	reservationRepo portsrepo.ReservationRepositoryWithTx
	recurring       portssvc.RecurringReaderSvc
	receipts        ports.ReceiptStore
	events          ports.EventPublisher
	cache           ports.SlotCache
}

// ReservationOption configures the reservation service
type ReservationOption func(*reservationService)

// WithReceiptStore sets where receipt files are written.
func WithReceiptStore(store ports.ReceiptStore) ReservationOption {
	return func(s *reservationService) {
		s.receipts = store
	}
}

// WithEventPublisher publishes confirmation and cancellation events after commit.
func WithEventPublisher(publisher ports.EventPublisher) ReservationOption {
	return func(s *reservationService) {
		if publisher != nil {
			s.events = publisher
		}
	}
}

// WithReservationSlotCache invalidates cached grids on every change.
func WithReservationSlotCache(cache ports.SlotCache) ReservationOption {
	return func(s *reservationService) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// NewReservationService creates the reservation state machine service.
// recurring supplies the standing reservations a new booking must not overlap.
func NewReservationService(
	fieldRepo portsrepo.FieldReader,
	reservationRepo portsrepo.ReservationRepositoryWithTx,
	recurring portssvc.RecurringReaderSvc,
	options ...ReservationOption,
) portssvc.ReservationSvcFacade {
	svc := &reservationService{
		fieldRepo:       fieldRepo,
		reservationRepo: reservationRepo,
		recurring:       recurring,
		events:          noopPublisher{},
		cache:           noopSlotCache{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReservationSvcFacade = (*reservationService)(nil)

func (s *reservationService) GetReservation(ctx context.Context, actor domain.Actor, reservationID string) (*domain.Reservation, error) {
	r, err := s.reservationRepo.FindReservationByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if r.BelongsTo(actor.UserID) || actor.IsAdmin() {
		return r, nil
	}
	field, err := s.fieldRepo.FindFieldByID(ctx, r.FieldID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOnBooking(*r, field.CompanyID) {
		return nil, apperrors.NewForbiddenError("reservation belongs to another user")
	}
	return r, nil
}

func (s *reservationService) ListFieldReservations(ctx context.Context, fieldID string, date string) ([]domain.Reservation, error) {
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadField(ctx, s.fieldRepo, fieldID); err != nil {
		return nil, err
	}
	rows, err := s.reservationRepo.ListReservationsByFieldDate(ctx, fieldID, d)
	if err != nil {
		s.LogError(ctx, err, "Failed to list field reservations", slog.String("field_id", fieldID), slog.String("date", d.String()))
		return nil, err
	}
	booked := make([]domain.Reservation, 0, len(rows))
	for _, r := range rows {
		if r.State.BlocksSlot() {
			booked = append(booked, r)
		}
	}
	return booked, nil
}

func (s *reservationService) ListPendingApproval(ctx context.Context, actor domain.Actor, params dto.ListPendingParams) (*dto.ListReservationsResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only administrators can review payments")
	}
	page := params.PageParams.Normalize()
	list, total, err := s.reservationRepo.ListPendingApproval(ctx, portsrepo.ReservationFilter{
		CompanyID: params.CompanyID,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending approvals")
		return nil, err
	}
	return &dto.ListReservationsResponse{
		Reservations: dto.ToReservationResponses(list),
		Meta:         dto.NewPageMeta(total, page),
	}, nil
}

func (s *reservationService) ListMyReservations(ctx context.Context, actor domain.Actor, params dto.PageParams) (*dto.ListReservationsResponse, error) {
	page := params.Normalize()
	list, total, err := s.reservationRepo.ListReservationsByUser(ctx, actor.UserID, page.Limit, page.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list user reservations")
		return nil, err
	}
	return &dto.ListReservationsResponse{
		Reservations: dto.ToReservationResponses(list),
		Meta:         dto.NewPageMeta(total, page),
	}, nil
}

// CreateReservation books the interval. The check and the write happen under
// the field-day lock so two concurrent requests cannot both succeed.
func (s *reservationService) CreateReservation(ctx context.Context, actor domain.Actor, req dto.CreateReservationCommand) (_ *domain.Reservation, err error) {
	field, err := s.loadField(ctx, s.fieldRepo, req.FieldID)
	if err != nil {
		return nil, err
	}
	d, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	iv, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	userID := req.UserID
	if userID == "" {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.ManagesCompany(field.CompanyID) {
		return nil, apperrors.NewForbiddenError("cannot book on behalf of another user")
	}

	amount := field.PriceFor(iv)
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, apperrors.NewValidationError("payment_amount must not be negative")
		}
		if req.Amount.IsPositive() {
			amount = *req.Amount
		}
	}

	var receiptRef string
	if req.Receipt != nil {
		if receiptRef, err = s.storeReceipt(ctx, field.FieldID, *req.Receipt); err != nil {
			return nil, err
		}
		defer func() {
			if err != nil {
				s.discardReceipt(ctx, receiptRef)
			}
		}()
	}

	tx, err := s.reservationRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rbErr := s.reservationRepo.Rollback(ctx, tx); rbErr != nil {
				s.LogError(ctx, rbErr, "Failed to roll back reservation")
			}
		}
	}()

	if err = s.reservationRepo.LockFieldDay(ctx, tx, field.FieldID, d); err != nil {
		return nil, err
	}
	blocking, err := s.reservationRepo.FindBlockingInTx(ctx, tx, field.FieldID, d, iv)
	if err != nil {
		return nil, err
	}
	if len(blocking) > 0 {
		s.LogInfo(ctx, "Reservation rejected, interval taken",
			slog.String("field_id", field.FieldID),
			slog.String("date", d.String()),
			slog.String("interval", iv.String()),
			slog.String("blocking_id", blocking[0].ReservationID))
		err = apperrors.NewConflictError(overlapMessage)
		return nil, err
	}
	standing, err := s.recurring.OccurrencesOn(ctx, field.FieldID, d)
	if err != nil {
		s.LogError(ctx, err, "Failed to load recurring reservations", slog.String("field_id", field.FieldID), slog.String("date", d.String()))
		return nil, err
	}
	for _, rule := range standing {
		if rule.Interval().Overlaps(iv) {
			s.LogInfo(ctx, "Reservation rejected, interval held by a recurring reservation",
				slog.String("field_id", field.FieldID),
				slog.String("date", d.String()),
				slog.String("interval", iv.String()),
				slog.String("recurring_id", rule.RecurringID))
			err = apperrors.NewConflictError(overlapMessage)
			return nil, err
		}
	}

	now := s.now()
	var transaction *string
	if req.Transaction != "" {
		transaction = &req.Transaction
	}

	open, err := s.reservationRepo.FindOpenSlotInTx(ctx, tx, field.FieldID, d, iv)
	if err != nil {
		return nil, err
	}
	var res domain.Reservation
	if open != nil {
		res = *open
		if err = res.Claim(&userID, transaction, amount, actor.UserID, now); err != nil {
			return nil, err
		}
	} else {
		res = domain.Reservation{
			ReservationID: uuid.NewString(),
			FieldID:       field.FieldID,
			UserID:        &userID,
			Date:          d,
			Start:         iv.Start,
			End:           iv.End,
			State:         domain.StatePending,
			PaymentAmount: amount,
			Transaction:   transaction,
			Settlement:    domain.SettlementPending,
			AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: actor.UserID, UpdatedAt: now},
		}
	}
	if receiptRef != "" {
		if err = res.AttachReceipt(receiptRef, nil, now); err != nil {
			return nil, err
		}
	}

	if open != nil {
		err = s.reservationRepo.UpdateReservationInTx(ctx, tx, res)
	} else {
		err = s.reservationRepo.InsertReservationInTx(ctx, tx, res)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to persist reservation", slog.String("field_id", field.FieldID), slog.String("date", d.String()))
		return nil, err
	}
	if err = s.reservationRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, field.FieldID, d)
	s.LogInfo(ctx, "Reservation created",
		slog.String("calendar_id", res.ReservationID),
		slog.String("field_id", field.FieldID),
		slog.String("date", d.String()),
		slog.String("interval", iv.String()),
		slog.String("state", string(res.State)),
		slog.Bool("claimed_open_slot", open != nil))
	return &res, nil
}

func (s *reservationService) AttachReceipt(ctx context.Context, actor domain.Actor, reservationID string, receipt dto.ReceiptUpload) (*domain.Reservation, error) {
	current, err := s.reservationRepo.FindReservationByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	field, err := s.fieldRepo.FindFieldByID(ctx, current.FieldID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOnBooking(*current, field.CompanyID) {
		return nil, apperrors.NewForbiddenError("reservation belongs to another user")
	}
	ref, err := s.storeReceipt(ctx, current.FieldID, receipt)
	if err != nil {
		return nil, err
	}

	var previous *string
	updated, _, err := s.transition(ctx, reservationID,
		func(r *domain.Reservation, field *domain.Field) error {
			if !actor.CanActOnBooking(*r, field.CompanyID) {
				return apperrors.NewForbiddenError("reservation belongs to another user")
			}
			return nil
		},
		func(r *domain.Reservation, now time.Time) error {
			previous = r.Receipt
			return r.AttachReceipt(ref, receipt.Amount, now)
		})
	if err != nil {
		s.discardReceipt(ctx, ref)
		return nil, err
	}
	if previous != nil && *previous != ref {
		s.discardReceipt(ctx, *previous)
	}
	s.LogInfo(ctx, "Receipt attached", slog.String("calendar_id", reservationID))
	return updated, nil
}

func (s *reservationService) ApproveReservation(ctx context.Context, actor domain.Actor, reservationID string) (*domain.Reservation, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only administrators can approve payments")
	}
	updated, _, err := s.transition(ctx, reservationID, nil, func(r *domain.Reservation, now time.Time) error {
		return r.Approve(actor.UserID, now)
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Payment approved", slog.String("calendar_id", reservationID), slog.String("approved_by", actor.UserID))
	s.publish(ctx, domain.EventReservationConfirmed, *updated, derefString(updated.UserID))
	return updated, nil
}

func (s *reservationService) RejectReservation(ctx context.Context, actor domain.Actor, reservationID string, reason string) (*domain.Reservation, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only administrators can reject payments")
	}
	updated, _, err := s.transition(ctx, reservationID, nil, func(r *domain.Reservation, now time.Time) error {
		return r.Reject(reason, now)
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Payment rejected", slog.String("calendar_id", reservationID), slog.String("rejected_by", actor.UserID))
	return updated, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, actor domain.Actor, reservationID string, reason string) (*domain.Reservation, error) {
	updated, before, err := s.transition(ctx, reservationID,
		func(r *domain.Reservation, field *domain.Field) error {
			if err := r.CheckCancellable(); err != nil {
				return err
			}
			if !actor.CanActOnBooking(*r, field.CompanyID) {
				return apperrors.NewForbiddenError("only the booking user, the field owner or an administrator can cancel")
			}
			return nil
		},
		func(r *domain.Reservation, now time.Time) error {
			return r.Cancel(reason, now)
		})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Reservation cancelled",
		slog.String("calendar_id", reservationID),
		slog.String("cancelled_by", actor.UserID),
		slog.String("state", string(updated.State)))
	s.publish(ctx, domain.EventReservationCancelled, *updated, derefString(before.UserID))
	return updated, nil
}

func (s *reservationService) ConfirmReservation(ctx context.Context, actor domain.Actor, reservationID string) (*domain.Reservation, error) {
	updated, _, err := s.transition(ctx, reservationID,
		func(r *domain.Reservation, field *domain.Field) error {
			return s.AuthorizeCompany(ctx, actor, field.CompanyID)
		},
		func(r *domain.Reservation, now time.Time) error {
			return r.ConfirmLegacy(now)
		})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Reservation confirmed", slog.String("calendar_id", reservationID), slog.String("confirmed_by", actor.UserID))
	s.publish(ctx, domain.EventReservationConfirmed, *updated, derefString(updated.UserID))
	return updated, nil
}

func (s *reservationService) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.reservationRepo.CompletePast(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to complete past reservations")
		return 0, err
	}
	if n > 0 {
		s.LogInfo(ctx, "Past reservations completed", slog.Int64("count", n))
	}
	return n, nil
}

// transition locks the reservation, runs authorize and apply, and writes it back in one transaction.
// It returns the updated reservation and a copy taken before apply.
func (s *reservationService) transition(
	ctx context.Context,
	reservationID string,
	authorize func(r *domain.Reservation, field *domain.Field) error,
	apply func(r *domain.Reservation, now time.Time) error,
) (updated *domain.Reservation, before domain.Reservation, err error) {
	tx, err := s.reservationRepo.Begin(ctx)
	if err != nil {
		return nil, before, err
	}
	defer func() {
		if err != nil {
			if rbErr := s.reservationRepo.Rollback(ctx, tx); rbErr != nil {
				s.LogError(ctx, rbErr, "Failed to roll back transition", slog.String("calendar_id", reservationID))
			}
		}
	}()

	r, err := s.reservationRepo.FindReservationByIDForUpdate(ctx, tx, reservationID)
	if err != nil {
		return nil, before, err
	}
	if authorize != nil {
		field, ferr := s.fieldRepo.FindFieldByID(ctx, r.FieldID)
		if ferr != nil {
			err = ferr
			return nil, before, err
		}
		if err = authorize(r, field); err != nil {
			return nil, before, err
		}
	}

	before = *r
	if err = apply(r, s.now()); err != nil {
		s.LogDebug(ctx, "Transition refused", slog.String("calendar_id", reservationID), slog.String("reason", err.Error()))
		return nil, before, err
	}
	if err = s.reservationRepo.UpdateReservationInTx(ctx, tx, *r); err != nil {
		s.LogError(ctx, err, "Failed to update reservation", slog.String("calendar_id", reservationID))
		return nil, before, err
	}
	if err = s.reservationRepo.Commit(ctx, tx); err != nil {
		return nil, before, err
	}
	s.cache.Invalidate(ctx, r.FieldID, r.Date)
	return r, before, nil
}

func (s *reservationService) storeReceipt(ctx context.Context, fieldID string, receipt dto.ReceiptUpload) (string, error) {
	if s.receipts == nil {
		return "", apperrors.NewStorageError("receipt storage is not configured", nil)
	}
	ext, err := domain.CheckReceipt(receipt.ContentType, receipt.Filename, receipt.Size)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	if receipt.Amount != nil && receipt.Amount.IsNegative() {
		return "", apperrors.NewValidationError("payment_amount must not be negative")
	}
	key := fmt.Sprintf("receipts/%s/%s%s", fieldID, uuid.NewString(), ext)
	ref, err := s.receipts.Save(ctx, key, receipt.ContentType, receipt.Body, receipt.Size)
	if err != nil {
		s.LogError(ctx, err, "Failed to store receipt", slog.String("key", key))
		return "", err
	}
	return ref, nil
}

func (s *reservationService) discardReceipt(ctx context.Context, ref string) {
	if s.receipts == nil || ref == "" {
		return
	}
	if err := s.receipts.Delete(ctx, ref); err != nil {
		s.LogError(ctx, err, "Failed to delete receipt", slog.String("receipt", ref))
	}
}

func (s *reservationService) publish(ctx context.Context, t domain.ReservationEventType, r domain.Reservation, userID string) {
	evt := domain.NewReservationEvent(t, r, userID, s.now())
	if err := s.events.PublishReservationEvent(ctx, evt); err != nil {
		s.LogError(ctx, err, "Failed to publish reservation event",
			slog.String("event", string(t)),
			slog.String("calendar_id", r.ReservationID))
	}
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

type noopPublisher struct{}

func (noopPublisher) PublishReservationEvent(context.Context, domain.ReservationEvent) error {
	return nil
}
