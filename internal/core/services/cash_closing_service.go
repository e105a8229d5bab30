package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
	"github.com/google/uuid"
)

type cashClosingService struct {
	BaseService
	reservationRepo portsrepo.ReservationRepositoryWithTx
	closingRepo     portsrepo.CashClosingRepositoryFacade
}

// NewCashClosingService creates the cash-closing aggregator.
func NewCashClosingService(reservationRepo portsrepo.ReservationRepositoryWithTx, closingRepo portsrepo.CashClosingRepositoryFacade) portssvc.CashClosingSvcFacade {
	return &cashClosingService{
		reservationRepo: reservationRepo,
		closingRepo:     closingRepo,
	}
}

var _ portssvc.CashClosingSvcFacade = (*cashClosingService)(nil)

// CloseCompany sweeps every settleable reservation of the company into a new
// closing. The closing row and the reservation updates share one transaction.
func (s *cashClosingService) CloseCompany(ctx context.Context, actor domain.Actor, companyID string) (_ *domain.CashClosing, err error) {
	if companyID == "" {
		return nil, apperrors.NewValidationError("company id is required")
	}
	if err := s.AuthorizeCompany(ctx, actor, companyID); err != nil {
		return nil, err
	}

	tx, err := s.reservationRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rbErr := s.reservationRepo.Rollback(ctx, tx); rbErr != nil {
				s.LogError(ctx, rbErr, "Failed to roll back cash closing", slog.String("company_id", companyID))
			}
		}
	}()

	candidates, err := s.reservationRepo.LockSettlementCandidatesInTx(ctx, tx, companyID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		err = apperrors.NewInvalidStateError("no reservations pending settlement")
		return nil, err
	}

	now := s.now()
	closing := domain.NewCashClosing(uuid.NewString(), companyID, candidates, actor.UserID, now)
	for i := range candidates {
		if err = candidates[i].MarkClosed(closing.CashClosingID, now); err != nil {
			return nil, err
		}
	}

	if err = s.closingRepo.InsertCashClosingInTx(ctx, tx, closing); err != nil {
		s.LogError(ctx, err, "Failed to insert cash closing", slog.String("company_id", companyID))
		return nil, err
	}
	if err = s.reservationRepo.MarkClosedInTx(ctx, tx, closing.ReservationIDs, closing.CashClosingID, now); err != nil {
		s.LogError(ctx, err, "Failed to mark reservations closed", slog.String("cash_closing_id", closing.CashClosingID))
		return nil, err
	}
	if err = s.reservationRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Cash closing created",
		slog.String("cash_closing_id", closing.CashClosingID),
		slog.String("company_id", companyID),
		slog.Int("reservations", len(closing.ReservationIDs)),
		slog.String("total", closing.Total.StringFixed(2)))
	return &closing, nil
}

func (s *cashClosingService) GetCashClosing(ctx context.Context, actor domain.Actor, closingID string) (*domain.CashClosing, error) {
	closing, err := s.closingRepo.FindCashClosingByID(ctx, closingID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeCompany(ctx, actor, closing.CompanyID); err != nil {
		return nil, err
	}
	return closing, nil
}

func (s *cashClosingService) ListCashClosings(ctx context.Context, actor domain.Actor, companyID string, params dto.PageParams) (*dto.ListCashClosingsResponse, error) {
	if err := s.AuthorizeCompany(ctx, actor, companyID); err != nil {
		return nil, err
	}
	page := params.Normalize()
	closings, total, err := s.closingRepo.ListCashClosingsByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash closings", slog.String("company_id", companyID))
		return nil, err
	}
	return &dto.ListCashClosingsResponse{
		CashClosings: closings,
		Meta:         dto.NewPageMeta(total, page),
	}, nil
}

func (s *cashClosingService) MarkPaid(ctx context.Context, actor domain.Actor, closingID string) (*domain.CashClosing, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only administrators can mark closings as paid")
	}
	closing, err := s.closingRepo.FindCashClosingByID(ctx, closingID)
	if err != nil {
		return nil, err
	}
	if !closing.CanMarkPaid() {
		return nil, apperrors.NewInvalidStateError("cash closing is " + string(closing.State))
	}
	now := s.now()
	if err := s.closingRepo.UpdateCashClosingState(ctx, closingID, domain.ClosingPaid, now); err != nil {
		s.LogError(ctx, err, "Failed to mark cash closing paid", slog.String("cash_closing_id", closingID))
		return nil, err
	}
	closing.State = domain.ClosingPaid
	closing.UpdatedAt = now
	s.LogInfo(ctx, "Cash closing paid", slog.String("cash_closing_id", closingID), slog.String("paid_by", actor.UserID))
	return closing, nil
}
