package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/SscSPs/cancha_booking_app/internal/core/services"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func pngReceipt() *dto.ReceiptUpload {
	body := []byte("\x89PNG fake receipt")
	return &dto.ReceiptUpload{
		Filename:    "comprobante.png",
		ContentType: "image/png",
		Size:        int64(len(body)),
		Body:        bytes.NewReader(body),
	}
}

type ReservationServiceTestSuite struct {
	suite.Suite
	field     domain.Field
	repo      *memReservationRepo
	receipts  *memReceiptStore
	publisher *recordingPublisher
	service   portssvc.ReservationSvcFacade
	user      domain.Actor
	other     domain.Actor
	owner     domain.Actor
	admin     domain.Actor
	date      string
}

func (suite *ReservationServiceTestSuite) SetupTest() {
	suite.field = domain.Field{
		FieldID:   "field-1",
		CompanyID: "company-1",
		Name:      "Cancha Central",
		Type:      domain.FieldFutbol5,
		HourPrice: decimal.NewFromInt(20000),
	}
	suite.repo = newMemReservationRepo(suite.field)
	suite.receipts = newMemReceiptStore()
	suite.publisher = &recordingPublisher{}
	suite.service = services.NewReservationService(
		memFieldRepo{suite.field.FieldID: suite.field},
		suite.repo,
		emptySchedules{},
		services.WithReceiptStore(suite.receipts),
		services.WithEventPublisher(suite.publisher),
	)
	suite.user = domain.Actor{UserID: "user-1", Role: domain.RoleUser}
	suite.other = domain.Actor{UserID: "user-2", Role: domain.RoleUser}
	suite.owner = domain.Actor{UserID: "owner-1", Role: domain.RoleOwner, CompanyID: "company-1"}
	suite.admin = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	suite.date = "2024-06-10"
}

func (suite *ReservationServiceTestSuite) book(actor domain.Actor, start, end string, receipt *dto.ReceiptUpload) (*domain.Reservation, error) {
	return suite.service.CreateReservation(context.Background(), actor, dto.CreateReservationCommand{
		FieldID:   suite.field.FieldID,
		Date:      suite.date,
		StartTime: start,
		EndTime:   end,
		Receipt:   receipt,
	})
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_Pending() {
	res, err := suite.book(suite.user, "10:00", "11:00", nil)

	suite.Require().NoError(err)
	suite.NotEmpty(res.ReservationID)
	suite.Equal(domain.StatePending, res.State)
	suite.Equal(domain.SettlementPending, res.Settlement)
	suite.True(res.BelongsTo(suite.user.UserID))
	suite.True(decimal.NewFromInt(20000).Equal(res.PaymentAmount), "amount defaults to the hourly price")
	suite.Equal(suite.user.UserID, res.CreatedBy)

	stored, ok := suite.repo.get(res.ReservationID)
	suite.Require().True(ok)
	suite.Equal(domain.StatePending, stored.State)
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_WithReceipt() {
	res, err := suite.book(suite.user, "10:00", "11:00", pngReceipt())

	suite.Require().NoError(err)
	suite.Equal(domain.StateByConfirmation, res.State)
	suite.Equal(domain.PaymentPending, res.PaymentStatus)
	suite.Require().NotNil(res.Receipt)
	suite.Contains(*res.Receipt, "receipts/field-1/")
	suite.Equal(1, suite.receipts.count())
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_OverlapConflict() {
	_, err := suite.book(suite.user, "10:00", "11:00", nil)
	suite.Require().NoError(err)

	_, err = suite.book(suite.other, "10:30", "11:30", nil)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "Ya existe una reserva en ese horario")

	// Touching intervals do not overlap.
	_, err = suite.book(suite.other, "11:00", "12:00", nil)
	suite.NoError(err)
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_RecurringHoldsInterval() {
	monday := time.Monday
	rules := standingRules{{
		RecurringID: "rec-1",
		FieldID:     suite.field.FieldID,
		Type:        domain.RecurrenceWeekly,
		DayOfWeek:   &monday,
		Start:       domain.ClockAt(10, 0),
		End:         domain.ClockAt(11, 0),
		StartDate:   domain.Date{Year: 2024, Month: time.June, Day: 3},
		IsActive:    true,
	}}
	svc := services.NewReservationService(memFieldRepo{suite.field.FieldID: suite.field}, suite.repo, rules,
		services.WithReceiptStore(suite.receipts))
	book := func(date, start, end string, receipt *dto.ReceiptUpload) (*domain.Reservation, error) {
		return svc.CreateReservation(context.Background(), suite.user, dto.CreateReservationCommand{
			FieldID: suite.field.FieldID, Date: date, StartTime: start, EndTime: end, Receipt: receipt,
		})
	}

	_, err := book("2024-06-10", "10:00", "11:00", nil)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "Ya existe una reserva en ese horario")

	_, err = book("2024-06-10", "10:30", "11:30", pngReceipt())
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(0, suite.receipts.count(), "the receipt of a refused booking is removed")
	suite.Empty(suite.repo.snapshot(func(domain.Reservation) bool { return true }))

	_, err = book("2024-06-10", "11:00", "12:00", nil)
	suite.NoError(err, "touching the standing interval is allowed")

	_, err = book("2024-06-11", "10:00", "11:00", nil)
	suite.NoError(err, "the rule only holds Mondays")
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_ConflictDiscardsReceipt() {
	_, err := suite.book(suite.user, "10:00", "11:00", nil)
	suite.Require().NoError(err)

	_, err = suite.book(suite.other, "10:00", "11:00", pngReceipt())
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(0, suite.receipts.count())
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_ConcurrentSingleWinner() {
	const workers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			actor := domain.Actor{UserID: fmt.Sprintf("user-%d", i), Role: domain.RoleUser}
			_, err := suite.book(actor, "18:00", "19:00", nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperrors.ErrConflict):
				conflicts++
			}
		}(i)
	}
	close(start)
	wg.Wait()

	suite.Equal(1, successes)
	suite.Equal(workers-1, conflicts)
	booked := suite.repo.snapshot(func(r domain.Reservation) bool { return r.State.BlocksSlot() })
	suite.Len(booked, 1)
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_Validation() {
	tests := []struct {
		name       string
		start, end string
		date       string
	}{
		{name: "end before start", start: "11:00", end: "10:00", date: "2024-06-10"},
		{name: "empty interval", start: "10:00", end: "10:00", date: "2024-06-10"},
		{name: "bad clock", start: "25:00", end: "26:00", date: "2024-06-10"},
		{name: "bad date", start: "10:00", end: "11:00", date: "10/06/2024"},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateReservation(context.Background(), suite.user, dto.CreateReservationCommand{
				FieldID: suite.field.FieldID, Date: tt.date, StartTime: tt.start, EndTime: tt.end,
			})
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_UnknownField() {
	_, err := suite.service.CreateReservation(context.Background(), suite.user, dto.CreateReservationCommand{
		FieldID: "missing", Date: suite.date, StartTime: "10:00", EndTime: "11:00",
	})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_OnBehalfOfAnotherUser() {
	cmd := dto.CreateReservationCommand{
		FieldID: suite.field.FieldID, UserID: suite.other.UserID, Date: suite.date, StartTime: "09:00", EndTime: "10:00",
	}
	_, err := suite.service.CreateReservation(context.Background(), suite.user, cmd)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	res, err := suite.service.CreateReservation(context.Background(), suite.owner, cmd)
	suite.Require().NoError(err)
	suite.True(res.BelongsTo(suite.other.UserID))
	suite.Equal(suite.owner.UserID, res.CreatedBy)
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_ClaimsOpenSlot() {
	d, _ := domain.ParseDate(suite.date)
	iv := domain.Interval{Start: domain.ClockAt(10, 0), End: domain.ClockAt(11, 0)}
	suite.repo.put(domain.NewOpenSlot("open-1", suite.field.FieldID, d, iv, time.Now()))

	res, err := suite.book(suite.user, "10:00", "11:00", nil)

	suite.Require().NoError(err)
	suite.Equal("open-1", res.ReservationID)
	suite.Equal(domain.StatePending, res.State)
	suite.True(res.Materialized)
}

func (suite *ReservationServiceTestSuite) TestApprove_RequiresReceipt() {
	res, err := suite.book(suite.user, "10:00", "11:00", nil)
	suite.Require().NoError(err)

	_, err = suite.service.ApproveReservation(context.Background(), suite.admin, res.ReservationID)

	suite.ErrorIs(err, apperrors.ErrInvalidState)
	stored, _ := suite.repo.get(res.ReservationID)
	suite.Equal(domain.StatePending, stored.State)
	suite.Empty(suite.publisher.types())
}

func (suite *ReservationServiceTestSuite) TestApprove_AdminOnly() {
	res, err := suite.book(suite.user, "10:00", "11:00", pngReceipt())
	suite.Require().NoError(err)

	_, err = suite.service.ApproveReservation(context.Background(), suite.owner, res.ReservationID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	approved, err := suite.service.ApproveReservation(context.Background(), suite.admin, res.ReservationID)
	suite.Require().NoError(err)
	suite.Equal(domain.StateConfirmed, approved.State)
	suite.Equal(domain.PaymentApproved, approved.PaymentStatus)
	suite.Require().NotNil(approved.ApprovedBy)
	suite.Equal(suite.admin.UserID, *approved.ApprovedBy)
	suite.Equal([]domain.ReservationEventType{domain.EventReservationConfirmed}, suite.publisher.types())

	_, err = suite.service.ApproveReservation(context.Background(), suite.admin, res.ReservationID)
	suite.ErrorIs(err, apperrors.ErrNotFound, "an approved payment is no longer pending")
}

func (suite *ReservationServiceTestSuite) TestReject_ReturnsToPending() {
	res, err := suite.book(suite.user, "10:00", "11:00", pngReceipt())
	suite.Require().NoError(err)

	_, err = suite.service.RejectReservation(context.Background(), suite.admin, res.ReservationID, "  ")
	suite.ErrorIs(err, apperrors.ErrValidation)

	rejected, err := suite.service.RejectReservation(context.Background(), suite.admin, res.ReservationID, "monto ilegible")
	suite.Require().NoError(err)
	suite.Equal(domain.StatePending, rejected.State)
	suite.Equal(domain.PaymentRejected, rejected.PaymentStatus)
	suite.Require().NotNil(rejected.RejectionReason)

	// The user resubmits and the booking is back in review.
	resubmitted, err := suite.service.AttachReceipt(context.Background(), suite.user, res.ReservationID, *pngReceipt())
	suite.Require().NoError(err)
	suite.Equal(domain.StateByConfirmation, resubmitted.State)
	suite.Nil(resubmitted.RejectionReason)
	suite.Equal(1, suite.receipts.count(), "the previous receipt is replaced")
}

func (suite *ReservationServiceTestSuite) TestAttachReceipt_RejectsBadFileType() {
	res, err := suite.book(suite.user, "10:00", "11:00", nil)
	suite.Require().NoError(err)

	body := []byte("MZ")
	_, err = suite.service.AttachReceipt(context.Background(), suite.user, res.ReservationID, dto.ReceiptUpload{
		Filename: "virus.exe", ContentType: "application/x-msdownload", Size: int64(len(body)), Body: bytes.NewReader(body),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(0, suite.receipts.count())
}

func (suite *ReservationServiceTestSuite) TestAttachReceipt_OtherUserForbidden() {
	res, err := suite.book(suite.user, "10:00", "11:00", nil)
	suite.Require().NoError(err)

	_, err = suite.service.AttachReceipt(context.Background(), suite.other, res.ReservationID, *pngReceipt())
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Equal(0, suite.receipts.count())
}

func (suite *ReservationServiceTestSuite) TestCancel() {
	res, err := suite.book(suite.user, "10:00", "11:00", nil)
	suite.Require().NoError(err)

	_, err = suite.service.CancelReservation(context.Background(), suite.other, res.ReservationID, "")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	cancelled, err := suite.service.CancelReservation(context.Background(), suite.user, res.ReservationID, "lluvia")
	suite.Require().NoError(err)
	suite.Equal(domain.StateCancelled, cancelled.State)
	suite.Nil(cancelled.UserID)
	suite.Require().NotNil(cancelled.CancellationReason)
	suite.Equal("lluvia", *cancelled.CancellationReason)

	suite.Require().Len(suite.publisher.events, 1)
	evt := suite.publisher.events[0]
	suite.Equal(domain.EventReservationCancelled, evt.Type)
	suite.Equal(suite.user.UserID, evt.UserID, "the event names the user who held the booking")

	_, err = suite.service.CancelReservation(context.Background(), suite.user, res.ReservationID, "")
	suite.ErrorIs(err, apperrors.ErrInvalidState)

	// The interval is free again.
	_, err = suite.book(suite.other, "10:00", "11:00", nil)
	suite.NoError(err)
}

func (suite *ReservationServiceTestSuite) TestCancel_StateCheckedBeforeOwnership() {
	res, err := suite.book(suite.user, "10:00", "11:00", nil)
	suite.Require().NoError(err)
	_, err = suite.service.CancelReservation(context.Background(), suite.user, res.ReservationID, "")
	suite.Require().NoError(err)

	for _, actor := range []domain.Actor{suite.user, suite.other, suite.owner} {
		_, err = suite.service.CancelReservation(context.Background(), actor, res.ReservationID, "")
		suite.ErrorIs(err, apperrors.ErrInvalidState, "actor %s", actor.UserID)
	}

	open := domain.Reservation{
		ReservationID: "slot-open",
		FieldID:       suite.field.FieldID,
		Date:          domain.Date{Year: 2024, Month: time.June, Day: 10},
		Start:         domain.ClockAt(15, 0),
		End:           domain.ClockAt(16, 0),
		State:         domain.StateAvailable,
		Settlement:    domain.SettlementPending,
		Materialized:  true,
	}
	suite.repo.put(open)
	_, err = suite.service.CancelReservation(context.Background(), suite.user, open.ReservationID, "")
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *ReservationServiceTestSuite) TestCancel_FieldOwnerMayCancel() {
	res, err := suite.book(suite.user, "10:00", "11:00", nil)
	suite.Require().NoError(err)

	foreignOwner := domain.Actor{UserID: "owner-2", Role: domain.RoleOwner, CompanyID: "company-2"}
	_, err = suite.service.CancelReservation(context.Background(), foreignOwner, res.ReservationID, "")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.CancelReservation(context.Background(), suite.owner, res.ReservationID, "")
	suite.NoError(err)
}

func (suite *ReservationServiceTestSuite) TestConfirmReservation() {
	res, err := suite.book(suite.user, "10:00", "11:00", pngReceipt())
	suite.Require().NoError(err)

	_, err = suite.service.ConfirmReservation(context.Background(), suite.user, res.ReservationID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	confirmed, err := suite.service.ConfirmReservation(context.Background(), suite.owner, res.ReservationID)
	suite.Require().NoError(err)
	suite.Equal(domain.StateConfirmed, confirmed.State)

	_, err = suite.service.ConfirmReservation(context.Background(), suite.owner, res.ReservationID)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *ReservationServiceTestSuite) TestGetReservation() {
	res, err := suite.book(suite.user, "10:00", "11:00", nil)
	suite.Require().NoError(err)

	for _, actor := range []domain.Actor{suite.user, suite.owner, suite.admin} {
		got, err := suite.service.GetReservation(context.Background(), actor, res.ReservationID)
		suite.Require().NoError(err)
		suite.Equal(res.ReservationID, got.ReservationID)
	}
	_, err = suite.service.GetReservation(context.Background(), suite.other, res.ReservationID)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ReservationServiceTestSuite) TestListPendingApproval() {
	_, err := suite.book(suite.user, "10:00", "11:00", pngReceipt())
	suite.Require().NoError(err)
	_, err = suite.book(suite.user, "12:00", "13:00", nil)
	suite.Require().NoError(err)

	_, err = suite.service.ListPendingApproval(context.Background(), suite.owner, dto.ListPendingParams{})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	page, err := suite.service.ListPendingApproval(context.Background(), suite.admin, dto.ListPendingParams{})
	suite.Require().NoError(err)
	suite.Len(page.Reservations, 1)
	suite.Equal(1, page.Meta.Total)
	suite.Equal(20, page.Meta.Limit)
}

func (suite *ReservationServiceTestSuite) TestListFieldReservations_OnlyBlocking() {
	first, err := suite.book(suite.user, "10:00", "11:00", nil)
	suite.Require().NoError(err)
	_, err = suite.book(suite.user, "12:00", "13:00", nil)
	suite.Require().NoError(err)
	_, err = suite.service.CancelReservation(context.Background(), suite.user, first.ReservationID, "")
	suite.Require().NoError(err)

	list, err := suite.service.ListFieldReservations(context.Background(), suite.field.FieldID, suite.date)
	suite.Require().NoError(err)
	suite.Require().Len(list, 1)
	suite.Equal(domain.ClockAt(12, 0), list[0].Start)
}

func (suite *ReservationServiceTestSuite) TestCompletePast() {
	res, err := suite.book(suite.user, "10:00", "11:00", pngReceipt())
	suite.Require().NoError(err)
	_, err = suite.service.ApproveReservation(context.Background(), suite.admin, res.ReservationID)
	suite.Require().NoError(err)

	n, err := suite.service.CompletePast(context.Background(), time.Date(2024, 6, 10, 10, 30, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.Zero(n)

	n, err = suite.service.CompletePast(context.Background(), time.Date(2024, 6, 10, 11, 1, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.EqualValues(1, n)
	stored, _ := suite.repo.get(res.ReservationID)
	suite.Equal(domain.StateCompleted, stored.State)
}

func TestReservationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReservationServiceTestSuite))
}
