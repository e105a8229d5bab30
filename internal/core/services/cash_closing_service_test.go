package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/SscSPs/cancha_booking_app/internal/core/services"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CashClosingRepository ---
type MockCashClosingRepository struct {
	mock.Mock
}

var _ portsrepo.CashClosingRepositoryFacade = (*MockCashClosingRepository)(nil)

func (m *MockCashClosingRepository) FindCashClosingByID(ctx context.Context, closingID string) (*domain.CashClosing, error) {
	args := m.Called(ctx, closingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashClosing), args.Error(1)
}

func (m *MockCashClosingRepository) ListCashClosingsByCompany(ctx context.Context, companyID string, limit, offset int) ([]domain.CashClosing, int, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.CashClosing), args.Int(1), args.Error(2)
}

func (m *MockCashClosingRepository) InsertCashClosingInTx(ctx context.Context, tx pgx.Tx, closing domain.CashClosing) error {
	args := m.Called(ctx, tx, closing)
	return args.Error(0)
}

func (m *MockCashClosingRepository) UpdateCashClosingState(ctx context.Context, closingID string, state domain.CashClosingState, at time.Time) error {
	args := m.Called(ctx, closingID, state, at)
	return args.Error(0)
}

// --- Mock ReservationRepository (transaction surface only) ---
type MockReservationRepository struct {
	mock.Mock
	portsrepo.ReservationRepositoryFacade
}

func (m *MockReservationRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockReservationRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockReservationRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockReservationRepository) LockSettlementCandidatesInTx(ctx context.Context, tx pgx.Tx, companyID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, tx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) MarkClosedInTx(ctx context.Context, tx pgx.Tx, reservationIDs []string, closingID string, at time.Time) error {
	return m.Called(ctx, tx, reservationIDs, closingID, at).Error(0)
}

type CashClosingServiceTestSuite struct {
	suite.Suite
	mockReservations *MockReservationRepository
	mockClosings     *MockCashClosingRepository
	service          portssvc.CashClosingSvcFacade
	tx               *memTx
	owner            domain.Actor
	admin            domain.Actor
	companyID        string
}

func (suite *CashClosingServiceTestSuite) SetupTest() {
	suite.mockReservations = new(MockReservationRepository)
	suite.mockClosings = new(MockCashClosingRepository)
	suite.service = services.NewCashClosingService(suite.mockReservations, suite.mockClosings)
	suite.tx = &memTx{}
	suite.companyID = "company-1"
	suite.owner = domain.Actor{UserID: "owner-1", Role: domain.RoleOwner, CompanyID: suite.companyID}
	suite.admin = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
}

func settleable(id string, amount int64) domain.Reservation {
	user := "user-" + id
	return domain.Reservation{
		ReservationID: id,
		FieldID:       "field-1",
		UserID:        &user,
		Date:          domain.Date{Year: 2024, Month: time.June, Day: 10},
		Start:         domain.ClockAt(10, 0),
		End:           domain.ClockAt(11, 0),
		State:         domain.StateConfirmed,
		PaymentStatus: domain.PaymentApproved,
		PaymentAmount: decimal.NewFromInt(amount),
		Settlement:    domain.SettlementPending,
	}
}

func (suite *CashClosingServiceTestSuite) TestCloseCompany_Success() {
	ctx := context.Background()
	candidates := []domain.Reservation{settleable("r1", 20000), settleable("r2", 15000)}

	suite.mockReservations.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockReservations.On("LockSettlementCandidatesInTx", ctx, suite.tx, suite.companyID).Return(candidates, nil).Once()
	suite.mockClosings.On("InsertCashClosingInTx", ctx, suite.tx, mock.MatchedBy(func(c domain.CashClosing) bool {
		return c.CompanyID == suite.companyID && c.Total.Equal(decimal.NewFromInt(35000)) && c.State == domain.ClosingPending
	})).Return(nil).Once()
	suite.mockReservations.On("MarkClosedInTx", ctx, suite.tx, []string{"r1", "r2"}, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockReservations.On("Commit", ctx, suite.tx).Return(nil).Once()

	closing, err := suite.service.CloseCompany(ctx, suite.owner, suite.companyID)

	suite.Require().NoError(err)
	suite.NotEmpty(closing.CashClosingID)
	suite.Equal([]string{"r1", "r2"}, closing.ReservationIDs)
	suite.True(decimal.NewFromInt(35000).Equal(closing.Total))
	suite.Equal(suite.owner.UserID, closing.CreatedBy)
	suite.mockReservations.AssertExpectations(suite.T())
	suite.mockClosings.AssertExpectations(suite.T())
	suite.mockReservations.AssertNotCalled(suite.T(), "Rollback", mock.Anything, mock.Anything)
}

func (suite *CashClosingServiceTestSuite) TestCloseCompany_RollsBackWhenMarkingFails() {
	ctx := context.Background()
	candidates := []domain.Reservation{settleable("r1", 20000)}
	storageErr := apperrors.NewStorageError("failed to mark reservations closed", assert.AnError)

	suite.mockReservations.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockReservations.On("LockSettlementCandidatesInTx", ctx, suite.tx, suite.companyID).Return(candidates, nil).Once()
	suite.mockClosings.On("InsertCashClosingInTx", ctx, suite.tx, mock.AnythingOfType("domain.CashClosing")).Return(nil).Once()
	suite.mockReservations.On("MarkClosedInTx", ctx, suite.tx, []string{"r1"}, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(storageErr).Once()
	suite.mockReservations.On("Rollback", ctx, suite.tx).Return(nil).Once()

	closing, err := suite.service.CloseCompany(ctx, suite.owner, suite.companyID)

	suite.Require().Error(err)
	suite.Nil(closing)
	suite.ErrorIs(err, apperrors.ErrStorage)
	suite.mockReservations.AssertExpectations(suite.T())
	suite.mockReservations.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *CashClosingServiceTestSuite) TestCloseCompany_RollsBackWhenInsertFails() {
	ctx := context.Background()
	suite.mockReservations.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockReservations.On("LockSettlementCandidatesInTx", ctx, suite.tx, suite.companyID).Return([]domain.Reservation{settleable("r1", 1)}, nil).Once()
	suite.mockClosings.On("InsertCashClosingInTx", ctx, suite.tx, mock.AnythingOfType("domain.CashClosing")).Return(assert.AnError).Once()
	suite.mockReservations.On("Rollback", ctx, suite.tx).Return(nil).Once()

	_, err := suite.service.CloseCompany(ctx, suite.owner, suite.companyID)

	suite.ErrorIs(err, assert.AnError)
	suite.mockReservations.AssertExpectations(suite.T())
	suite.mockReservations.AssertNotCalled(suite.T(), "MarkClosedInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CashClosingServiceTestSuite) TestCloseCompany_NothingToSettle() {
	ctx := context.Background()
	suite.mockReservations.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockReservations.On("LockSettlementCandidatesInTx", ctx, suite.tx, suite.companyID).Return([]domain.Reservation{}, nil).Once()
	suite.mockReservations.On("Rollback", ctx, suite.tx).Return(nil).Once()

	_, err := suite.service.CloseCompany(ctx, suite.owner, suite.companyID)

	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockReservations.AssertExpectations(suite.T())
	suite.mockClosings.AssertNotCalled(suite.T(), "InsertCashClosingInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CashClosingServiceTestSuite) TestCloseCompany_Forbidden() {
	other := domain.Actor{UserID: "owner-2", Role: domain.RoleOwner, CompanyID: "company-2"}

	_, err := suite.service.CloseCompany(context.Background(), other, suite.companyID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockReservations.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *CashClosingServiceTestSuite) TestMarkPaid() {
	ctx := context.Background()
	closing := &domain.CashClosing{CashClosingID: "cc-1", CompanyID: suite.companyID, State: domain.ClosingPending}

	_, err := suite.service.MarkPaid(ctx, suite.owner, "cc-1")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.mockClosings.On("FindCashClosingByID", ctx, "cc-1").Return(closing, nil).Once()
	suite.mockClosings.On("UpdateCashClosingState", ctx, "cc-1", domain.ClosingPaid, mock.AnythingOfType("time.Time")).Return(nil).Once()

	paid, err := suite.service.MarkPaid(ctx, suite.admin, "cc-1")

	suite.Require().NoError(err)
	suite.Equal(domain.ClosingPaid, paid.State)
	suite.mockClosings.AssertExpectations(suite.T())
}

func (suite *CashClosingServiceTestSuite) TestMarkPaid_AlreadyPaid() {
	ctx := context.Background()
	suite.mockClosings.On("FindCashClosingByID", ctx, "cc-1").
		Return(&domain.CashClosing{CashClosingID: "cc-1", State: domain.ClosingPaid}, nil).Once()

	_, err := suite.service.MarkPaid(ctx, suite.admin, "cc-1")

	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockClosings.AssertNotCalled(suite.T(), "UpdateCashClosingState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CashClosingServiceTestSuite) TestListCashClosings() {
	ctx := context.Background()
	suite.mockClosings.On("ListCashClosingsByCompany", ctx, suite.companyID, 20, 0).
		Return([]domain.CashClosing{{CashClosingID: "cc-1", CompanyID: suite.companyID}}, 1, nil).Once()

	page, err := suite.service.ListCashClosings(ctx, suite.owner, suite.companyID, dto.PageParams{})

	suite.Require().NoError(err)
	suite.Len(page.CashClosings, 1)
	suite.Equal(1, page.Meta.Total)
	suite.False(page.Meta.HasMore)
}

func TestCashClosingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CashClosingServiceTestSuite))
}
