package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
	"github.com/SscSPs/cancha_booking_app/internal/handlers"
	"github.com/SscSPs/cancha_booking_app/internal/middleware"
	"github.com/SscSPs/cancha_booking_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReservationService ---
type MockReservationService struct {
	mock.Mock
}

var _ portssvc.ReservationSvcFacade = (*MockReservationService)(nil)

func (m *MockReservationService) reservation(args mock.Arguments) (*domain.Reservation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservation(ctx context.Context, actor domain.Actor, reservationID string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, actor, reservationID))
}

func (m *MockReservationService) ListFieldReservations(ctx context.Context, fieldID string, date string) ([]domain.Reservation, error) {
	args := m.Called(ctx, fieldID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationService) ListPendingApproval(ctx context.Context, actor domain.Actor, params dto.ListPendingParams) (*dto.ListReservationsResponse, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListReservationsResponse), args.Error(1)
}

func (m *MockReservationService) ListMyReservations(ctx context.Context, actor domain.Actor, params dto.PageParams) (*dto.ListReservationsResponse, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListReservationsResponse), args.Error(1)
}

func (m *MockReservationService) CreateReservation(ctx context.Context, actor domain.Actor, req dto.CreateReservationCommand) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, actor, req))
}

func (m *MockReservationService) AttachReceipt(ctx context.Context, actor domain.Actor, reservationID string, receipt dto.ReceiptUpload) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, actor, reservationID, receipt))
}

func (m *MockReservationService) ApproveReservation(ctx context.Context, actor domain.Actor, reservationID string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, actor, reservationID))
}

func (m *MockReservationService) RejectReservation(ctx context.Context, actor domain.Actor, reservationID string, reason string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, actor, reservationID, reason))
}

func (m *MockReservationService) CancelReservation(ctx context.Context, actor domain.Actor, reservationID string, reason string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, actor, reservationID, reason))
}

func (m *MockReservationService) ConfirmReservation(ctx context.Context, actor domain.Actor, reservationID string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, actor, reservationID))
}

func (m *MockReservationService) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock SlotService ---
type MockSlotService struct {
	mock.Mock
}

var _ portssvc.SlotSvcFacade = (*MockSlotService)(nil)

func (m *MockSlotService) GenerateSlots(ctx context.Context, fieldID string, date string) ([]domain.Slot, error) {
	args := m.Called(ctx, fieldID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *MockSlotService) SlotGrid(ctx context.Context, fieldID string, date string) ([]domain.Slot, error) {
	args := m.Called(ctx, fieldID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *MockSlotService) MaterializeDay(ctx context.Context, actor domain.Actor, fieldID string, date string) (int, error) {
	args := m.Called(ctx, actor, fieldID, date)
	return args.Int(0), args.Error(1)
}

// --- Test Suite ---
type ReservationHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockReservation *MockReservationService
	mockSlots       *MockSlotService
	jwtSecret       string
}

// generateTestToken creates a signed access token for the given caller.
func (suite *ReservationHandlerTestSuite) generateTestToken(userID string, role domain.Role, companyID string) string {
	claims := middleware.AccessClaims{
		Role:      string(role),
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "cancha-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.mockReservation = new(MockReservationService)
	suite.mockSlots = new(MockSlotService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Slots:        suite.mockSlots,
		Reservations: suite.mockReservation,
	}, handlers.RouteOptions{})
}

func (suite *ReservationHandlerTestSuite) do(method, url string, body []byte, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func pendingReservation(id string) *domain.Reservation {
	user := "user-1"
	return &domain.Reservation{
		ReservationID: id,
		FieldID:       "field-1",
		UserID:        &user,
		Date:          domain.Date{Year: 2024, Month: time.June, Day: 10},
		Start:         domain.ClockAt(10, 0),
		End:           domain.ClockAt(11, 0),
		State:         domain.StatePending,
		PaymentAmount: decimal.NewFromInt(20000),
		Settlement:    domain.SettlementPending,
	}
}

func (suite *ReservationHandlerTestSuite) TestAvailableSlots_Public() {
	d := domain.Date{Year: 2024, Month: time.June, Day: 10}
	slots := []domain.Slot{
		{FieldID: "field-1", Date: d, Start: domain.ClockAt(6, 0), End: domain.ClockAt(7, 0), IsAvailable: true},
		{FieldID: "field-1", Date: d, Start: domain.ClockAt(7, 0), End: domain.ClockAt(8, 0), IsAvailable: true},
	}
	suite.mockSlots.On("GenerateSlots", mock.Anything, "field-1", "2024-06-10").Return(slots, nil).Once()

	w := suite.do(http.MethodGet, "/fields/field-1/available-slots?date=2024-06-10", nil, "")

	suite.Equal(http.StatusOK, w.Code)
	var body struct {
		Success bool               `json:"success"`
		Data    []dto.SlotResponse `json:"data"`
		Meta    dto.SlotsMeta      `json:"meta"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(body.Success)
	suite.Len(body.Data, 2)
	suite.Equal(domain.ClockAt(6, 0), body.Data[0].StartTime)
	suite.Equal("Lunes", body.Meta.DayName)
	suite.Equal(2, body.Meta.Total)
	suite.Contains(w.Body.String(), `"start_time":"06:00:00"`)
	suite.mockSlots.AssertExpectations(suite.T())
}

func (suite *ReservationHandlerTestSuite) TestAvailableSlots_BadDate() {
	w := suite.do(http.MethodGet, "/fields/field-1/available-slots?date=10-06-2024", nil, "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSlots.AssertNotCalled(suite.T(), "GenerateSlots", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReservationHandlerTestSuite) TestAvailableSlots_FieldNotFound() {
	suite.mockSlots.On("GenerateSlots", mock.Anything, "missing", "2024-06-10").
		Return(nil, apperrors.NewNotFoundError("field missing")).Once()

	w := suite.do(http.MethodGet, "/fields/missing/available-slots?date=2024-06-10", nil, "")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ReservationHandlerTestSuite) TestReserveSlot_Created() {
	token := suite.generateTestToken("user-1", domain.RoleUser, "")
	suite.mockReservation.On("CreateReservation", mock.Anything,
		domain.Actor{UserID: "user-1", Role: domain.RoleUser},
		mock.MatchedBy(func(cmd dto.CreateReservationCommand) bool {
			return cmd.FieldID == "field-1" && cmd.Date == "2024-06-10" && cmd.StartTime == "10:00" && cmd.EndTime == "11:00"
		}),
	).Return(pendingReservation("cal-1"), nil).Once()

	body := []byte(`{"calendar_date":"2024-06-10","start_time":"10:00","end_time":"11:00"}`)
	w := suite.do(http.MethodPost, "/fields/field-1/reserve-slot", body, token)

	suite.Equal(http.StatusCreated, w.Code)
	suite.Contains(w.Body.String(), `"calendar_id":"cal-1"`)
	suite.Contains(w.Body.String(), `"calendar_state":"Pendiente"`)
	suite.mockReservation.AssertExpectations(suite.T())
}

func (suite *ReservationHandlerTestSuite) TestReserveSlot_Conflict() {
	token := suite.generateTestToken("user-2", domain.RoleUser, "")
	suite.mockReservation.On("CreateReservation", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewConflictError("Ya existe una reserva en ese horario")).Once()

	body := []byte(`{"calendar_date":"2024-06-10","start_time":"10:30","end_time":"11:30"}`)
	w := suite.do(http.MethodPost, "/fields/field-1/reserve-slot", body, token)

	suite.Equal(http.StatusConflict, w.Code)
	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Success)
	suite.Equal("Ya existe una reserva en ese horario", resp.Error)
}

func (suite *ReservationHandlerTestSuite) TestReserveSlot_DuplicateTransaction() {
	token := suite.generateTestToken("user-2", domain.RoleUser, "")
	raw := fmt.Errorf("%w: failed to insert reservation 7f0c2a9e (calendars_calendar_transaccion_key)", apperrors.ErrDuplicate)
	suite.mockReservation.On("CreateReservation", mock.Anything, mock.Anything, mock.Anything).Return(nil, raw).Once()

	body := []byte(`{"calendar_date":"2024-06-10","start_time":"10:00","end_time":"11:00","calendar_transaction":"TX-1"}`)
	w := suite.do(http.MethodPost, "/fields/field-1/reserve-slot", body, token)

	suite.Equal(http.StatusConflict, w.Code)
	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("transaction reference already used", resp.Error)
	suite.NotContains(w.Body.String(), "calendars_calendar_transaccion_key")
	suite.NotContains(w.Body.String(), "7f0c2a9e")
}

func (suite *ReservationHandlerTestSuite) TestReserveSlot_RequiresAuth() {
	body := []byte(`{"calendar_date":"2024-06-10","start_time":"10:00","end_time":"11:00"}`)
	w := suite.do(http.MethodPost, "/fields/field-1/reserve-slot", body, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockReservation.AssertNotCalled(suite.T(), "CreateReservation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReservationHandlerTestSuite) TestReserveSlot_InvalidBody() {
	token := suite.generateTestToken("user-1", domain.RoleUser, "")
	body := []byte(`{"calendar_date":"2024-06-10","start_time":"10h","end_time":"11:00"}`)

	w := suite.do(http.MethodPost, "/fields/field-1/reserve-slot", body, token)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReservation.AssertNotCalled(suite.T(), "CreateReservation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReservationHandlerTestSuite) TestApprove_NonAdminForbidden() {
	token := suite.generateTestToken("owner-1", domain.RoleOwner, "company-1")

	w := suite.do(http.MethodPut, "/calendars/cal-1/approve", nil, token)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockReservation.AssertNotCalled(suite.T(), "ApproveReservation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReservationHandlerTestSuite) TestApprove_WithoutReceipt() {
	token := suite.generateTestToken("admin-1", domain.RoleAdmin, "")
	suite.mockReservation.On("ApproveReservation", mock.Anything, mock.Anything, "cal-1").
		Return(nil, apperrors.NewInvalidStateError("reservation has no payment receipt")).Once()

	w := suite.do(http.MethodPut, "/calendars/cal-1/approve", nil, token)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "reservation has no payment receipt")
}

func (suite *ReservationHandlerTestSuite) TestCancel_StorageFailureHidesDetails() {
	token := suite.generateTestToken("user-1", domain.RoleUser, "")
	suite.mockReservation.On("CancelReservation", mock.Anything, mock.Anything, "cal-1", "").
		Return(nil, apperrors.NewStorageError("failed to update reservation", context.DeadlineExceeded)).Once()

	w := suite.do(http.MethodPut, "/calendars/cal-1/cancel", nil, token)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "deadline")
	suite.Contains(w.Body.String(), "Failed to cancel reservation")
}

func (suite *ReservationHandlerTestSuite) TestCreateCalendar_WithReceipt() {
	token := suite.generateTestToken("user-1", domain.RoleUser, "")
	ref := "/uploads/receipts/field-1/abc.png"
	created := pendingReservation("cal-2")
	created.State = domain.StateByConfirmation
	created.PaymentStatus = domain.PaymentPending
	created.Receipt = &ref
	suite.mockReservation.On("CreateReservation", mock.Anything, mock.Anything,
		mock.MatchedBy(func(cmd dto.CreateReservationCommand) bool {
			return cmd.Receipt != nil && cmd.Receipt.Filename == "comprobante.png" && cmd.Amount != nil && cmd.Amount.Equal(decimal.NewFromInt(20000))
		}),
	).Return(created, nil).Once()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"field_id":           "field-1",
		"calendar_date":      "2024-06-10",
		"calendar_init_time": "10:00",
		"calendar_end_time":  "11:00",
		"payment_amount":     "20000",
	} {
		suite.Require().NoError(mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("receipt_image", "comprobante.png")
	suite.Require().NoError(err)
	_, _ = part.Write([]byte("\x89PNG fake"))
	suite.Require().NoError(mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/calendars/create", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	suite.Contains(w.Body.String(), `"receipt_url":"/uploads/receipts/field-1/abc.png"`)
	suite.Contains(w.Body.String(), `"payment_status":"pendiente"`)
	suite.mockReservation.AssertExpectations(suite.T())
}

func (suite *ReservationHandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil, "")

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"ok"`)
}

func TestReservationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}
