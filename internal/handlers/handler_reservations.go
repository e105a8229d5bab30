package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
	"github.com/SscSPs/cancha_booking_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// multipart bodies carry at most one receipt plus a few text fields
const maxMultipartBytes = domain.MaxReceiptBytes + 1<<20

// reservationHandler handles HTTP requests related to calendar reservations.
type reservationHandler struct {
	reservationService portssvc.ReservationSvcFacade
}

func newReservationHandler(rs portssvc.ReservationSvcFacade) *reservationHandler {
	return &reservationHandler{reservationService: rs}
}

// registerReservationRoutes registers the calendar routes and the field-scoped booking routes.
func registerReservationRoutes(r gin.IRouter, fields *gin.RouterGroup, deps routeDeps, reservationService portssvc.ReservationSvcFacade) {
	h := newReservationHandler(reservationService)
	managers := middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin)
	admins := middleware.RequireRole(domain.RoleAdmin)

	fields.POST("/:fieldId/reserve-slot", deps.auth, deps.writeLimit, h.reserveSlot)
	fields.GET("/:fieldId/reservations", deps.auth, h.listFieldReservations)
	fields.PATCH("/confirm-reservation/:calendarId", deps.auth, managers, h.confirmReservation)
	fields.PATCH("/cancel-reservation/:calendarId", deps.auth, h.cancelReservation)

	calendars := r.Group("/calendars", deps.auth)
	{
		calendars.POST("/create", deps.writeLimit, h.createCalendar)
		calendars.GET("/pending", admins, h.listPending)
		calendars.GET("/user/me", h.listMine)
		calendars.GET("/:calendarId", h.getReservation)
		calendars.POST("/:calendarId/upload-receipt", deps.writeLimit, h.uploadReceipt)
		calendars.PUT("/:calendarId/approve", admins, h.approve)
		calendars.PUT("/:calendarId/reject", admins, h.reject)
		calendars.PUT("/:calendarId/cancel", h.cancelReservation)
	}
}

// reserveSlot godoc
// @Summary Reserve an interval of a field
// @Description Books the interval atomically. Overlapping a blocking reservation fails with 409.
// @Tags reservations
// @Accept json
// @Produce json
// @Param fieldId path string true "Field ID"
// @Param reservation body dto.ReserveSlotRequest true "Reservation"
// @Success 201 {object} dto.Envelope{data=dto.ReservationResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Ya existe una reserva en ese horario"
// @Security BearerAuth
// @Router /fields/{fieldId}/reserve-slot [post]
func (h *reservationHandler) reserveSlot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.ReserveSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReserveSlot", slog.String("error", err.Error()))
		respondFail(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	fieldID := c.Param("fieldId")
	logger = logger.With(slog.String("field_id", fieldID), slog.String("date", req.CalendarDate))

	res, err := h.reservationService.CreateReservation(c.Request.Context(), actor, dto.CreateReservationCommand{
		FieldID:     fieldID,
		UserID:      req.UserID,
		Date:        req.CalendarDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Transaction: req.CalendarTransaction,
		Amount:      req.PaymentAmount,
	})
	if err != nil {
		respondError(c, logger, err, "Failed to reserve slot")
		return
	}
	respondOK(c, http.StatusCreated, "Slot reserved successfully", dto.ToReservationResponse(res), nil)
}

// createCalendar godoc
// @Summary Create a reservation with an optional payment receipt
// @Tags reservations
// @Accept multipart/form-data
// @Produce json
// @Param field_id formData string true "Field ID"
// @Param user_id formData string false "User ID (owners and admins only)"
// @Param calendar_date formData string true "Date (YYYY-MM-DD)"
// @Param calendar_init_time formData string true "Start (HH:MM)"
// @Param calendar_end_time formData string true "End (HH:MM)"
// @Param calendar_transaccion formData string false "Transaction reference"
// @Param payment_amount formData number false "Amount paid"
// @Param receipt_image formData file false "Receipt (jpg, png, webp, gif, pdf; max 5MB)"
// @Success 201 {object} dto.Envelope{data=dto.CreateReservationResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /calendars/create [post]
func (h *reservationHandler) createCalendar(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMultipartBytes)
	var form dto.CreateCalendarForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn("Failed to bind form for CreateCalendar", slog.String("error", err.Error()))
		respondFail(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	amount, err := parseAmount(form.PaymentAmount)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "payment_amount must be a number")
		return
	}

	receipt, file, err := readReceipt(c, "receipt_image", amount)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	if file != nil {
		defer file.Close()
	}

	res, err := h.reservationService.CreateReservation(c.Request.Context(), actor, dto.CreateReservationCommand{
		FieldID:     form.FieldID,
		UserID:      form.UserID,
		Date:        form.CalendarDate,
		StartTime:   form.CalendarInitTime,
		EndTime:     form.CalendarEndTime,
		Transaction: form.CalendarTransaccion,
		Amount:      amount,
		Receipt:     receipt,
	})
	if err != nil {
		respondError(c, logger.With(slog.String("field_id", form.FieldID)), err, "Failed to create reservation")
		return
	}

	resp := dto.ToReservationResponse(res)
	respondOK(c, http.StatusCreated, "Reservation created successfully", dto.CreateReservationResponse{
		CalendarID:    res.ReservationID,
		ReceiptURL:    res.Receipt,
		CalendarState: res.State,
		PaymentStatus: resp.PaymentStatus,
	}, nil)
}

// uploadReceipt godoc
// @Summary Attach a payment receipt to a reservation
// @Tags reservations
// @Accept multipart/form-data
// @Produce json
// @Param calendarId path string true "Reservation ID"
// @Param receipt formData file true "Receipt (jpg, png, webp, gif, pdf; max 5MB)"
// @Param payment_amount formData number false "Amount paid"
// @Success 200 {object} dto.Envelope{data=dto.ReservationResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /calendars/{calendarId}/upload-receipt [post]
func (h *reservationHandler) uploadReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	calendarID := c.Param("calendarId")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMultipartBytes)
	var form dto.UploadReceiptForm
	if err := c.ShouldBind(&form); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	amount, err := parseAmount(form.PaymentAmount)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "payment_amount must be a number")
		return
	}

	receipt, file, err := readReceipt(c, "receipt", amount)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	if receipt == nil {
		respondFail(c, http.StatusBadRequest, "receipt file is required")
		return
	}
	defer file.Close()

	res, err := h.reservationService.AttachReceipt(c.Request.Context(), actor, calendarID, *receipt)
	if err != nil {
		respondError(c, logger.With(slog.String("calendar_id", calendarID)), err, "Failed to upload receipt")
		return
	}
	respondOK(c, http.StatusOK, "Receipt uploaded successfully", dto.ToReservationResponse(res), nil)
}

// approve godoc
// @Summary Approve a pending payment
// @Tags reservations
// @Produce json
// @Param calendarId path string true "Reservation ID"
// @Success 200 {object} dto.Envelope{data=dto.ReservationResponse}
// @Failure 400 {object} dto.ErrorResponse "No receipt attached"
// @Failure 404 {object} dto.ErrorResponse "No pending payment"
// @Security BearerAuth
// @Router /calendars/{calendarId}/approve [put]
func (h *reservationHandler) approve(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	calendarID := c.Param("calendarId")

	res, err := h.reservationService.ApproveReservation(c.Request.Context(), actor, calendarID)
	if err != nil {
		respondError(c, logger.With(slog.String("calendar_id", calendarID)), err, "Failed to approve payment")
		return
	}
	respondOK(c, http.StatusOK, "Payment approved", dto.ToReservationResponse(res), nil)
}

// reject godoc
// @Summary Reject a payment
// @Tags reservations
// @Accept json
// @Produce json
// @Param calendarId path string true "Reservation ID"
// @Param body body dto.RejectReservationRequest true "Rejection reason"
// @Success 200 {object} dto.Envelope{data=dto.ReservationResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /calendars/{calendarId}/reject [put]
func (h *reservationHandler) reject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	calendarID := c.Param("calendarId")

	var req dto.RejectReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "rejection_reason is required")
		return
	}

	res, err := h.reservationService.RejectReservation(c.Request.Context(), actor, calendarID, req.RejectionReason)
	if err != nil {
		respondError(c, logger.With(slog.String("calendar_id", calendarID)), err, "Failed to reject payment")
		return
	}
	respondOK(c, http.StatusOK, "Payment rejected", dto.ToReservationResponse(res), nil)
}

// cancelReservation godoc
// @Summary Cancel a reservation
// @Description Frees the interval. Materialized slots return to Disponible.
// @Tags reservations
// @Accept json
// @Produce json
// @Param calendarId path string true "Reservation ID"
// @Param body body dto.CancelReservationRequest false "Reason"
// @Success 200 {object} dto.Envelope{data=dto.ReservationResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /calendars/{calendarId}/cancel [put]
func (h *reservationHandler) cancelReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	calendarID := c.Param("calendarId")

	var req dto.CancelReservationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFail(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
			return
		}
	}

	res, err := h.reservationService.CancelReservation(c.Request.Context(), actor, calendarID, req.Reason)
	if err != nil {
		respondError(c, logger.With(slog.String("calendar_id", calendarID)), err, "Failed to cancel reservation")
		return
	}
	respondOK(c, http.StatusOK, "Reservation cancelled", dto.ToReservationResponse(res), nil)
}

// confirmReservation godoc
// @Summary Confirm a reservation awaiting confirmation
// @Tags reservations
// @Produce json
// @Param calendarId path string true "Reservation ID"
// @Success 200 {object} dto.Envelope{data=dto.ReservationResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /fields/confirm-reservation/{calendarId} [patch]
func (h *reservationHandler) confirmReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	calendarID := c.Param("calendarId")

	res, err := h.reservationService.ConfirmReservation(c.Request.Context(), actor, calendarID)
	if err != nil {
		respondError(c, logger.With(slog.String("calendar_id", calendarID)), err, "Failed to confirm reservation")
		return
	}
	respondOK(c, http.StatusOK, "Reservation confirmed", dto.ToReservationResponse(res), nil)
}

func (h *reservationHandler) getReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	res, err := h.reservationService.GetReservation(c.Request.Context(), actor, c.Param("calendarId"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve reservation")
		return
	}
	respondOK(c, http.StatusOK, "", dto.ToReservationResponse(res), nil)
}

func (h *reservationHandler) listFieldReservations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.FieldDateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondFail(c, http.StatusBadRequest, "date is required in YYYY-MM-DD format")
		return
	}
	list, err := h.reservationService.ListFieldReservations(c.Request.Context(), c.Param("fieldId"), q.Date)
	if err != nil {
		respondError(c, logger, err, "Failed to list reservations")
		return
	}
	respondOK(c, http.StatusOK, "", dto.ToReservationResponses(list), gin.H{"total": len(list)})
}

// listPending godoc
// @Summary List receipts awaiting approval
// @Tags reservations
// @Produce json
// @Param company_id query string false "Company filter"
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=[]dto.ReservationResponse,meta=dto.PageMeta}
// @Security BearerAuth
// @Router /calendars/pending [get]
func (h *reservationHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var params dto.ListPendingParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return
	}
	page, err := h.reservationService.ListPendingApproval(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list pending approvals")
		return
	}
	respondOK(c, http.StatusOK, "", page.Reservations, page.Meta)
}

func (h *reservationHandler) listMine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var params dto.PageParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return
	}
	page, err := h.reservationService.ListMyReservations(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list reservations")
		return
	}
	respondOK(c, http.StatusOK, "", page.Reservations, page.Meta)
}

func parseAmount(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// readReceipt opens the named multipart file. A missing part returns a nil upload.
func readReceipt(c *gin.Context, field string, amount *decimal.Decimal) (*dto.ReceiptUpload, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, errors.New("could not read " + field + ": " + err.Error())
	}
	if _, err := domain.CheckReceipt(fh.Header.Get("Content-Type"), fh.Filename, fh.Size); err != nil {
		return nil, nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, errors.New("could not open " + field)
	}
	return &dto.ReceiptUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
		Amount:      amount,
	}, f, nil
}
