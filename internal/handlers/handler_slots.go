package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
	"github.com/SscSPs/cancha_booking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// slotHandler serves slot listings and materialization.
type slotHandler struct {
	slotService portssvc.SlotSvcFacade
}

func newSlotHandler(ss portssvc.SlotSvcFacade) *slotHandler {
	return &slotHandler{slotService: ss}
}

// registerSlotRoutes registers the slot routes. Listings are public.
func registerSlotRoutes(fields *gin.RouterGroup, deps routeDeps, slotService portssvc.SlotSvcFacade) {
	h := newSlotHandler(slotService)

	fields.GET("/:fieldId/available-slots", h.availableSlots)
	fields.GET("/:fieldId/slots", h.slotGrid)
	fields.POST("/:fieldId/materialize", deps.auth, middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin), deps.writeLimit, h.materialize)
}

// availableSlots godoc
// @Summary List free slots of a field on a date
// @Description Generates the slots of the field's weekday template (or the default grid) minus booked and standing intervals
// @Tags slots
// @Produce json
// @Param fieldId path string true "Field ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.Envelope{data=[]dto.SlotResponse,meta=dto.SlotsMeta}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Field or template not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /fields/{fieldId}/available-slots [get]
func (h *slotHandler) availableSlots(c *gin.Context) {
	h.listSlots(c, h.slotService.GenerateSlots, "Available slots retrieved successfully")
}

// slotGrid godoc
// @Summary List the full slot grid with availability flags
// @Tags slots
// @Produce json
// @Param fieldId path string true "Field ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.Envelope{data=[]dto.SlotResponse,meta=dto.SlotsMeta}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fields/{fieldId}/slots [get]
func (h *slotHandler) slotGrid(c *gin.Context) {
	h.listSlots(c, h.slotService.SlotGrid, "Slots retrieved successfully")
}

type slotLister func(ctx context.Context, fieldID string, date string) ([]domain.Slot, error)

func (h *slotHandler) listSlots(c *gin.Context, list slotLister, message string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fieldID := c.Param("fieldId")

	var q dto.FieldDateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Warn("Invalid slot query", slog.String("error", err.Error()))
		respondFail(c, http.StatusBadRequest, "date is required in YYYY-MM-DD format")
		return
	}

	slots, err := list(c.Request.Context(), fieldID, q.Date)
	if err != nil {
		respondError(c, logger.With(slog.String("field_id", fieldID)), err, "Failed to generate slots")
		return
	}

	d, _ := domain.ParseDate(q.Date)
	respondOK(c, http.StatusOK, message, dto.ToSlotResponses(slots), dto.SlotsMeta{
		FieldID: fieldID,
		Date:    d,
		DayName: domain.DayName(d.Weekday()),
		Total:   len(slots),
	})
}

// materialize godoc
// @Summary Write Available rows for every generated slot of a date
// @Tags slots
// @Produce json
// @Param fieldId path string true "Field ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 201 {object} dto.Envelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /fields/{fieldId}/materialize [post]
func (h *slotHandler) materialize(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	fieldID := c.Param("fieldId")

	var q dto.FieldDateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondFail(c, http.StatusBadRequest, "date is required in YYYY-MM-DD format")
		return
	}

	created, err := h.slotService.MaterializeDay(c.Request.Context(), actor, fieldID, q.Date)
	if err != nil {
		respondError(c, logger, err, "Failed to materialize slots")
		return
	}
	respondOK(c, http.StatusCreated, "Slots materialized", gin.H{"created": created}, nil)
}
