package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
	"github.com/SscSPs/cancha_booking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

func newRecurringHandler(rs portssvc.RecurringSvcFacade) *recurringHandler {
	return &recurringHandler{recurringService: rs}
}

func registerRecurringRoutes(r gin.IRouter, fields *gin.RouterGroup, deps routeDeps, recurringService portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(recurringService)
	managers := middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin)

	fields.GET("/:fieldId/recurring", deps.auth, h.list)
	fields.POST("/:fieldId/recurring", deps.auth, managers, deps.writeLimit, h.create)
	r.DELETE("/recurring/:recurringId", deps.auth, managers, h.deactivate)
}

func (h *recurringHandler) list(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rules, err := h.recurringService.ListRecurring(c.Request.Context(), c.Param("fieldId"))
	if err != nil {
		respondError(c, logger, err, "Failed to list recurring reservations")
		return
	}
	respondOK(c, http.StatusOK, "", rules, gin.H{"total": len(rules)})
}

// create godoc
// @Summary Create a standing weekly or monthly booking
// @Tags recurring
// @Accept json
// @Produce json
// @Param fieldId path string true "Field ID"
// @Param body body dto.CreateRecurringRequest true "Rule"
// @Success 201 {object} dto.Envelope{data=domain.RecurringReservation}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Overlaps another active rule"
// @Security BearerAuth
// @Router /fields/{fieldId}/recurring [post]
func (h *recurringHandler) create(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRecurring", slog.String("error", err.Error()))
		respondFail(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	rule, err := h.recurringService.CreateRecurring(c.Request.Context(), actor, c.Param("fieldId"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create recurring reservation")
		return
	}
	respondOK(c, http.StatusCreated, "Recurring reservation created", rule, nil)
}

func (h *recurringHandler) deactivate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	if err := h.recurringService.DeactivateRecurring(c.Request.Context(), actor, c.Param("recurringId")); err != nil {
		respondError(c, logger, err, "Failed to deactivate recurring reservation")
		return
	}
	respondOK(c, http.StatusOK, "Recurring reservation deactivated", nil, nil)
}
