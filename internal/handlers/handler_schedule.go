package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
	"github.com/SscSPs/cancha_booking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type scheduleHandler struct {
	scheduleService portssvc.ScheduleSvcFacade
}

func newScheduleHandler(ss portssvc.ScheduleSvcFacade) *scheduleHandler {
	return &scheduleHandler{scheduleService: ss}
}

func registerScheduleRoutes(fields *gin.RouterGroup, deps routeDeps, scheduleService portssvc.ScheduleSvcFacade) {
	h := newScheduleHandler(scheduleService)
	managers := middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin)

	fields.GET("/:fieldId/schedules", h.listWeek)
	fields.PUT("/:fieldId/schedules/:weekday", deps.auth, managers, h.replaceDay)
	fields.POST("/:fieldId/schedules/import", deps.auth, managers, h.importDense)
}

// listWeek godoc
// @Summary List the weekly schedule template of a field
// @Description Weekdays without a configured template show the default grid
// @Tags schedules
// @Produce json
// @Param fieldId path string true "Field ID"
// @Success 200 {object} dto.Envelope{data=[]dto.ScheduleDayResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /fields/{fieldId}/schedules [get]
func (h *scheduleHandler) listWeek(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	week, err := h.scheduleService.ListWeek(c.Request.Context(), c.Param("fieldId"))
	if err != nil {
		respondError(c, logger, err, "Failed to list schedules")
		return
	}
	days := make([]dto.ScheduleDayResponse, len(week))
	for i, t := range week {
		days[i] = dto.ToScheduleDayResponse(t)
	}
	respondOK(c, http.StatusOK, "", days, nil)
}

// replaceDay godoc
// @Summary Replace the template rows of one weekday
// @Tags schedules
// @Accept json
// @Produce json
// @Param fieldId path string true "Field ID"
// @Param weekday path int true "Weekday, 0 is Sunday"
// @Param body body dto.ReplaceScheduleDayRequest true "Rows"
// @Success 200 {object} dto.Envelope{data=dto.ScheduleDayResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /fields/{fieldId}/schedules/{weekday} [put]
func (h *scheduleHandler) replaceDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		respondFail(c, http.StatusBadRequest, "weekday must be 0 (Sunday) to 6 (Saturday)")
		return
	}

	var req dto.ReplaceScheduleDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReplaceDay", slog.String("error", err.Error()))
		respondFail(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	t, err := h.scheduleService.ReplaceDay(c.Request.Context(), actor, c.Param("fieldId"), time.Weekday(weekday), req)
	if err != nil {
		respondError(c, logger, err, "Failed to replace schedule")
		return
	}
	respondOK(c, http.StatusOK, "Schedule updated", dto.ToScheduleDayResponse(*t), nil)
}

func (h *scheduleHandler) importDense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.ImportDenseScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	written, err := h.scheduleService.ImportDense(c.Request.Context(), actor, c.Param("fieldId"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to import schedule")
		return
	}
	days := make([]int, len(written))
	for i, w := range written {
		days[i] = int(w)
	}
	respondOK(c, http.StatusCreated, "Schedule imported", gin.H{"normalized_days": days}, nil)
}
