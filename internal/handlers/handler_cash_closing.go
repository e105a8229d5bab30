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

type cashClosingHandler struct {
	cashClosingService portssvc.CashClosingSvcFacade
}

func newCashClosingHandler(cs portssvc.CashClosingSvcFacade) *cashClosingHandler {
	return &cashClosingHandler{cashClosingService: cs}
}

func registerCashClosingRoutes(r gin.IRouter, deps routeDeps, cashClosingService portssvc.CashClosingSvcFacade) {
	h := newCashClosingHandler(cashClosingService)
	managers := middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin)

	closings := r.Group("/cash-closings", deps.auth, managers)
	{
		closings.POST("/company/:companyId", deps.writeLimit, h.closeCash)
		closings.GET("/company/:companyId", h.list)
		closings.GET("/:closingId", h.get)
		closings.PUT("/:closingId/pay", middleware.RequireRole(domain.RoleAdmin), h.markPaid)
	}
}

// closeCash godoc
// @Summary Close the cash of a company
// @Description Sweeps every settleable reservation of the company's fields into one closing, all or nothing
// @Tags cash-closings
// @Produce json
// @Param companyId path string true "Company ID"
// @Success 201 {object} dto.Envelope{data=domain.CashClosing}
// @Failure 400 {object} dto.ErrorResponse "No reservations pending settlement"
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /cash-closings/company/{companyId} [post]
func (h *cashClosingHandler) closeCash(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	companyID := c.Param("companyId")

	closing, err := h.cashClosingService.CloseCompany(c.Request.Context(), actor, companyID)
	if err != nil {
		respondError(c, logger.With(slog.String("company_id", companyID)), err, "Failed to close cash")
		return
	}
	respondOK(c, http.StatusCreated, "Cash closing created", closing, nil)
}

func (h *cashClosingHandler) list(c *gin.Context) {
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
	page, err := h.cashClosingService.ListCashClosings(c.Request.Context(), actor, c.Param("companyId"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list cash closings")
		return
	}
	respondOK(c, http.StatusOK, "", page.CashClosings, page.Meta)
}

func (h *cashClosingHandler) get(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	closing, err := h.cashClosingService.GetCashClosing(c.Request.Context(), actor, c.Param("closingId"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve cash closing")
		return
	}
	respondOK(c, http.StatusOK, "", closing, nil)
}

func (h *cashClosingHandler) markPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	closing, err := h.cashClosingService.MarkPaid(c.Request.Context(), actor, c.Param("closingId"))
	if err != nil {
		respondError(c, logger, err, "Failed to mark cash closing paid")
		return
	}
	respondOK(c, http.StatusOK, "Cash closing paid", closing, nil)
}
