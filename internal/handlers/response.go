package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/dto"
	"github.com/SscSPs/cancha_booking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, status int, message string, data any, meta any) {
	c.JSON(status, dto.Envelope{Success: true, Message: message, Data: data, Meta: meta})
}

func respondFail(c *gin.Context, status int, msg string) {
	c.JSON(status, dto.ErrorResponse{Success: false, Error: msg})
}

// respondError maps the error taxonomy to a status. Unknown errors are logged
// and answered with fallback so driver details never reach clients.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var status int
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrInvalidState), errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		respondFail(c, http.StatusInternalServerError, fallback)
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	respondFail(c, status, publicMessage(err))
}

// duplicateMessage replaces unique-violation text, which names rows and constraints.
const duplicateMessage = "transaction reference already used"

// publicMessage drops the sentinel prefix added by the apperrors helpers.
func publicMessage(err error) string {
	if errors.Is(err, apperrors.ErrDuplicate) {
		return duplicateMessage
	}
	msg := err.Error()
	for _, sentinel := range []error{
		apperrors.ErrConflict,
		apperrors.ErrValidation,
		apperrors.ErrInvalidState,
		apperrors.ErrForbidden,
	} {
		if errors.Is(err, sentinel) {
			if trimmed := strings.TrimPrefix(msg, sentinel.Error()+": "); trimmed != "" {
				return trimmed
			}
		}
	}
	return msg
}

// requireActor reads the caller set by AuthMiddleware.
func requireActor(c *gin.Context, logger *slog.Logger) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		respondFail(c, http.StatusUnauthorized, "Unauthorized")
		return domain.Actor{}, false
	}
	return actor, true
}
