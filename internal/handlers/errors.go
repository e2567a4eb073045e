package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// retryAfterSeconds is sent with concurrency conflicts.
const retryAfterSeconds = "1"

// statusForError maps an error kind to its HTTP status.
func statusForError(err error) int {
	if le, ok := apperrors.AsLedgerError(err); ok && le.Kind != nil {
		err = le.Kind
	}
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConcurrencyConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvariantViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrPreconditionNotMet):
		return http.StatusPreconditionFailed
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrJobsUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body for err. Unexpected failures are logged and hidden
// behind fallback.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: fallback})
		return
	}

	body := dto.ErrorResponse{Error: err.Error()}
	if le, ok := apperrors.AsLedgerError(err); ok {
		body.Error = le.Message
		body.Code = string(le.Code)
		body.EntityID = le.EntityID
		body.Amount = le.Amount
		body.Count = le.Count
	}
	if errors.Is(err, apperrors.ErrConcurrencyConflict) {
		c.Header("Retry-After", retryAfterSeconds)
	}
	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, body)
}

// badRequest reports a binding failure.
func badRequest(c *gin.Context, what string, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + what + ": " + err.Error()})
}

// actorID returns the acting user of the request.
func actorID(c *gin.Context) string {
	if id, ok := middleware.GetActorIDFromContext(c); ok {
		return id
	}
	return middleware.DefaultActorID
}
