package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

// Machine-stable reasons carried in every error envelope.
const (
	ReasonValidation        = "validation_error"
	ReasonConflict          = "conflict"
	ReasonForbidden         = "forbidden"
	ReasonNotFound          = "not_found"
	ReasonUnauthorized      = "unauthorized"
	ReasonInvalidTransition = "invalid_transition"
	ReasonInternal          = "internal_error"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status code and reason.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"success": false, "message": "...", "reason": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, reason, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Success: false, Message: msg, Reason: reason})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, reasonForStatus(he.Code), fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. ErrConflict is checked
	// before ErrInvalidTransition because a lost claim wraps both.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ReasonValidation, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest, ReasonConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest, ReasonInvalidTransition, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ReasonUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ReasonUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ReasonForbidden, "access forbidden"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, ReasonNotFound, "order not found"
	case errors.Is(err, domain.ErrCourierNotFound):
		return http.StatusNotFound, ReasonNotFound, "courier not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ReasonNotFound, "user not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, ReasonConflict, "user already exists"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, ReasonInternal, "internal server error"
}

func reasonForStatus(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return ReasonValidation
	case http.StatusUnauthorized:
		return ReasonUnauthorized
	case http.StatusForbidden:
		return ReasonForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return ReasonNotFound
	case http.StatusConflict:
		return ReasonConflict
	default:
		if code >= 500 {
			return ReasonInternal
		}
		return ReasonValidation
	}
}
