package http

import (
	"errors"
	"log/slog"
	"net/http"

	"shipping/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// messageResponse is the body of every response that carries no payload.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response. Internal errors are logged and answered
// with a generic message.
func fail(ctx echo.Context, logger *slog.Logger, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		message = "internal server error"
	}
	return ctx.JSON(status, messageResponse{Success: false, Message: message})
}

// ErrorHandler renders errors that escape the handlers, such as unknown routes
// or echo.HTTPError from middleware, in the common envelope.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			message := http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok {
				message = m
			}
			if ctx.Request().Method == http.MethodHead {
				_ = ctx.NoContent(he.Code)
				return
			}
			_ = ctx.JSON(he.Code, messageResponse{Success: false, Message: message})
			return
		}

		_ = fail(ctx, logger, err)
	}
}
