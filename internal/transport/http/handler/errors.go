package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lead-relay/internal/domain"
)

// httpError maps a service error to a status code and writes it.
// Server-side failures are logged and answered with a generic message.
func httpError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeError(w, status, messageFor(status, err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrOTPNotFound),
		errors.Is(err, domain.ErrOTPExpired),
		errors.Is(err, domain.ErrOTPMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited), errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrUnknownIntegration), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConfigurationMissing):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDispatchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(status int, err error) string {
	switch {
	case status < http.StatusInternalServerError:
		return err.Error()
	case errors.Is(err, domain.ErrDeliveryFailed):
		return "failed to send verification email"
	case errors.Is(err, domain.ErrDispatchFailed):
		return err.Error()
	default:
		return "internal server error"
	}
}
