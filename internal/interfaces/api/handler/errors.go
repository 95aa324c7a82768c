package handler

import (
	"errors"
	appErrors "medreminder/internal/pkg/errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// errorResponse is the JSON body returned for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps application errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrMedicationNotFound),
		errors.Is(err, appErrors.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, appErrors.ErrInvalidMedication),
		errors.Is(err, appErrors.ErrInvalidTimeOfDay):
		return http.StatusBadRequest
	case errors.Is(err, appErrors.ErrPermissionDenied):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = appErrors.ErrInternalServer.Error()
	}
	return c.JSON(status, errorResponse{Error: msg})
}
