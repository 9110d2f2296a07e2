package http

import (
	"errors"
	"net/http"

	"cylindertrack/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// respondError maps the core error taxonomy onto HTTP statuses. Unrecognized
// errors stay opaque 500s so internals do not leak through the API.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrConcurrencyConflict):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrBlocked),
		errors.Is(err, errs.ErrInvalidTransition):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrNoMatch),
		errors.Is(err, errs.ErrAmbiguousAssignment):
		status = http.StatusBadRequest
	}

	message := "Internal server error"
	if status != http.StatusInternalServerError {
		message = err.Error()
	}

	return c.JSON(status, ErrorResponse{
		Code:    status,
		Message: message,
	})
}
