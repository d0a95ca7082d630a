package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/logging"
)

// Status maps a domain error to its HTTP status code.
func Status(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrAccountSuspended):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyReviewed),
		errors.Is(err, domain.ErrAlreadyResponded),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAlreadyAccepted),
		errors.Is(err, domain.ErrNoWorkerAssigned),
		errors.Is(err, domain.ErrAdNotPublished):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// WriteError renders err as JSON. Unknown errors are logged and hidden.
func WriteError(c echo.Context, err error) error {
	status := Status(err)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(status, echo.Map{"message": "validation failed", "errors": verr.Fields})
	}

	var ferr *domain.FieldError
	if errors.As(err, &ferr) && errors.Is(err, domain.ErrInsufficientFunds) {
		return c.JSON(status, echo.Map{ferr.Field: "insufficient money"})
	}

	if status == http.StatusInternalServerError {
		logging.From(c).WithError(err).
			WithField("path", c.Path()).
			Error("request failed")
		return c.JSON(status, echo.Map{"message": "internal server error"})
	}
	return c.JSON(status, echo.Map{"message": message4xx(err)})
}

// message4xx returns the sentinel text rather than the wrapped chain.
func message4xx(err error) string {
	for _, sentinel := range []error{
		domain.ErrNotFound,
		domain.ErrUnauthorized,
		domain.ErrInvalidCredentials,
		domain.ErrForbidden,
		domain.ErrAccountSuspended,
		domain.ErrInvalidTransition,
		domain.ErrAlreadyReviewed,
		domain.ErrAlreadyResponded,
		domain.ErrConflict,
		domain.ErrInsufficientFunds,
		domain.ErrAlreadyAccepted,
		domain.ErrNoWorkerAssigned,
		domain.ErrAdNotPublished,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
