// Package handler exposes the services over JSON HTTP using echo. Handlers
// parse requests, delegate to the services (which own every domain check)
// and translate the service error taxonomy to HTTP status codes.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/splittab/splittab/internal/auth"
	"github.com/splittab/splittab/internal/payment"
	"github.com/splittab/splittab/internal/service"
	"github.com/splittab/splittab/internal/storage"
)

// fail maps a service-layer error to a JSON error response. Everything in
// the domain taxonomy is a caller-facing rejection; anything unrecognized
// is a 500.
func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, payment.ErrCardNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrNotGroupMember),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidSignup),
		errors.Is(err, payment.ErrInvalidCardNumber),
		errors.Is(err, payment.ErrInvalidCVC),
		errors.Is(err, payment.ErrInvalidExpiry),
		errors.Is(err, payment.ErrCardExpired):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrVendorMismatch),
		errors.Is(err, service.ErrNotMember),
		errors.Is(err, payment.ErrNotCardOwner):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrAlreadyAttached),
		errors.Is(err, service.ErrNotAttached),
		errors.Is(err, service.ErrCreatorMustTransfer),
		errors.Is(err, auth.ErrAccountExists):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
