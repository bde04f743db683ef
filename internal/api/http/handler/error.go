package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/labstack/echo/v4"
)

// statusFor maps a domain error to its HTTP status.
func statusFor(err error) int {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthenticated),
		errors.Is(err, model.ErrInvalidToken),
		errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes the JSON error body for err. Internal details never reach the client.
func handleError(c echo.Context, err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": verr.Fields})
	}

	status := statusFor(err)
	var message string
	switch status {
	case http.StatusUnauthorized:
		message = "unauthenticated"
		if errors.Is(err, model.ErrInvalidCredentials) {
			message = "invalid email or password"
		}
	case http.StatusForbidden:
		message = "forbidden"
	case http.StatusNotFound:
		message = "not found"
	case http.StatusConflict:
		message = "email is already registered"
	default:
		message = "internal server error"
	}

	return c.JSON(status, map[string]string{"error": message})
}

func badRequest(c echo.Context, field, message string) error {
	return handleError(c, model.NewValidationError(field, message))
}
