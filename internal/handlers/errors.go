package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tiendago/backend/internal/domain"
	"github.com/tiendago/backend/pkg/httpapi"
)

// respondError translates domain errors into the HTTP envelope. Anything
// unrecognized becomes a 500 without leaking internals to the client.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return httpapi.BadRequest(c, err.Error(), nil)
	case errors.Is(err, domain.ErrDuplicateEmail):
		return httpapi.BadRequest(c, "email already registered", nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return httpapi.Unauthorized(c, "invalid credentials")
	case errors.Is(err, domain.ErrUserInactive):
		return httpapi.Unauthorized(c, "account is deactivated")
	case errors.Is(err, domain.ErrNotFound):
		return httpapi.NotFound(c, "resource not found")
	case errors.Is(err, domain.ErrOrderNumberExhausted):
		return httpapi.ServiceUnavailable(c, "could not allocate an order number, please retry")
	default:
		return httpapi.InternalServerError(c, "internal server error", nil)
	}
}
