package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tiendago/backend/internal/domain"
	"github.com/tiendago/backend/pkg/httpapi"
)

const claimsKey = "auth_claims"

type TokenParser interface {
	ParseToken(raw string) (*domain.TokenClaims, error)
}

// Authenticate resolves the bearer token into identity claims and
// stores them on the request context. Handlers downstream trust the
// claims completely.
func Authenticate(parser TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			return httpapi.Unauthorized(c, "Missing bearer token")
		}

		claims, err := parser.ParseToken(token)
		if err != nil {
			return httpapi.Forbidden(c, "Invalid or expired token")
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !ClaimsFrom(c).IsAdmin() {
			return httpapi.Forbidden(c, "Admin privileges required")
		}
		return c.Next()
	}
}

// ClaimsFrom returns the resolved identity, or nil outside an
// authenticated route.
func ClaimsFrom(c *fiber.Ctx) *domain.TokenClaims {
	claims, _ := c.Locals(claimsKey).(*domain.TokenClaims)
	return claims
}
