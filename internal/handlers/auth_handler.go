package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tiendago/backend/internal/domain"
	"github.com/tiendago/backend/internal/middleware"
	"github.com/tiendago/backend/internal/service"
	"github.com/tiendago/backend/pkg/httpapi"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type authPayload struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req domain.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return httpapi.BadRequest(c, "invalid request body", nil)
	}

	user, token, err := h.auth.Register(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Created(c, "registration successful", authPayload{
		User:  mapUser(user),
		Token: token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return httpapi.BadRequest(c, "invalid request body", nil)
	}

	user, token, err := h.auth.Login(c.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "login successful", authPayload{
		User:  mapUser(user),
		Token: token,
	})
}

// Me resolves the authenticated user from their token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	user, err := h.auth.UserByID(c.Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "user retrieved", mapUser(user))
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return httpapi.BadRequest(c, "invalid request body", nil)
	}

	if err := h.auth.ChangePassword(c.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "password updated", nil)
}

// CheckEmail reports whether an email is already registered, used by the
// signup form before submission.
func (h *AuthHandler) CheckEmail(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return httpapi.BadRequest(c, "email query parameter is required", nil)
	}

	exists, err := h.auth.EmailExists(c.Context(), email)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "email checked", fiber.Map{"exists": exists})
}
