package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendago/backend/internal/domain"
	"github.com/tiendago/backend/internal/middleware"
	"github.com/tiendago/backend/internal/service"
	"github.com/tiendago/backend/pkg/httpapi"
)

type ProfileHandler struct {
	profiles *service.ProfileService
}

func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	user, profile, err := h.profiles.Get(c.Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "profile retrieved", mapProfile(user, profile))
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	var req domain.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return httpapi.BadRequest(c, "invalid request body", nil)
	}

	user, profile, err := h.profiles.Update(c.Context(), claims.UserID, req)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "profile updated", mapProfile(user, profile))
}

func (h *ProfileHandler) Addresses(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	addresses, err := h.profiles.Addresses(c.Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "addresses retrieved", addresses)
}

func (h *ProfileHandler) AddAddress(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	var entry domain.AddressEntry
	if err := c.BodyParser(&entry); err != nil {
		return httpapi.BadRequest(c, "invalid request body", nil)
	}
	if entry.FullAddress == "" {
		return httpapi.BadRequest(c, "fullAddress is required", nil)
	}

	saved, err := h.profiles.AddAddress(c.Context(), claims.UserID, entry)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Created(c, "address added", saved)
}

func (h *ProfileHandler) PaymentMethods(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	methods, err := h.profiles.PaymentMethods(c.Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "payment methods retrieved", methods)
}

func (h *ProfileHandler) AddPaymentMethod(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	var entry domain.PaymentMethodEntry
	if err := c.BodyParser(&entry); err != nil {
		return httpapi.BadRequest(c, "invalid request body", nil)
	}
	if entry.Type == "" {
		return httpapi.BadRequest(c, "type is required", nil)
	}

	saved, err := h.profiles.AddPaymentMethod(c.Context(), claims.UserID, entry)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Created(c, "payment method added", saved)
}
