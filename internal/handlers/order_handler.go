package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tiendago/backend/internal/domain"
	"github.com/tiendago/backend/internal/middleware"
	"github.com/tiendago/backend/internal/service"
	"github.com/tiendago/backend/pkg/httpapi"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create places a new order for the authenticated user.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	var req domain.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return httpapi.BadRequest(c, "invalid request body", nil)
	}

	order, err := h.orders.PlaceOrder(c.Context(), claims.UserID, req)
	if err != nil {
		log.Printf("place order failed for user %d: %v", claims.UserID, err)
		return respondError(c, err)
	}

	return httpapi.Created(c, "order created", mapOrder(order))
}

// List returns the authenticated user's orders, newest first.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	orders, err := h.orders.ListOrders(c.Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "orders retrieved", mapOrders(orders))
}

// Get returns a single order. Ownership is enforced in the lookup: an
// order belonging to someone else is indistinguishable from a missing one.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	orderID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || orderID <= 0 {
		return httpapi.BadRequest(c, "invalid order id", nil)
	}

	order, err := h.orders.GetOrder(c.Context(), claims.UserID, orderID)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "order retrieved", mapOrder(order))
}
