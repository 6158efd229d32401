package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tiendago/backend/internal/domain"
	"github.com/tiendago/backend/internal/service"
	"github.com/tiendago/backend/pkg/httpapi"
)

type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type orderStatusRequest struct {
	Status         *string `json:"status"`
	TrackingNumber *string `json:"tracking_number"`
	Notes          *string `json:"notes"`
}

// Dashboard returns the aggregate counters for the back-office landing page.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.admin.DashboardStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "dashboard statistics retrieved", fiber.Map{
		"orders": fiber.Map{
			"total":      stats.Orders.Total,
			"pending":    stats.Orders.Pending,
			"processing": stats.Orders.Processing,
			"delivered":  stats.Orders.Delivered,
			"revenue":    stats.Orders.Revenue,
		},
		"users": fiber.Map{
			"total":        stats.Users.Total,
			"active":       stats.Users.Active,
			"newThisMonth": stats.Users.NewThisMonth,
		},
		"products": fiber.Map{
			"total":    stats.Products.Total,
			"active":   stats.Products.Active,
			"lowStock": stats.Products.LowStock,
		},
	})
}

func (h *AdminHandler) RecentActivity(c *fiber.Ctx) error {
	orders, users, err := h.admin.RecentActivity(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "recent activity retrieved", fiber.Map{
		"orders": mapOrders(orders),
		"users":  mapUsers(users),
	})
}

func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	filter := domain.OrderFilter{
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
	}

	orders, err := h.admin.ListOrders(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "orders retrieved", mapOrders(orders))
}

func (h *AdminHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return httpapi.BadRequest(c, "invalid order id", nil)
	}

	order, err := h.admin.GetOrder(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "order retrieved", mapOrder(order))
}

func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return httpapi.BadRequest(c, "invalid order id", nil)
	}

	var req orderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return httpapi.BadRequest(c, "invalid request body", nil)
	}

	patch := domain.OrderStatusPatch{
		TrackingNumber: req.TrackingNumber,
		Notes:          req.Notes,
	}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		if !status.Valid() {
			return httpapi.BadRequest(c, "invalid order status", nil)
		}
		patch.Status = &status
	}

	order, err := h.admin.UpdateOrderStatus(c.Context(), id, patch)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "order updated", mapOrder(order))
}

func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	filter := domain.ProductFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 0),
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.CategoryID = &id
		}
	}

	page, err := h.admin.ListProducts(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "products retrieved", fiber.Map{
		"products": mapProducts(page.Items),
		"total":    page.Total,
		"page":     page.Page,
		"limit":    page.Limit,
		"hasMore":  page.HasMore,
	})
}

func (h *AdminHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return httpapi.BadRequest(c, "invalid product id", nil)
	}

	product, err := h.admin.GetProduct(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "product retrieved", mapProduct(product))
}

func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var input domain.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return httpapi.BadRequest(c, "invalid request body", nil)
	}

	product, err := h.admin.CreateProduct(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Created(c, "product created", mapProduct(product))
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return httpapi.BadRequest(c, "invalid product id", nil)
	}

	var input domain.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return httpapi.BadRequest(c, "invalid request body", nil)
	}

	product, err := h.admin.UpdateProduct(c.Context(), id, input)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "product updated", mapProduct(product))
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return httpapi.BadRequest(c, "invalid product id", nil)
	}

	if err := h.admin.DeleteProduct(c.Context(), id); err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "product deleted", nil)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	filter := domain.UserFilter{Role: strings.TrimSpace(c.Query("role"))}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}

	users, err := h.admin.ListUsers(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "users retrieved", mapUsers(users))
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return httpapi.BadRequest(c, "invalid user id", nil)
	}

	user, err := h.admin.GetUser(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "user retrieved", mapUser(user))
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return httpapi.BadRequest(c, "invalid user id", nil)
	}

	var update domain.UserUpdate
	if err := c.BodyParser(&update); err != nil {
		return httpapi.BadRequest(c, "invalid request body", nil)
	}

	user, err := h.admin.UpdateUser(c.Context(), id, update)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "user updated", mapUser(user))
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
