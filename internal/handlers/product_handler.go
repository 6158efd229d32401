package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tiendago/backend/internal/domain"
	"github.com/tiendago/backend/internal/service"
	"github.com/tiendago/backend/pkg/httpapi"
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List serves the public catalog with filtering, search and paging.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	filter := domain.ProductFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
		Random:   c.QueryBool("random", false),
	}
	if raw := c.Query("minPrice"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			filter.MinPrice = &price
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			filter.MaxPrice = &price
		}
	}

	page, err := h.products.List(c.Context(), filter)
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

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return httpapi.BadRequest(c, "invalid product id", nil)
	}

	product, err := h.products.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "product retrieved", mapProduct(product))
}

func (h *ProductHandler) Featured(c *fiber.Ctx) error {
	products, err := h.products.Featured(c.Context(), c.QueryInt("limit", 8))
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "featured products retrieved", mapProducts(products))
}

func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.products.Categories(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "categories retrieved", categories)
}

// Related returns products from the same category, excluding any ids
// passed in the query (typically the cart contents).
func (h *ProductHandler) Related(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return httpapi.BadRequest(c, "invalid product id", nil)
	}

	var exclude []int64
	for _, raw := range strings.Split(c.Query("exclude"), ",") {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			exclude = append(exclude, parsed)
		}
	}

	products, err := h.products.Related(c.Context(), id, exclude)
	if err != nil {
		return respondError(c, err)
	}

	return httpapi.Success(c, "related products retrieved", mapProducts(products))
}
