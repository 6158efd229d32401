package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	OldPrice    *decimal.Decimal
	CategoryID  int64
	Category    string
	Stock       int
	Images      []string
	IsFeatured  bool
	Active      bool
	Features    []ProductFeature
	CreatedAt   time.Time
}

type ProductFeature struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Category struct {
	ID   int64
	Name string
}

// CategoryCount pairs a category with its number of active products.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type ProductFilter struct {
	Category   string
	CategoryID *int64
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Active     *bool
	Page       int
	Limit      int
	Random     bool
}

type ProductPage struct {
	Items   []Product
	Total   int64
	Page    int
	Limit   int
	HasMore bool
}

// ProductInput carries admin create/update payloads.
type ProductInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	OldPrice    *decimal.Decimal `json:"old_price"`
	CategoryID  int64            `json:"category_id"`
	Stock       int              `json:"stock"`
	Images      []string         `json:"images"`
	IsFeatured  bool             `json:"is_featured"`
	Active      *bool            `json:"active"`
}

type ProductStats struct {
	Total    int64
	Active   int64
	LowStock int64
}
