package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tiendago/backend/internal/domain"
	"github.com/tiendago/backend/internal/port"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	relatedLimit     = 6

	listingCacheTTL = time.Minute
)

type ProductService struct {
	products port.ProductStore
	cache    port.CatalogCache
}

// NewProductService builds the public catalog read side. cache may be
// nil; every read then goes straight to the store.
func NewProductService(products port.ProductStore, cache port.CatalogCache) *ProductService {
	return &ProductService{
		products: products,
		cache:    cache,
	}
}

// List returns active products. Non-random listings are served
// read-through from the cache; random ordering bypasses it since every
// response differs.
func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	active := true
	filter.Active = &active
	normalizePaging(&filter)

	key := listingKey(filter)
	if s.cache != nil && !filter.Random {
		var page domain.ProductPage
		hit, err := s.cache.Get(ctx, key, &page)
		if err != nil {
			log.Printf("Catalog cache read error: %v", err)
		} else if hit {
			return page, nil
		}
	}

	page, err := s.products.List(ctx, filter)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("list products: %w", err)
	}

	if s.cache != nil && !filter.Random {
		if err := s.cache.Set(ctx, key, page, listingCacheTTL); err != nil {
			log.Printf("Catalog cache write error: %v", err)
		}
	}
	return page, nil
}

// GetByID returns an active product with its features. Inactive
// products are hidden from the public side.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (s *ProductService) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit < 1 {
		limit = defaultPageLimit
	}
	products, err := s.products.Featured(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	return products, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	counts, err := s.products.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return counts, nil
}

func (s *ProductService) Related(ctx context.Context, id int64, exclude []int64) ([]domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	related, err := s.products.Related(ctx, product, exclude, relatedLimit)
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	return related, nil
}

func normalizePaging(filter *domain.ProductFilter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
}

func listingKey(filter domain.ProductFilter) string {
	var b strings.Builder
	b.WriteString("products:")
	b.WriteString(filter.Category)
	b.WriteByte('|')
	b.WriteString(filter.Search)
	b.WriteByte('|')
	if filter.MinPrice != nil {
		b.WriteString(filter.MinPrice.String())
	}
	b.WriteByte('|')
	if filter.MaxPrice != nil {
		b.WriteString(filter.MaxPrice.String())
	}
	fmt.Fprintf(&b, "|%d|%d", filter.Page, filter.Limit)
	return b.String()
}
