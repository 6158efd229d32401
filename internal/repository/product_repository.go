package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/tiendago/backend/internal/domain"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `p.id, p.name, p.description, p.price, p.old_price, p.category_id, c.name, p.stock, p.images, p.is_featured, p.active, p.created_at`

const productSelect = `SELECT ` + productColumns + ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("p.active = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("c.name = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", n, n))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("p.price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("p.price <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = ` WHERE ` + strings.Join(conditions, " AND ")
	}

	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products p LEFT JOIN categories c ON c.id = p.category_id`+where,
		args...,
	).Scan(&total)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("count products: %w", err)
	}

	order := ` ORDER BY p.id DESC`
	if filter.Random {
		order = ` ORDER BY RANDOM()`
	}
	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf("%s%s%s LIMIT $%d OFFSET $%d", productSelect, where, order, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items, err := scanProducts(rows)
	if err != nil {
		return domain.ProductPage{}, err
	}
	return domain.ProductPage{
		Items:   items,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
		HasMore: int64(offset+len(items)) < total,
	}, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, id)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	features, err := r.features(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Features = features
	return product, nil
}

func (r *ProductRepository) features(ctx context.Context, productID int64) ([]domain.ProductFeature, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, value FROM product_features WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product features: %w", err)
	}
	defer rows.Close()

	var features []domain.ProductFeature
	for rows.Next() {
		var f domain.ProductFeature
		if err := rows.Scan(&f.Name, &f.Value); err != nil {
			return nil, fmt.Errorf("scan product feature: %w", err)
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

func (r *ProductRepository) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		productSelect+` WHERE p.active AND p.is_featured ORDER BY RANDOM() LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *ProductRepository) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name, COUNT(p.id) FILTER (WHERE p.active)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var counts []domain.CategoryCount
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *ProductRepository) Related(ctx context.Context, product *domain.Product, exclude []int64, limit int) ([]domain.Product, error) {
	excluded := append([]int64{product.ID}, exclude...)
	rows, err := r.db.QueryContext(ctx,
		productSelect+` WHERE p.category_id = $1 AND p.active AND p.id != ALL($2) ORDER BY RANDOM() LIMIT $3`,
		product.CategoryID, pq.Array(excluded), limit)
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *ProductRepository) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	active := true
	if input.Active != nil {
		active = *input.Active
	}
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, old_price, category_id, stock, images, is_featured, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		input.Name,
		input.Description,
		input.Price,
		nullDecimal(input.OldPrice),
		input.CategoryID,
		input.Stock,
		pq.Array(input.Images),
		input.IsFeatured,
		active,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) Update(ctx context.Context, id int64, input domain.ProductInput) (*domain.Product, error) {
	active := true
	if input.Active != nil {
		active = *input.Active
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, old_price = $5, category_id = $6, stock = $7, images = $8, is_featured = $9, active = $10
		WHERE id = $1`,
		id,
		input.Name,
		input.Description,
		input.Price,
		nullDecimal(input.OldPrice),
		input.CategoryID,
		input.Stock,
		pq.Array(input.Images),
		input.IsFeatured,
		active,
	)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) ProductStats(ctx context.Context, lowStockBelow int) (domain.ProductStats, error) {
	var stats domain.ProductStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE active),
			COUNT(*) FILTER (WHERE stock < $1)
		FROM products`, lowStockBelow,
	).Scan(&stats.Total, &stats.Active, &stats.LowStock)
	if err != nil {
		return domain.ProductStats{}, fmt.Errorf("product stats: %w", err)
	}
	return stats, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		product  domain.Product
		oldPrice decimal.NullDecimal
		category sql.NullString
		images   pq.StringArray
	)
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&oldPrice,
		&product.CategoryID,
		&category,
		&product.Stock,
		&images,
		&product.IsFeatured,
		&product.Active,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if oldPrice.Valid {
		product.OldPrice = &oldPrice.Decimal
	}
	product.Category = category.String
	product.Images = images
	return &product, nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	return products, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
