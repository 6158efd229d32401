package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/tiendago/backend/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, order_number, total, status, payment_status, tracking_number, notes, created_at, updated_at`

func (r *OrderRepository) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("order number lookup: %w", err)
	}
	return exists, nil
}

// CreateOrder writes the header, every line item and the merged address
// snapshot in one transaction. Any failure rolls the whole aggregate
// back; there is no partial order.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order, shipping *domain.AddressPatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, order_number, total, status, payment_status, tracking_number, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		order.UserID,
		order.OrderNumber,
		order.Total,
		order.Status,
		order.PaymentStatus,
		nullString(order.TrackingNumber),
		nullString(order.Notes),
		order.CreatedAt,
		order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		if isUniqueViolation(err, "orders_order_number_key") {
			return domain.ErrOrderNumberTaken
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, image, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			order.ID, item.ProductID, item.Name, nullString(item.Image), item.Quantity, item.Price,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if shipping != nil {
		if err := upsertAddressSnapshot(ctx, tx, order.UserID, shipping); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err, "orders_order_number_key") {
			return domain.ErrOrderNumberTaken
		}
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// upsertAddressSnapshot merges the supplied fields over the stored
// snapshot: present fields override, absent fields keep the prior value
// or stay null when none existed.
func upsertAddressSnapshot(ctx context.Context, tx *sql.Tx, userID int64, patch *domain.AddressPatch) error {
	var (
		id                             int64
		address, city, postal, country sql.NullString
	)
	err := tx.QueryRowContext(ctx,
		`SELECT id, address, city, postal_code, country FROM data_users WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&id, &address, &city, &postal, &country)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO data_users (user_id, address, city, postal_code, country) VALUES ($1, $2, $3, $4, $5)`,
			userID,
			nullString(patch.Address),
			nullString(patch.City),
			nullString(patch.PostalCode),
			nullString(patch.Country),
		)
		if err != nil {
			return fmt.Errorf("insert address snapshot: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read address snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE data_users SET address = $2, city = $3, postal_code = $4, country = $5 WHERE id = $1`,
		id,
		mergeField(patch.Address, address),
		mergeField(patch.City, city),
		mergeField(patch.PostalCode, postal),
		mergeField(patch.Country, country),
	)
	if err != nil {
		return fmt.Errorf("update address snapshot: %w", err)
	}
	return nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) GetForUser(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	// Ownership is part of the predicate: a foreign order is
	// indistinguishable from a missing one.
	return r.getWhere(ctx, `id = $1 AND user_id = $2`, orderID, userID)
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	return r.getWhere(ctx, `id = $1`, orderID)
}

func (r *OrderRepository) getWhere(ctx context.Context, where string, args ...interface{}) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+where, args...)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	orders := []domain.Order{*order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *OrderRepository) ListAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, patch domain.OrderStatusPatch) (*domain.Order, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{orderID}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.TrackingNumber != nil {
		args = append(args, nullString(*patch.TrackingNumber))
		sets = append(sets, fmt.Sprintf("tracking_number = $%d", len(args)))
	}
	if patch.Notes != nil {
		args = append(args, nullString(*patch.Notes))
		sets = append(sets, fmt.Sprintf("notes = $%d", len(args)))
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, orderID)
}

func (r *OrderRepository) OrderStats(ctx context.Context) (domain.OrderStats, error) {
	var stats domain.OrderStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'processing'),
			COUNT(*) FILTER (WHERE status = 'delivered'),
			COALESCE(SUM(total) FILTER (WHERE payment_status = 'paid'), 0)
		FROM orders`,
	).Scan(&stats.Total, &stats.Pending, &stats.Processing, &stats.Delivered, &stats.Revenue)
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("order stats: %w", err)
	}
	return stats, nil
}

func (r *OrderRepository) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// attachItems loads the line items for the given orders in one query.
func (r *OrderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]*domain.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = &orders[i]
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, image, quantity, price
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item      domain.OrderItem
			productID sql.NullInt64
			image     sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &productID, &item.Name, &image, &item.Quantity, &item.Price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if productID.Valid {
			item.ProductID = &productID.Int64
		}
		item.Image = image.String
		if order, ok := index[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order           domain.Order
		tracking, notes sql.NullString
	)
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.Total,
		&order.Status,
		&order.PaymentStatus,
		&tracking,
		&notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.TrackingNumber = tracking.String
	order.Notes = notes.String
	return &order, nil
}

func scanOrders(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}
	return orders, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func mergeField(supplied string, prior sql.NullString) sql.NullString {
	if supplied != "" {
		return sql.NullString{String: supplied, Valid: true}
	}
	return prior
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == constraint
}
