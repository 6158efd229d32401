package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate bootstraps the schema at startup. Statements are idempotent;
// the unique constraint on orders.order_number is the authoritative
// guard behind the number generator's pre-check.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL,
			password TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'customer',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			phone TEXT,
			date_of_birth TIMESTAMPTZ,
			gender TEXT,
			registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT users_email_key UNIQUE (email)
		)`,
		`CREATE TABLE IF NOT EXISTS data_users (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
			address TEXT,
			city TEXT,
			postal_code TEXT,
			country TEXT,
			preferred_payment_method_id BIGINT,
			addresses JSONB NOT NULL DEFAULT '[]',
			payment_methods JSONB NOT NULL DEFAULT '[]',
			CONSTRAINT data_users_user_id_key UNIQUE (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			price NUMERIC(12,2) NOT NULL,
			old_price NUMERIC(12,2),
			category_id BIGINT NOT NULL REFERENCES categories (id),
			stock INTEGER NOT NULL DEFAULT 0,
			images TEXT[],
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS product_features (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users (id),
			order_number TEXT NOT NULL,
			total NUMERIC(12,2) NOT NULL,
			status TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			tracking_number TEXT,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT orders_order_number_key UNIQUE (order_number)
		)`,
		`CREATE INDEX IF NOT EXISTS orders_user_created_idx ON orders (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGSERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
			product_id BIGINT REFERENCES products (id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			image TEXT,
			quantity INTEGER NOT NULL,
			price NUMERIC(12,2) NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS order_items_order_idx ON order_items (order_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema migration: %w", err)
		}
	}
	return nil
}
