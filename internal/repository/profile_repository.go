package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tiendago/backend/internal/domain"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	var (
		profile                        domain.Profile
		address, city, postal, country sql.NullString
		preferred                      sql.NullInt64
		addressesJSON, methodsJSON     []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, address, city, postal_code, country, preferred_payment_method_id, addresses, payment_methods
		FROM data_users WHERE user_id = $1`, userID,
	).Scan(&profile.ID, &profile.UserID, &address, &city, &postal, &country, &preferred, &addressesJSON, &methodsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	profile.Address = address.String
	profile.City = city.String
	profile.PostalCode = postal.String
	profile.Country = country.String
	if preferred.Valid {
		profile.PreferredPaymentMethodID = &preferred.Int64
	}
	if len(addressesJSON) > 0 {
		if err := json.Unmarshal(addressesJSON, &profile.Addresses); err != nil {
			return nil, fmt.Errorf("decode address book: %w", err)
		}
	}
	if len(methodsJSON) > 0 {
		if err := json.Unmarshal(methodsJSON, &profile.PaymentMethods); err != nil {
			return nil, fmt.Errorf("decode payment methods: %w", err)
		}
	}
	return &profile, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	if profile.Addresses == nil {
		profile.Addresses = []domain.AddressEntry{}
	}
	if profile.PaymentMethods == nil {
		profile.PaymentMethods = []domain.PaymentMethodEntry{}
	}
	addressesJSON, err := json.Marshal(profile.Addresses)
	if err != nil {
		return fmt.Errorf("encode address book: %w", err)
	}
	methodsJSON, err := json.Marshal(profile.PaymentMethods)
	if err != nil {
		return fmt.Errorf("encode payment methods: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO data_users (user_id, address, city, postal_code, country, preferred_payment_method_id, addresses, payment_methods)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			postal_code = EXCLUDED.postal_code,
			country = EXCLUDED.country,
			preferred_payment_method_id = EXCLUDED.preferred_payment_method_id,
			addresses = EXCLUDED.addresses,
			payment_methods = EXCLUDED.payment_methods
		RETURNING id`,
		profile.UserID,
		nullString(profile.Address),
		nullString(profile.City),
		nullString(profile.PostalCode),
		nullString(profile.Country),
		nullInt64(profile.PreferredPaymentMethodID),
		addressesJSON,
		methodsJSON,
	).Scan(&profile.ID)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
