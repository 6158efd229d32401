package domain

import "time"

// Profile is the per-user data sheet: the flat address snapshot the
// order writer upserts, plus the address book and stored payment
// methods kept as JSON documents.
type Profile struct {
	ID                       int64
	UserID                   int64
	Address                  string
	City                     string
	PostalCode               string
	Country                  string
	PreferredPaymentMethodID *int64
	Addresses                []AddressEntry
	PaymentMethods           []PaymentMethodEntry
}

// AddressPatch is the delta the order writer merges over the stored
// snapshot: supplied fields override, empty fields keep the prior value.
type AddressPatch struct {
	Address    string
	City       string
	PostalCode string
	Country    string
}

type AddressEntry struct {
	ID          int       `json:"id"`
	Type        string    `json:"type"`
	FullAddress string    `json:"fullAddress"`
	City        string    `json:"city,omitempty"`
	ZipCode     string    `json:"zipCode,omitempty"`
	Country     string    `json:"country,omitempty"`
	Reference   string    `json:"reference,omitempty"`
	IsPrimary   bool      `json:"isPrimary"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PaymentMethodEntry struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Label     string `json:"label,omitempty"`
	Last4     string `json:"last4,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
}

// UpdateProfileRequest updates user fields and the address snapshot in
// one call. Nil fields are left untouched.
type UpdateProfileRequest struct {
	FirstName                *string    `json:"firstName"`
	LastName                 *string    `json:"lastName"`
	Phone                    *string    `json:"phone"`
	DateOfBirth              *time.Time `json:"dateOfBirth"`
	Gender                   *string    `json:"gender"`
	Address                  *string    `json:"address"`
	City                     *string    `json:"city"`
	PostalCode               *string    `json:"postalCode"`
	Country                  *string    `json:"country"`
	PreferredPaymentMethodID *int64     `json:"preferredPaymentMethodId"`
}
