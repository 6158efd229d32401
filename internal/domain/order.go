package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentMethodCash is the only payment rail without immediate capture;
// every other method is treated as paid at order time.
const PaymentMethodCash = "cash"

// Order is the header record of one placed purchase. The internal ID is
// storage-assigned; OrderNumber is the business-facing random token.
type Order struct {
	ID             int64
	UserID         int64
	OrderNumber    string
	Total          decimal.Decimal
	Status         OrderStatus
	PaymentStatus  PaymentStatus
	TrackingNumber string
	Notes          string
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem is an immutable snapshot of a product at order time. It is
// never re-read from the catalog after creation.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID *int64
	Name      string
	Image     string
	Quantity  int
	Price     decimal.Decimal
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest      `json:"items"`
	Total           decimal.Decimal         `json:"total"`
	PaymentMethod   string                  `json:"paymentMethod"`
	PaymentDetails  map[string]interface{}  `json:"paymentDetails"`
	ShippingAddress *ShippingAddressRequest `json:"shippingAddress"`
	Notes           string                  `json:"notes"`
}

type OrderItemRequest struct {
	ProductID *int64          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type ShippingAddressRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Patch converts the request address into the snapshot delta applied by
// the order writer. Nil-safe: a missing shipping address yields nil and
// no snapshot update.
func (r *ShippingAddressRequest) Patch() *AddressPatch {
	if r == nil {
		return nil
	}
	return &AddressPatch{
		Address:    r.Address,
		City:       r.City,
		PostalCode: r.ZipCode,
		Country:    r.Country,
	}
}

const defaultItemName = "Producto"

// Aggregate validates the request and builds the not-yet-persisted
// order. Per-item defaulting is deliberately permissive: a missing
// quantity becomes 1, a missing price 0 and a missing name the
// placeholder label. Only an empty item list or negative numbers reject
// the request.
func (r CreateOrderRequest) Aggregate(userID int64) (*Order, error) {
	if userID <= 0 {
		return nil, validationf("user is required")
	}
	if len(r.Items) == 0 {
		return nil, validationf("order items are required")
	}
	if r.Total.IsNegative() {
		return nil, validationf("total must not be negative")
	}

	now := time.Now()
	order := &Order{
		UserID:        userID,
		Total:         r.Total,
		Status:        OrderStatusProcessing,
		PaymentStatus: paymentStatusFor(r.PaymentMethod),
		Notes:         strings.TrimSpace(r.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	order.Items = make([]OrderItem, 0, len(r.Items))
	for i, it := range r.Items {
		if it.Quantity < 0 {
			return nil, validationf("item %d: quantity must not be negative", i)
		}
		if it.Price.IsNegative() {
			return nil, validationf("item %d: price must not be negative", i)
		}
		quantity := it.Quantity
		if quantity == 0 {
			quantity = 1
		}
		name := strings.TrimSpace(it.Name)
		if name == "" {
			name = defaultItemName
		}
		order.Items = append(order.Items, OrderItem{
			ProductID: it.ProductID,
			Name:      name,
			Image:     it.Image,
			Quantity:  quantity,
			Price:     it.Price,
		})
	}

	return order, nil
}

func paymentStatusFor(method string) PaymentStatus {
	if method == PaymentMethodCash {
		return PaymentStatusPending
	}
	return PaymentStatusPaid
}

// OrderStatusPatch is the admin-side update applied to a placed order.
// Nil fields are left untouched.
type OrderStatusPatch struct {
	Status         *OrderStatus
	TrackingNumber *string
	Notes          *string
}

type OrderFilter struct {
	Status        string
	PaymentStatus string
}

type OrderStats struct {
	Total      int64
	Pending    int64
	Processing int64
	Delivered  int64
	Revenue    decimal.Decimal
}
