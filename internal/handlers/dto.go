package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendago/backend/internal/domain"
)

type OrderResponse struct {
	ID             int64               `json:"id"`
	UserID         int64               `json:"user_id"`
	OrderNumber    string              `json:"order_number"`
	Total          decimal.Decimal     `json:"total"`
	Status         string              `json:"status"`
	PaymentStatus  string              `json:"payment_status"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	Items          []OrderItemResponse `json:"items,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

type OrderItemResponse struct {
	ID        int64           `json:"id"`
	ProductID *int64          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func mapOrder(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:             order.ID,
		UserID:         order.UserID,
		OrderNumber:    order.OrderNumber,
		Total:          order.Total,
		Status:         string(order.Status),
		PaymentStatus:  string(order.PaymentStatus),
		TrackingNumber: order.TrackingNumber,
		Notes:          order.Notes,
		Items:          mapOrderItems(order.Items),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

func mapOrders(orders []domain.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = mapOrder(&orders[i])
	}
	return responses
}

func mapOrderItems(items []domain.OrderItem) []OrderItemResponse {
	responses := make([]OrderItemResponse, len(items))
	for i, item := range items {
		responses[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return responses
}

type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Phone       string     `json:"phone,omitempty"`
	Avatar      *string    `json:"avatar"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Gender      string     `json:"gender,omitempty"`
	Role        string     `json:"role"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func mapUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		DateOfBirth: user.DateOfBirth,
		Gender:      user.Gender,
		Role:        string(user.Role),
		Active:      user.Active,
		CreatedAt:   user.RegisteredAt,
	}
}

func mapUsers(users []domain.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = mapUser(&users[i])
	}
	return responses
}

type ProductResponse struct {
	ID          int64                   `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Price       decimal.Decimal         `json:"price"`
	OldPrice    *decimal.Decimal        `json:"old_price,omitempty"`
	Category    string                  `json:"category,omitempty"`
	CategoryID  int64                   `json:"category_id"`
	Stock       int                     `json:"stock"`
	Images      []string                `json:"images"`
	Active      bool                    `json:"active"`
	Features    []domain.ProductFeature `json:"features,omitempty"`
}

func mapProduct(product *domain.Product) ProductResponse {
	images := product.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		OldPrice:    product.OldPrice,
		Category:    product.Category,
		CategoryID:  product.CategoryID,
		Stock:       product.Stock,
		Images:      images,
		Active:      product.Active,
		Features:    product.Features,
	}
}

func mapProducts(products []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = mapProduct(&products[i])
	}
	return responses
}

type ProfileResponse struct {
	UserResponse
	Address        string                      `json:"address,omitempty"`
	City           string                      `json:"city,omitempty"`
	PostalCode     string                      `json:"postalCode,omitempty"`
	Country        string                      `json:"country,omitempty"`
	Addresses      []domain.AddressEntry       `json:"addresses"`
	PaymentMethods []domain.PaymentMethodEntry `json:"paymentMethods"`
	Preferences    map[string]interface{}      `json:"preferences"`
}

func mapProfile(user *domain.User, profile *domain.Profile) ProfileResponse {
	addresses := profile.Addresses
	if addresses == nil {
		addresses = []domain.AddressEntry{}
	}
	methods := profile.PaymentMethods
	if methods == nil {
		methods = []domain.PaymentMethodEntry{}
	}
	return ProfileResponse{
		UserResponse:   mapUser(user),
		Address:        profile.Address,
		City:           profile.City,
		PostalCode:     profile.PostalCode,
		Country:        profile.Country,
		Addresses:      addresses,
		PaymentMethods: methods,
		Preferences:    map[string]interface{}{},
	}
}
