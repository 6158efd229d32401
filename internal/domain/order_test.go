package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateBuildsOrder(t *testing.T) {
	productID := int64(7)
	req := CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: &productID, Name: "Widget", Quantity: 2, Price: decimal.NewFromInt(10)},
		},
		Total:         decimal.NewFromInt(20),
		PaymentMethod: "card",
		Notes:         "  leave at the door  ",
	}

	order, err := req.Aggregate(42)
	require.NoError(t, err)

	assert.Equal(t, int64(42), order.UserID)
	assert.Equal(t, OrderStatusProcessing, order.Status)
	assert.Equal(t, PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "leave at the door", order.Notes)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(20)))

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Widget", order.Items[0].Name)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, &productID, order.Items[0].ProductID)
}

func TestAggregateCashStaysPending(t *testing.T) {
	req := CreateOrderRequest{
		Items:         []OrderItemRequest{{Name: "Widget", Quantity: 1}},
		PaymentMethod: PaymentMethodCash,
	}

	order, err := req.Aggregate(1)
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
}

func TestAggregateCoercesSparseItems(t *testing.T) {
	req := CreateOrderRequest{
		Items: []OrderItemRequest{
			{},                       // everything missing
			{Name: "   "},            // blank name
			{Quantity: 3, Name: "B"}, // fully specified
		},
	}

	order, err := req.Aggregate(1)
	require.NoError(t, err)
	require.Len(t, order.Items, 3)

	assert.Equal(t, "Producto", order.Items[0].Name)
	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.True(t, order.Items[0].Price.IsZero())
	assert.Nil(t, order.Items[0].ProductID)

	assert.Equal(t, "Producto", order.Items[1].Name)
	assert.Equal(t, 3, order.Items[2].Quantity)
}

func TestAggregateRejections(t *testing.T) {
	valid := []OrderItemRequest{{Name: "Widget", Quantity: 1}}

	tests := []struct {
		name   string
		userID int64
		req    CreateOrderRequest
	}{
		{
			name:   "missing user",
			userID: 0,
			req:    CreateOrderRequest{Items: valid},
		},
		{
			name:   "empty items",
			userID: 1,
			req:    CreateOrderRequest{},
		},
		{
			name:   "negative total",
			userID: 1,
			req:    CreateOrderRequest{Items: valid, Total: decimal.NewFromInt(-1)},
		},
		{
			name:   "negative quantity",
			userID: 1,
			req:    CreateOrderRequest{Items: []OrderItemRequest{{Name: "Widget", Quantity: -2}}},
		},
		{
			name:   "negative price",
			userID: 1,
			req:    CreateOrderRequest{Items: []OrderItemRequest{{Name: "Widget", Price: decimal.NewFromInt(-5)}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Aggregate(tt.userID)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestShippingAddressPatch(t *testing.T) {
	var missing *ShippingAddressRequest
	assert.Nil(t, missing.Patch())

	patch := (&ShippingAddressRequest{
		Address: "Calle 1",
		City:    "Madrid",
		ZipCode: "28001",
		Country: "ES",
	}).Patch()
	require.NotNil(t, patch)
	assert.Equal(t, "Calle 1", patch.Address)
	assert.Equal(t, "28001", patch.PostalCode)
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusShipped.Valid())
	assert.False(t, OrderStatus("unknown").Valid())
}
