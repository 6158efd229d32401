package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendago/backend/internal/domain"
)

type mockOrderStore struct {
	mu sync.Mutex

	numbers      map[string]bool
	created      []domain.Order
	shipping     []*domain.AddressPatch
	nextID       int64
	existsErr    error
	createErr    error
	createErrors []error // consumed one per CreateOrder call when set
	orders       map[int64]*domain.Order
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{
		numbers: make(map[string]bool),
		orders:  make(map[int64]*domain.Order),
	}
}

func (m *mockOrderStore) OrderNumberExists(_ context.Context, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.numbers[number], nil
}

func (m *mockOrderStore) CreateOrder(_ context.Context, order *domain.Order, shipping *domain.AddressPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.createErrors) > 0 {
		err := m.createErrors[0]
		m.createErrors = m.createErrors[1:]
		if err != nil {
			return err
		}
	} else if m.createErr != nil {
		return m.createErr
	}

	if m.numbers[order.OrderNumber] {
		return domain.ErrOrderNumberTaken
	}
	m.numbers[order.OrderNumber] = true

	m.nextID++
	order.ID = m.nextID
	m.created = append(m.created, *order)
	m.shipping = append(m.shipping, shipping)
	return nil
}

func (m *mockOrderStore) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.created {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderStore) GetForUser(_ context.Context, userID, orderID int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.created {
		if m.created[i].ID == orderID && m.created[i].UserID == userID {
			order := m.created[i]
			return &order, nil
		}
	}
	return nil, domain.ErrNotFound
}

type mockPublisher struct {
	mu      sync.Mutex
	created []int64
	err     error
}

func (p *mockPublisher) PublishOrderCreated(order *domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.created = append(p.created, order.ID)
	return nil
}

func (p *mockPublisher) PublishOrderStatusChanged(*domain.Order) error { return nil }

func validOrderRequest() domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		Items: []domain.OrderItemRequest{
			{Name: "Widget", Quantity: 2, Price: decimal.NewFromInt(10)},
		},
		Total:         decimal.NewFromInt(20),
		PaymentMethod: "card",
	}
}

func TestPlaceOrderAssignsElevenDigitNumber(t *testing.T) {
	store := newMockOrderStore()
	publisher := &mockPublisher{}
	svc := NewOrderService(store, publisher)

	order, err := svc.PlaceOrder(context.Background(), 42, validOrderRequest())
	require.NoError(t, err)

	require.Len(t, order.OrderNumber, 11)
	for _, c := range order.OrderNumber {
		assert.True(t, c >= '0' && c <= '9', "order number must be all digits, got %q", order.OrderNumber)
	}
	assert.Equal(t, int64(1), order.ID)
	assert.Equal(t, []int64{1}, publisher.created)
}

func TestPlaceOrderNumbersAreUniqueUnderConcurrency(t *testing.T) {
	store := newMockOrderStore()
	svc := NewOrderService(store, nil)

	const n = 50
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), int64(i+1), validOrderRequest())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "order %d", i)
	}

	seen := make(map[string]bool)
	for _, o := range store.created {
		assert.False(t, seen[o.OrderNumber], "duplicate order number %s", o.OrderNumber)
		seen[o.OrderNumber] = true
	}
	assert.Len(t, seen, n)
}

func TestPlaceOrderRetriesOnUniquenessRace(t *testing.T) {
	store := newMockOrderStore()
	// First two inserts lose the race, third succeeds.
	store.createErrors = []error{domain.ErrOrderNumberTaken, domain.ErrOrderNumberTaken, nil}
	svc := NewOrderService(store, nil)

	order, err := svc.PlaceOrder(context.Background(), 1, validOrderRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderNumber)
	require.Len(t, store.created, 1)
}

func TestPlaceOrderExhaustsAttemptBudget(t *testing.T) {
	store := newMockOrderStore()
	store.createErr = domain.ErrOrderNumberTaken
	svc := NewOrderService(store, nil)

	_, err := svc.PlaceOrder(context.Background(), 1, validOrderRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOrderNumberExhausted)
	assert.Empty(t, store.created)
}

func TestPlaceOrderPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("connection refused")

	t.Run("existence check", func(t *testing.T) {
		store := newMockOrderStore()
		store.existsErr = storeErr
		svc := NewOrderService(store, nil)

		_, err := svc.PlaceOrder(context.Background(), 1, validOrderRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, domain.ErrOrderNumberExhausted)
	})

	t.Run("create", func(t *testing.T) {
		store := newMockOrderStore()
		store.createErr = storeErr
		svc := NewOrderService(store, nil)

		_, err := svc.PlaceOrder(context.Background(), 1, validOrderRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestPlaceOrderRejectsInvalidRequest(t *testing.T) {
	store := newMockOrderStore()
	svc := NewOrderService(store, nil)

	_, err := svc.PlaceOrder(context.Background(), 1, domain.CreateOrderRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, store.created)
}

func TestPlaceOrderSurvivesPublishFailure(t *testing.T) {
	store := newMockOrderStore()
	publisher := &mockPublisher{err: errors.New("broker down")}
	svc := NewOrderService(store, publisher)

	order, err := svc.PlaceOrder(context.Background(), 1, validOrderRequest())
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}

func TestPlaceOrderPassesShippingPatch(t *testing.T) {
	store := newMockOrderStore()
	svc := NewOrderService(store, nil)

	req := validOrderRequest()
	req.ShippingAddress = &domain.ShippingAddressRequest{
		Address: "Calle 1",
		City:    "Madrid",
		ZipCode: "28001",
		Country: "ES",
	}

	_, err := svc.PlaceOrder(context.Background(), 1, req)
	require.NoError(t, err)
	require.Len(t, store.shipping, 1)
	require.NotNil(t, store.shipping[0])
	assert.Equal(t, "28001", store.shipping[0].PostalCode)
}

func TestGetOrderOwnership(t *testing.T) {
	store := newMockOrderStore()
	svc := NewOrderService(store, nil)

	order, err := svc.PlaceOrder(context.Background(), 1, validOrderRequest())
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), 1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// Someone else's lookup is indistinguishable from a missing order.
	_, err = svc.GetOrder(context.Background(), 2, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrdersScopedToUser(t *testing.T) {
	store := newMockOrderStore()
	svc := NewOrderService(store, nil)

	_, err := svc.PlaceOrder(context.Background(), 1, validOrderRequest())
	require.NoError(t, err)
	_, err = svc.PlaceOrder(context.Background(), 2, validOrderRequest())
	require.NoError(t, err)

	orders, err := svc.ListOrders(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(1), orders[0].UserID)
}
