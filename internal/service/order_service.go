package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"

	"github.com/tiendago/backend/internal/domain"
	"github.com/tiendago/backend/internal/port"
)

const (
	orderNumberLength = 11
	// orderNumberAttempts bounds the generate-check-insert loop. At a
	// 10^11 number space collisions are birthday-rare; the cap only
	// guards against a pathological store.
	orderNumberAttempts = 20
)

type OrderService struct {
	orders port.OrderStore
	events port.OrderEventPublisher
}

// NewOrderService wires the order placement core. events may be nil
// when no broker is configured.
func NewOrderService(orders port.OrderStore, events port.OrderEventPublisher) *OrderService {
	return &OrderService{
		orders: orders,
		events: events,
	}
}

// PlaceOrder validates the request, reserves a unique order number and
// persists the aggregate atomically. A number that loses the uniqueness
// race inside the transaction is discarded and the write retried with a
// fresh candidate, against the same attempt budget.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, req domain.CreateOrderRequest) (*domain.Order, error) {
	order, err := req.Aggregate(userID)
	if err != nil {
		return nil, err
	}
	shipping := req.ShippingAddress.Patch()

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number, err := randomOrderNumber()
		if err != nil {
			return nil, fmt.Errorf("generate order number: %w", err)
		}
		exists, err := s.orders.OrderNumberExists(ctx, number)
		if err != nil {
			return nil, fmt.Errorf("order number check: %w", err)
		}
		if exists {
			continue
		}

		order.OrderNumber = number
		err = s.orders.CreateOrder(ctx, order, shipping)
		if errors.Is(err, domain.ErrOrderNumberTaken) {
			// Lost the race between check and insert; the unique
			// constraint rolled the transaction back.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}

		log.Printf("Order created: OrderID=%d, OrderNumber=%s, UserID=%d, Total=%s",
			order.ID, order.OrderNumber, order.UserID, order.Total)
		s.publishCreated(order)
		return order, nil
	}

	return nil, domain.ErrOrderNumberExhausted
}

func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// publishCreated emits the order.created event. The order is already
// durable; a publish failure is logged and never undoes the commit.
func (s *OrderService) publishCreated(order *domain.Order) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishOrderCreated(order); err != nil {
		log.Printf("Order created event publish error: OrderID=%d, err=%v", order.ID, err)
	}
}

// randomOrderNumber draws each of the 11 digits independently so the
// number leaks nothing about creation order. Leading zeros are valid.
func randomOrderNumber() (string, error) {
	digits := make([]byte, orderNumberLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = '0' + byte(n.Int64())
	}
	return string(digits), nil
}
