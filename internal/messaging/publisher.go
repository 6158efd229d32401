package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"

	"github.com/tiendago/backend/internal/domain"
)

type EventType string

const (
	OrderCreatedEvent       EventType = "order.created"
	OrderStatusChangedEvent EventType = "order.status_changed"
)

// OrderEvent is the wire shape published to the topic exchange. Line
// items are included so downstream consumers never read our tables.
type OrderEvent struct {
	ID            uuid.UUID        `json:"id"`
	Type          EventType        `json:"type"`
	OrderID       int64            `json:"order_id"`
	OrderNumber   string           `json:"order_number"`
	UserID        int64            `json:"user_id"`
	Status        string           `json:"status"`
	PaymentStatus string           `json:"payment_status"`
	Total         decimal.Decimal  `json:"total"`
	Items         []OrderEventItem `json:"items,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

type OrderEventItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) PublishOrderCreated(order *domain.Order) error {
	return p.publish(orderEvent(OrderCreatedEvent, order))
}

func (p *Publisher) PublishOrderStatusChanged(order *domain.Order) error {
	return p.publish(orderEvent(OrderStatusChangedEvent, order))
}

func orderEvent(eventType EventType, order *domain.Order) OrderEvent {
	event := OrderEvent{
		ID:            uuid.New(),
		Type:          eventType,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		Total:         order.Total,
		Timestamp:     time.Now(),
	}
	if eventType == OrderCreatedEvent {
		event.Items = make([]OrderEventItem, len(order.Items))
		for i, item := range order.Items {
			event.Items[i] = OrderEventItem{
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    item.Price,
			}
		}
	}
	return event
}

func (p *Publisher) publish(event OrderEvent) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event serialization: %w", err)
	}

	routingKey := fmt.Sprintf("shop.orders.%s", event.Type)
	err = p.client.Channel().Publish(
		p.client.config.Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.Timestamp,
			Headers: amqp.Table{
				"order_number": event.OrderNumber,
				"event_type":   string(event.Type),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("event publish: %w", err)
	}

	log.Printf("Event published: %s -> order %s", routingKey, event.OrderNumber)
	return nil
}
