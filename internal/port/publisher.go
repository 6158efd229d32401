package port

import "github.com/tiendago/backend/internal/domain"

// OrderEventPublisher emits order lifecycle events after the durable
// write has committed. Publishing is advisory: a failure must never
// undo or fail the order.
type OrderEventPublisher interface {
	PublishOrderCreated(order *domain.Order) error
	PublishOrderStatusChanged(order *domain.Order) error
}
