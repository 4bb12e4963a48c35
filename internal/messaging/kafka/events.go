package kafka

import "time"

// EventKind определяет тип события жизненного цикла заказа.
type EventKind string

const (
	EventKindOrderCreated       EventKind = "ORDER_CREATED"
	EventKindOrderStatusUpdated EventKind = "ORDER_STATUS_UPDATED"
	EventKindOrderCancelled     EventKind = "ORDER_CANCELLED"
)

// Topics для Kafka.
const (
	// TopicOrderEvents — поток событий жизненного цикла; key = order_number,
	// поэтому события одного заказа попадают в одну партицию и сохраняют порядок.
	TopicOrderEvents = "order-events"
	// TopicDeadLetterQueue — сообщения, обработка которых провалилась.
	TopicDeadLetterQueue = "order-events.dlq"
)

// OrderEvent — неизменяемый факт об изменении заказа.
// Набор заполненных полей зависит от kind:
//   - ORDER_CREATED: order_number, customer_id, customer_email, total_minor, timestamp
//   - ORDER_STATUS_UPDATED: + previous_status, new_status
//   - ORDER_CANCELLED: order_number, customer_email, timestamp
type OrderEvent struct {
	Event          EventKind `json:"event"`
	OrderNumber    string    `json:"order_number"`
	CustomerID     string    `json:"customer_id,omitempty"`
	CustomerEmail  string    `json:"customer_email"`
	TotalMinor     int64     `json:"total_minor,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	NewStatus      string    `json:"new_status,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewOrderCreatedEvent создаёт событие о создании заказа.
func NewOrderCreatedEvent(orderNumber, customerID, customerEmail string, totalMinor int64) *OrderEvent {
	return &OrderEvent{
		Event:         EventKindOrderCreated,
		OrderNumber:   orderNumber,
		CustomerID:    customerID,
		CustomerEmail: customerEmail,
		TotalMinor:    totalMinor,
		Timestamp:     time.Now().UTC(),
	}
}

// NewOrderStatusUpdatedEvent создаёт событие о смене статуса.
func NewOrderStatusUpdatedEvent(orderNumber, customerID, customerEmail, previous, next string) *OrderEvent {
	return &OrderEvent{
		Event:          EventKindOrderStatusUpdated,
		OrderNumber:    orderNumber,
		CustomerID:     customerID,
		CustomerEmail:  customerEmail,
		PreviousStatus: previous,
		NewStatus:      next,
		Timestamp:      time.Now().UTC(),
	}
}

// NewOrderCancelledEvent создаёт событие об отмене заказа.
func NewOrderCancelledEvent(orderNumber, customerEmail string) *OrderEvent {
	return &OrderEvent{
		Event:         EventKindOrderCancelled,
		OrderNumber:   orderNumber,
		CustomerEmail: customerEmail,
		Timestamp:     time.Now().UTC(),
	}
}
