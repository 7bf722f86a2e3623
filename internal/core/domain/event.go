package domain

import "time"

// OrderEventType names an entry in an order's audit trail.
type OrderEventType string

const (
	EventOrderCreated  OrderEventType = "created"
	EventOrderClaimed  OrderEventType = "claimed"
	EventStatusChanged OrderEventType = "status_changed"
	EventOrderDeleted  OrderEventType = "deleted"
)

// OrderEvent records a single mutation of an order.
type OrderEvent struct {
	OrderID   string
	Type      OrderEventType
	Status    OrderStatus
	ActorID   string
	ActorRole string
	At        time.Time
}
