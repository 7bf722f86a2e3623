package ports

import (
	"context"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

// CreateOrderInput carries an admin-created order.
type CreateOrderInput struct {
	Description string
	Quantity    int
	Actor       domain.Actor
}

// ClaimOrderInput identifies the order a courier wants to take.
type ClaimOrderInput struct {
	OrderID string
	Actor   domain.Actor
}

// AdvanceStatusInput carries a requested status change. Status is the raw
// client value and is parsed by the service.
type AdvanceStatusInput struct {
	OrderID string
	Status  string
	Actor   domain.Actor
}

// ListOrdersInput carries the caller and the optional status filter.
type ListOrdersInput struct {
	Actor  domain.Actor
	Status string
}

// OrderService is the order lifecycle engine.
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	ClaimOrder(ctx context.Context, in ClaimOrderInput) (*domain.Order, error)
	AdvanceStatus(ctx context.Context, in AdvanceStatusInput) (*domain.Order, error)
	ListOrders(ctx context.Context, in ListOrdersInput) ([]*domain.Order, error)
	GetOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error)
	DeleteOrder(ctx context.Context, orderID string, actor domain.Actor) error
	OrderEvents(ctx context.Context, orderID string, actor domain.Actor) ([]*domain.OrderEvent, error)
}
