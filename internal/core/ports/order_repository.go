package ports

import (
	"context"
	"time"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

// OrderFilter carries the query parameters for listing orders.
type OrderFilter struct {
	Status domain.OrderStatus // optional: exact status match
	Source string             // optional: external source tag
	// VisibleTo, when non-empty, restricts the result to orders that are
	// pending or accepted by this courier.
	VisibleTo string
}

// OrderRepository persists orders. Claim, UpdateStatus and DeletePending are
// single conditional operations: the status check and the write happen
// atomically per document.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByExternalID(ctx context.Context, externalID string) (*domain.Order, error)
	// List returns matching orders newest first.
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)

	// Claim sets status=accepted plus the claim fields only if the order is
	// still pending. It returns domain.ErrOrderNotFound when the order does not
	// exist and domain.ErrConflict when it is no longer pending.
	Claim(ctx context.Context, id string, claim domain.Claim) (*domain.Order, error)
	// UpdateStatus sets status=to only if the current status equals from.
	// It returns domain.ErrInvalidTransition when the status moved meanwhile.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) (*domain.Order, error)
	// DeletePending removes the order only while it is pending; otherwise it
	// returns domain.ErrInvalidTransition.
	DeletePending(ctx context.Context, id string) error

	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
}

// OrderEventRepository stores the audit trail of order mutations.
type OrderEventRepository interface {
	Insert(ctx context.Context, ev *domain.OrderEvent) error
	ListByOrder(ctx context.Context, orderID string) ([]*domain.OrderEvent, error)
}
