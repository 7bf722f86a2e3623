package ports

import (
	"context"
	"time"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

// IngestionGuard serialises concurrent deliveries of the same external order.
type IngestionGuard interface {
	// Reserve returns true if the caller now owns externalID for ttl.
	Reserve(ctx context.Context, externalID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, externalID string) error
}

// EventPublisher hands order events to the audit trail without blocking the
// request.
type EventPublisher interface {
	Publish(ev domain.OrderEvent)
}

// Pinger is a dependency whose health can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}
