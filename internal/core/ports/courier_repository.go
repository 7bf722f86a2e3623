package ports

import (
	"context"
	"time"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

// CourierRepository persists courier profiles. Create enforces both
// uniqueness rules (one profile per user, unique tax id) atomically and
// returns domain.ErrConflict when either is violated.
type CourierRepository interface {
	Create(ctx context.Context, p *domain.CourierProfile) error
	FindByUserID(ctx context.Context, userID string) (*domain.CourierProfile, error)
	ExistsByTaxID(ctx context.Context, taxID string) (bool, error)
	List(ctx context.Context) ([]*domain.CourierProfile, error)
	SetApproval(ctx context.Context, id string, status domain.CourierStatus, verified bool, approvedAt *time.Time) error
}
