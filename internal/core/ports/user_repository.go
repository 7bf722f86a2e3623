package ports

import (
	"context"
	"time"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

// UserRepository is the profile store: it owns the role and the
// profile-completed flag of every user.
type UserRepository interface {
	// Create inserts a new user; domain.ErrUserExists on duplicate id or email.
	Create(ctx context.Context, u *domain.User) error
	// Upsert inserts u if its id is unknown, otherwise refreshes email, name
	// and last login. Role and ProfileCompleted of an existing user are kept.
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	SetRoleByEmail(ctx context.Context, email, role string, at time.Time) (*domain.User, error)
	MarkProfileCompleted(ctx context.Context, id string, at time.Time) error
}
