package ports

import (
	"context"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

// Identity is what a verified bearer token says about its subject.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// AuthService is the local identity provider plus the profile store
// operations that change who a user is.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Resolve returns the stored user for a verified identity, creating it on
	// first sight.
	Resolve(ctx context.Context, id Identity) (*domain.User, error)
	Promote(ctx context.Context, email string, actor domain.Actor) (*domain.User, error)
}
