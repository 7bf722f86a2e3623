package memory

import (
	"context"
	"sync"
	"time"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

type UserRepository struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[u.ID]; exists {
		return domain.ErrUserExists
	}
	if u.Email != "" {
		if _, exists := r.byEmail[u.Email]; exists {
			return domain.ErrUserExists
		}
		r.byEmail[u.Email] = u.ID
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) Upsert(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[u.ID]
	if !ok {
		r.users[u.ID] = cloneUser(u)
		if u.Email != "" {
			r.byEmail[u.Email] = u.ID
		}
		return cloneUser(u), nil
	}

	if existing.Email != u.Email && u.Email != "" {
		delete(r.byEmail, existing.Email)
		r.byEmail[u.Email] = u.ID
		existing.Email = u.Email
	}
	if u.Name != "" {
		existing.Name = u.Name
	}
	existing.LastLogin = u.LastLogin
	existing.UpdatedAt = u.UpdatedAt
	return cloneUser(existing), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *UserRepository) SetRoleByEmail(_ context.Context, email, role string, at time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.users[id]
	u.Role = role
	u.UpdatedAt = at
	return cloneUser(u), nil
}

func (r *UserRepository) MarkProfileCompleted(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ProfileCompleted = true
	u.UpdatedAt = at
	return nil
}
