package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

type CourierRepository struct {
	mu       sync.RWMutex
	couriers map[string]*domain.CourierProfile
	byUser   map[string]string
	byTaxID  map[string]string
}

func NewCourierRepository() *CourierRepository {
	return &CourierRepository{
		couriers: make(map[string]*domain.CourierProfile),
		byUser:   make(map[string]string),
		byTaxID:  make(map[string]string),
	}
}

func cloneCourier(p *domain.CourierProfile) *domain.CourierProfile {
	c := *p
	if p.ApprovedAt != nil {
		at := *p.ApprovedAt
		c.ApprovedAt = &at
	}
	return &c
}

// Create checks both uniqueness rules and inserts under one lock.
func (r *CourierRepository) Create(_ context.Context, p *domain.CourierProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUser[p.UserID]; exists {
		return domain.ErrConflict
	}
	if _, exists := r.byTaxID[p.TaxID]; exists {
		return domain.ErrConflict
	}
	r.couriers[p.ID] = cloneCourier(p)
	r.byUser[p.UserID] = p.ID
	r.byTaxID[p.TaxID] = p.ID
	return nil
}

func (r *CourierRepository) FindByUserID(_ context.Context, userID string) (*domain.CourierProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrCourierNotFound
	}
	return cloneCourier(r.couriers[id]), nil
}

func (r *CourierRepository) ExistsByTaxID(_ context.Context, taxID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byTaxID[taxID]
	return ok, nil
}

// List returns profiles newest first.
func (r *CourierRepository) List(_ context.Context) ([]*domain.CourierProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.CourierProfile, 0, len(r.couriers))
	for _, p := range r.couriers {
		out = append(out, cloneCourier(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.After(out[j].RegisteredAt) })
	return out, nil
}

func (r *CourierRepository) SetApproval(_ context.Context, id string, status domain.CourierStatus, verified bool, approvedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.couriers[id]
	if !ok {
		return domain.ErrCourierNotFound
	}
	p.Status = status
	p.Verified = verified
	p.ApprovedAt = approvedAt
	return nil
}
