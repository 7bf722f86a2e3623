package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/entregadores67/dispatch/internal/core/domain"
	"github.com/entregadores67/dispatch/internal/core/ports"
)

// ---------------------------------------------------------------------------
// users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; exists {
		return domain.ErrUserExists
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Upsert(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[user.ID]; ok {
		existing.Email = user.Email
		existing.Name = user.Name
		existing.LastLogin = user.LastLogin
		existing.UpdatedAt = user.UpdatedAt
		return cloneUser(existing), nil
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) SetRoleByEmail(_ context.Context, email, role string, at time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.Role = role
			u.UpdatedAt = at
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) MarkProfileCompleted(_ context.Context, id string, at time.Time) error {
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

// ---------------------------------------------------------------------------
// orders
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ExternalID != "" {
		for _, existing := range r.orders {
			if existing.ExternalID == o.ExternalID {
				return domain.ErrConflict
			}
		}
	}
	r.orders[o.ID] = o.Clone()
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		return o.Clone(), nil
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) FindByExternalID(_ context.Context, externalID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ExternalID == externalID {
			return o.Clone(), nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) List(_ context.Context, f ports.OrderFilter) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Source != "" && o.Source != f.Source {
			continue
		}
		if f.VisibleTo != "" && !o.VisibleTo(f.VisibleTo) {
			continue
		}
		out = append(out, o.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubOrderRepo) Claim(_ context.Context, id string, c domain.Claim) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if err := o.ApplyClaim(c); err != nil {
		return nil, err
	}
	return o.Clone(), nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus, at time.Time) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	o.Status = to
	o.UpdatedAt = at
	return o.Clone(), nil
}

func (r *stubOrderRepo) DeletePending(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status != domain.StatusPending {
		return domain.ErrInvalidTransition
	}
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) CountByStatus(_ context.Context) (map[domain.OrderStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[domain.OrderStatus]int64)
	for _, o := range r.orders {
		out[o.Status]++
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// events
// ---------------------------------------------------------------------------

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
}

func (p *recordingPublisher) Publish(ev domain.OrderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []domain.OrderEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.OrderEventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type stubEventRepo struct {
	mu     sync.Mutex
	events []*domain.OrderEvent
}

func (r *stubEventRepo) Insert(_ context.Context, ev *domain.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *ev
	r.events = append(r.events, &c)
	return nil
}

func (r *stubEventRepo) ListByOrder(_ context.Context, orderID string) ([]*domain.OrderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.OrderEvent
	for _, ev := range r.events {
		if ev.OrderID == orderID {
			c := *ev
			out = append(out, &c)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// couriers
// ---------------------------------------------------------------------------

type stubCourierRepo struct {
	mu       sync.Mutex
	couriers map[string]*domain.CourierProfile
}

func newStubCourierRepo() *stubCourierRepo {
	return &stubCourierRepo{couriers: make(map[string]*domain.CourierProfile)}
}

func (r *stubCourierRepo) Create(_ context.Context, p *domain.CourierProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.couriers {
		if c.UserID == p.UserID || c.TaxID == p.TaxID {
			return domain.ErrConflict
		}
	}
	c := *p
	r.couriers[p.ID] = &c
	return nil
}

func (r *stubCourierRepo) FindByUserID(_ context.Context, userID string) (*domain.CourierProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.couriers {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCourierNotFound
}

func (r *stubCourierRepo) ExistsByTaxID(_ context.Context, taxID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.couriers {
		if c.TaxID == taxID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCourierRepo) List(_ context.Context) ([]*domain.CourierProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.CourierProfile, 0, len(r.couriers))
	for _, c := range r.couriers {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubCourierRepo) SetApproval(_ context.Context, id string, status domain.CourierStatus, verified bool, approvedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.couriers[id]
	if !ok {
		return domain.ErrCourierNotFound
	}
	c.Status = status
	c.Verified = verified
	c.ApprovedAt = approvedAt
	return nil
}

// ---------------------------------------------------------------------------
// ingestion guard
// ---------------------------------------------------------------------------

type stubGuard struct {
	mu    sync.Mutex
	held  map[string]bool
	block bool
}

func newStubGuard() *stubGuard {
	return &stubGuard{held: make(map[string]bool)}
}

func (g *stubGuard) Reserve(_ context.Context, id string, _ time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.block || g.held[id] {
		return false, nil
	}
	g.held[id] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, id)
	return nil
}
