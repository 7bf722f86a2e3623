// Package memory implements the repository ports on process-local maps. It is
// the fallback backend used when no document store is configured or reachable.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/entregadores67/dispatch/internal/core/domain"
	"github.com/entregadores67/dispatch/internal/core/ports"
)

// orderRecord guards a single order. Conditional writes lock only the
// document they touch. A writer may still hold a record DeletePending has
// unlinked, so deleted is checked under mu.
type orderRecord struct {
	mu      sync.Mutex
	order   *domain.Order
	deleted bool
}

func (r *orderRecord) claim(c domain.Claim) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleted {
		return nil, domain.ErrOrderNotFound
	}
	if err := r.order.ApplyClaim(c); err != nil {
		return nil, err
	}
	return r.order.Clone(), nil
}

func (r *orderRecord) advance(from, to domain.OrderStatus, at time.Time) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleted {
		return nil, domain.ErrOrderNotFound
	}
	if r.order.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	if err := r.order.ApplyStatus(to, at); err != nil {
		return nil, err
	}
	return r.order.Clone(), nil
}

func (r *orderRecord) snapshot() *domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Clone()
}

type OrderRepository struct {
	mu         sync.RWMutex
	records    map[string]*orderRecord
	byExternal map[string]string
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		records:    make(map[string]*orderRecord),
		byExternal: make(map[string]string),
	}
}

func (r *OrderRepository) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[o.ID]; exists {
		return domain.ErrConflict
	}
	if o.ExternalID != "" {
		if _, exists := r.byExternal[o.ExternalID]; exists {
			return domain.ErrConflict
		}
		r.byExternal[o.ExternalID] = o.ID
	}
	r.records[o.ID] = &orderRecord{order: o.Clone()}
	return nil
}

func (r *OrderRepository) record(id string) (*orderRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	return rec, ok
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	rec, ok := r.record(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return rec.snapshot(), nil
}

func (r *OrderRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.Order, error) {
	r.mu.RLock()
	id, ok := r.byExternal[externalID]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return r.FindByID(ctx, id)
}

// List returns matching orders newest first; ties keep id order so repeated
// calls are stable.
func (r *OrderRepository) List(_ context.Context, f ports.OrderFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	recs := make([]*orderRecord, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	out := make([]*domain.Order, 0, len(recs))
	for _, rec := range recs {
		o := rec.snapshot()
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Source != "" && o.Source != f.Source {
			continue
		}
		if f.VisibleTo != "" && !o.VisibleTo(f.VisibleTo) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *OrderRepository) Claim(_ context.Context, id string, c domain.Claim) (*domain.Order, error) {
	rec, ok := r.record(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return rec.claim(c)
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus, at time.Time) (*domain.Order, error) {
	rec, ok := r.record(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return rec.advance(from, to, at)
}

func (r *OrderRepository) DeletePending(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.order.Status != domain.StatusPending {
		return domain.ErrInvalidTransition
	}
	rec.deleted = true
	delete(r.records, id)
	if rec.order.ExternalID != "" {
		delete(r.byExternal, rec.order.ExternalID)
	}
	return nil
}

func (r *OrderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	orders, err := r.List(ctx, ports.OrderFilter{})
	if err != nil {
		return nil, err
	}
	out := make(map[domain.OrderStatus]int64)
	for _, o := range orders {
		out[o.Status]++
	}
	return out, nil
}

// OrderEventRepository keeps the audit trail in insertion order.
type OrderEventRepository struct {
	mu     sync.RWMutex
	events map[string][]domain.OrderEvent
}

func NewOrderEventRepository() *OrderEventRepository {
	return &OrderEventRepository{events: make(map[string][]domain.OrderEvent)}
}

func (r *OrderEventRepository) Insert(_ context.Context, ev *domain.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[ev.OrderID] = append(r.events[ev.OrderID], *ev)
	return nil
}

func (r *OrderEventRepository) ListByOrder(_ context.Context, orderID string) ([]*domain.OrderEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	evs := r.events[orderID]
	out := make([]*domain.OrderEvent, len(evs))
	for i := range evs {
		ev := evs[i]
		out[i] = &ev
	}
	return out, nil
}
