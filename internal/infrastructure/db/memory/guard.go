package memory

import (
	"context"
	"sync"
	"time"
)

// IngestionGuard is the single-process reservation table used when no Redis
// is configured.
type IngestionGuard struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewIngestionGuard() *IngestionGuard {
	return &IngestionGuard{held: make(map[string]time.Time), now: time.Now}
}

func (g *IngestionGuard) Reserve(_ context.Context, externalID string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if exp, ok := g.held[externalID]; ok && now.Before(exp) {
		return false, nil
	}
	g.held[externalID] = now.Add(ttl)
	return true, nil
}

func (g *IngestionGuard) Release(_ context.Context, externalID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, externalID)
	return nil
}
