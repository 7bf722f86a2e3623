package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the reservation only if it still carries our token,
// so an expired-and-retaken reservation is never released by the old owner.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// IngestionGuard serialises deliveries of the same external order across API
// replicas. Key format: ingest:<external_id>
type IngestionGuard struct {
	client *redis.Client
	tokens sync.Map
}

func NewIngestionGuard(client *redis.Client) *IngestionGuard {
	return &IngestionGuard{client: client}
}

// Reserve claims externalID for ttl. It returns false when another delivery
// holds the reservation.
func (g *IngestionGuard) Reserve(ctx context.Context, externalID string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, g.key(externalID), token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve %s: %w", externalID, err)
	}
	if ok {
		g.tokens.Store(externalID, token)
	}
	return ok, nil
}

// Release drops a reservation taken by this guard.
func (g *IngestionGuard) Release(ctx context.Context, externalID string) error {
	token, ok := g.tokens.LoadAndDelete(externalID)
	if !ok {
		return nil
	}
	if err := releaseScript.Run(ctx, g.client, []string{g.key(externalID)}, token).Err(); err != nil {
		return fmt.Errorf("release %s: %w", externalID, err)
	}
	return nil
}

func (g *IngestionGuard) key(externalID string) string {
	return "ingest:" + externalID
}
