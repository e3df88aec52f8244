package redis

import (
	"context"
	"time"
)

// IdentityCache is a small read-through cache for resolved identities, keyed
// by user id. Entries are JSON blobs owned by the caller; the cache never
// outlives an access token, so stale role snapshots are bounded the same way
// token claims are.
type IdentityCache struct {
	ttl time.Duration
}

// NewIdentityCache creates a new identity cache
func NewIdentityCache(ttl time.Duration) *IdentityCache {
	return &IdentityCache{ttl: ttl}
}

func (c *IdentityCache) key(userID string) string {
	return "identity:" + userID
}

// Put stores the serialized identity
func (c *IdentityCache) Put(ctx context.Context, userID string, payload []byte) error {
	return Set(ctx, c.key(userID), payload, c.ttl)
}

// Get returns the serialized identity, or ok=false on a miss
func (c *IdentityCache) Get(ctx context.Context, userID string) ([]byte, bool, error) {
	val, err := Get(ctx, c.key(userID))
	if err == Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(val), true, nil
}

// Invalidate drops the cached identity; called on any role or profile change
func (c *IdentityCache) Invalidate(ctx context.Context, userID string) error {
	return Del(ctx, c.key(userID))
}
