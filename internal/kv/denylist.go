package kv

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist stores revoked token ids in Redis. Keys carry the remaining
// token lifetime as TTL, so expired entries sweep themselves.
type Denylist struct {
	client *redis.Client
}

func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

func (d *Denylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return d.client.Set(ctx, denylistKey(tokenID), "1", ttl).Err()
}

func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := d.client.Get(ctx, denylistKey(tokenID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func denylistKey(tokenID string) string {
	return "denylist:token:" + tokenID
}
