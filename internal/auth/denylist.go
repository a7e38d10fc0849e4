package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "session:revoked:"

// TokenDenylist tracks signed-out token IDs in Redis until they would have
// expired anyway.
type TokenDenylist struct {
	client *redis.Client
}

// NewTokenDenylist constructs a denylist over the shared Redis client.
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

// Revoke records a token ID as signed out until its expiry.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if d == nil || d.client == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether a token ID has been signed out. Redis being down
// fails closed for safety.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if d == nil || d.client == nil {
		return false, nil
	}
	err := d.client.Get(ctx, denylistPrefix+tokenID).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return true, err
	}
	return true, nil
}
