package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "wellness:revoked:"

// TokenDenylist records revoked token IDs in Redis until the token would
// have expired anyway. A denylist without a client is disabled: Revoke is a
// no-op and nothing is ever revoked.
type TokenDenylist struct {
	rdb *redis.Client
	now func() time.Time
}

// NewTokenDenylist creates a TokenDenylist backed by rdb, which may be nil.
func NewTokenDenylist(rdb *redis.Client) *TokenDenylist {
	return &TokenDenylist{rdb: rdb, now: time.Now}
}

// Enabled reports whether revocations are persisted.
func (d *TokenDenylist) Enabled() bool {
	return d != nil && d.rdb != nil
}

// Revoke denies token id until the given expiry.
func (d *TokenDenylist) Revoke(ctx context.Context, id string, until time.Time) error {
	if !d.Enabled() {
		return nil
	}
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, denylistPrefix+id, 1, ttl).Err()
}

// IsRevoked reports whether token id has been revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, id string) (bool, error) {
	if !d.Enabled() {
		return false, nil
	}
	err := d.rdb.Get(ctx, denylistPrefix+id).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	}
	return false, err
}

// NewRedisClient connects to the Redis server at url
// (redis://[:password@]host:port/db) and verifies it with a ping.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}
