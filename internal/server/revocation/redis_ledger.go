package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/referral/internal/common"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked:"

// Client is the subset of the go-redis API the ledger uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisLedger stores revocation markers in Redis under "revoked:<token>".
// Marker expiry is delegated to Redis TTLs; nothing is ever deleted
// explicitly.
type RedisLedger struct {
	client Client
}

func NewRedisLedger(client Client) *RedisLedger {
	return &RedisLedger{client: client}
}

func (l *RedisLedger) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if err := l.client.SetEx(ctx, keyPrefix+token, token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: revoking token: %v", common.ErrUnavailable, err)
	}
	return nil
}

func (l *RedisLedger) RevokeIfAbsent(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, keyPrefix+token, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: revoking token: %v", common.ErrUnavailable, err)
	}
	return ok, nil
}

func (l *RedisLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	err := l.client.Get(ctx, keyPrefix+token).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: checking revocation: %v", common.ErrUnavailable, err)
	}
	return true, nil
}
