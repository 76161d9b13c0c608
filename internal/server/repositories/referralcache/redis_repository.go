package referralcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/referral/internal/common"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "referrer:"

// Client is the subset of the go-redis API the projection uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisRepository struct {
	client Client
}

func NewRedisRepository(client Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) GetCode(ctx context.Context, email string) (string, error) {
	code, err := r.client.Get(ctx, keyPrefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("%w: reading code projection: %v", common.ErrUnavailable, err)
	}
	return code, nil
}

func (r *RedisRepository) SetCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := r.client.SetEx(ctx, keyPrefix+email, code, ttl).Err(); err != nil {
		return fmt.Errorf("%w: writing code projection: %v", common.ErrUnavailable, err)
	}
	return nil
}

func (r *RedisRepository) DeleteCode(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, keyPrefix+email).Err(); err != nil {
		return fmt.Errorf("%w: deleting code projection: %v", common.ErrUnavailable, err)
	}
	return nil
}
