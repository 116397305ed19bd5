package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"idcheck/internal/bgc"
	"idcheck/pkg/platform/sentinel"
)

const redisKeyPrefix = "idcheck:bgc:"

// Redis stores payloads with native key expiry.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, product bgc.Product, key string) ([]byte, error) {
	payload, err := r.client.Get(ctx, redisKey(product, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s result: %w", product, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("redis get %s result: %w", product, errors.Join(sentinel.ErrUnavailable, err))
	}
	return payload, nil
}

func (r *Redis) Set(ctx context.Context, product bgc.Product, key string, payload []byte) error {
	if err := r.client.Set(ctx, redisKey(product, key), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s result: %w", product, errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func redisKey(product bgc.Product, key string) string {
	return redisKeyPrefix + product.Key() + ":" + key
}
