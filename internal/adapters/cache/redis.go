package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "feedview:img:"
	fieldContentType = "ct"
	fieldBody        = "body"
)

// Redis stores entries as hashes with an expiry.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string) (Entry, bool, error) {
	vals, err := r.client.HGetAll(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("redis get: %w", err)
	}
	body, ok := vals[fieldBody]
	if !ok {
		return Entry{}, false, nil
	}
	return Entry{ContentType: vals[fieldContentType], Body: []byte(body)}, true, nil
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, e Entry) error {
	k := redisKeyPrefix + key
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, fieldContentType, e.ContentType, fieldBody, e.Body)
		p.Expire(ctx, k, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Len implements Cache. Redis entries are shared, so the count is unknown.
func (r *Redis) Len(_ context.Context) int {
	return -1
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
