package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore caches values in Redis. A cache failure is treated as a miss;
// the caller falls through to the database.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance at addr.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	// best effort: a failed write only costs the next reader a DB round trip
	_ = r.client.Set(ctx, key, value, ttl).Err()
}
