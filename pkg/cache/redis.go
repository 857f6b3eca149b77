package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agrovia/agrovia/config"
)

// keyPrefix namespaces every cache entry so Flush can't touch queue keys
// sharing the same Redis instance.
const keyPrefix = "agrovia:cache:"

type redisStore struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis() (Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache/redis: ping: %w", err)
	}
	return &redisStore{rdb: rdb, ctx: ctx}, nil
}

// Client exposes the underlying connection so the queue's Redis driver can
// reuse it instead of opening a second one.
func (s *redisStore) Client() *redis.Client { return s.rdb }

func (s *redisStore) Get(key string, dest interface{}) bool {
	val, err := s.rdb.Get(s.ctx, keyPrefix+key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

func (s *redisStore) Set(key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(s.ctx, keyPrefix+key, data, ttl).Err()
}

func (s *redisStore) Delete(key string) error {
	return s.rdb.Del(s.ctx, keyPrefix+key).Err()
}

// Sweep is a no-op: Redis expires keys natively.
func (s *redisStore) Sweep() error { return nil }

// Flush removes every entry under the cache namespace via SCAN, so other
// keyspaces in the same instance are untouched.
func (s *redisStore) Flush() error {
	iter := s.rdb.Scan(s.ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(s.ctx) {
		if err := s.rdb.Del(s.ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache/redis: flush: %w", err)
		}
	}
	return iter.Err()
}
