package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// connectTimeout bounds the initial connection check.
const connectTimeout = 5 * time.Second

// RedisStore is a Redis-backed Store. SADD and INCR give it the atomic
// set-add and increment primitives the counting protocol relies on.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance at the given URL
// (e.g. redis://localhost:6379/0) and verifies the connection.
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// AddUnique implements Store using SADD, which reports the number of
// elements actually added.
func (s *RedisStore) AddUnique(ctx context.Context, key, member string) (bool, error) {
	added, err := s.client.SAdd(ctx, key, member).Result()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

// Increment implements Store using INCR.
func (s *RedisStore) Increment(ctx context.Context, key string) error {
	return s.client.Incr(ctx, key).Err()
}

// GetCount implements Store. A missing key reads as zero.
func (s *RedisStore) GetCount(ctx context.Context, key string) (uint64, error) {
	val, err := s.client.Get(ctx, key).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return val, nil
}

// GetCounts implements Store using a single MGET round-trip.
func (s *RedisStore) GetCounts(ctx context.Context, keys []string) ([]uint64, error) {
	if len(keys) == 0 {
		return []uint64{}, nil
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	counts := make([]uint64, len(keys))
	for i, val := range vals {
		if val == nil {
			continue
		}
		raw, ok := val.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric counter at %s: %w", keys[i], err)
		}
		counts[i] = n
	}
	return counts, nil
}

// Ping implements Store.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
