package cache

import (
	"context"
	"errors"
	"time"

	"inquiry_service/internal/metrics"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	c *redis.Client
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{c: rdb}
}

func (r *RedisCache) Close() error { return r.c.Close() }

const (
	opGet    = "get"
	opSet    = "set"
	opDelete = "delete"
)

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	metrics.IncRedisRequest(opGet)
	defer metrics.ObserveRedisDuration(opGet, time.Since(start))

	b, err := r.c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		metrics.IncRedisError(opGet)
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	metrics.IncRedisRequest(opSet)
	defer metrics.ObserveRedisDuration(opSet, time.Since(start))

	if err := r.c.Set(ctx, key, value, ttl).Err(); err != nil {
		metrics.IncRedisError(opSet)
		return err
	}
	return nil
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	start := time.Now()
	metrics.IncRedisRequest(opDelete)
	defer metrics.ObserveRedisDuration(opDelete, time.Since(start))

	if err := r.c.Del(ctx, keys...).Err(); err != nil {
		metrics.IncRedisError(opDelete)
		return err
	}
	return nil
}

func (r *RedisCache) RawClient() *redis.Client { return r.c }
