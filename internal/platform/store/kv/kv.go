// Package kv provides a Redis client used for durable key-value snapshots
package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures redis connectivity
type Config struct {
	Addr     string
	Password string
	DB       int
}

// KV is a redis client
type KV struct {
	rdb *redis.Client
}

// Open dials redis and verifies the connection with a short ping
func Open(ctx context.Context, cfg Config) (*KV, error) {
	if cfg.Addr == "" {
		return nil, errors.New("kv: empty addr")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return &KV{rdb: rdb}, nil
}

// Get fetches a key
// the second return is false when the key is absent
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := k.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set stores a key without expiry
func (k *KV) Set(ctx context.Context, key, value string) error {
	return k.rdb.Set(ctx, key, value, 0).Err()
}

// SetTTL stores a key with an expiry
func (k *KV) SetTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return k.rdb.Set(ctx, key, value, ttl).Err()
}

// Remove deletes a key, absent keys are not an error
func (k *KV) Remove(ctx context.Context, key string) error {
	return k.rdb.Del(ctx, key).Err()
}

// Ping reports connectivity
func (k *KV) Ping(ctx context.Context) error {
	return k.rdb.Ping(ctx).Err()
}

// Close releases the client
func (k *KV) Close() error {
	if k == nil || k.rdb == nil {
		return nil
	}
	return k.rdb.Close()
}
