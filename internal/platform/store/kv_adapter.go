package store

import (
	"context"
	"time"

	"gutlog/internal/platform/store/kv"
)

// kvAdapter wraps kv.KV and implements KeyValue + Pinger
type kvAdapter struct {
	k *kv.KV
}

func newKVAdapter(k *kv.KV) *kvAdapter { return &kvAdapter{k: k} }

func (a *kvAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	return a.k.Get(ctx, key)
}

func (a *kvAdapter) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl > 0 {
		return a.k.SetTTL(ctx, key, value, ttl)
	}
	return a.k.Set(ctx, key, value)
}

func (a *kvAdapter) Remove(ctx context.Context, key string) error {
	return a.k.Remove(ctx, key)
}

func (a *kvAdapter) Ping(ctx context.Context) error { return a.k.Ping(ctx) }

func (a *kvAdapter) Close() error { return a.k.Close() }
