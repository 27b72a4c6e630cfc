package store

import (
	"context"
	"fmt"
	"time"

	"gutlog/internal/platform/store/kv"
	"gutlog/internal/platform/store/pg"
)

// openPG opens postgres, pings it with retry, and publishes the adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	client, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, fmt.Errorf("pg open: %w", err)
	}

	adapter := newPGAdapter(client)

	retries := cfg.PG.ConnectRetries
	if retries <= 0 {
		retries = 20
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}

	backoff := 250 * time.Millisecond
	var lastErr error
	for i := 0; i < retries; i++ {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = adapter.Ping(pctx)
		cancel()
		if lastErr == nil {
			return adapter, nil
		}
		s.Log.Warn().
			Err(lastErr).
			Int("attempt", i+1).
			Int("max", retries).
			Msg("pg ping failed, retrying")
		select {
		case <-ctx.Done():
			client.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 4*time.Second {
			backoff *= 2
		}
	}
	client.Close()
	return nil, fmt.Errorf("pg ping: %w", lastErr)
}

// openKV opens redis and publishes the key-value adapter
func openKV(ctx context.Context, cfg Config, s *Store) (KeyValue, error) {
	client, err := kv.Open(ctx, kv.Config{
		Addr:     cfg.KV.Addr,
		Password: cfg.KV.Password,
		DB:       cfg.KV.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("kv open: %w", err)
	}
	s.Log.Debug().Str("addr", cfg.KV.Addr).Msg("kv connected")
	return newKVAdapter(client), nil
}
