package main

import (
	"context"

	"gutlog/internal/platform/config"
	"gutlog/internal/platform/logger"
	phttp "gutlog/internal/platform/net/http"
	"gutlog/internal/platform/store"

	"gutlog/internal/modkit/repokit"
	"gutlog/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_") // pgCfg lives under SERVICE_PGSQL_*
	kvCfg := root.Prefix("SERVICE_REDIS_") // kvCfg lives under SERVICE_REDIS_*

	// bring up logging early
	l := logger.Get()

	// open the platform store (postgres + redis adapter)
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			KV: store.KVConfig{
				Enabled:  true,
				Addr:     kvCfg.MayString("ADDR", "localhost:6379"),
				Password: kvCfg.MayString("PASSWORD", ""),
				DB:       kvCfg.MayInt("DB", 0),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// fail fast when a backend cannot answer a ping
	repokit.MustGuard(context.Background(), st)

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config: apiCfg,
			Store:  st,
			Logger: l,
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
