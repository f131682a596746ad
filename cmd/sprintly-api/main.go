// Command sprintly-api serves the board, planning and meta endpoints
package main

import (
	"context"
	"os/signal"
	"syscall"

	"sprintly/internal/modkit/repokit"
	"sprintly/internal/platform/config"
	"sprintly/internal/platform/logger"
	phttp "sprintly/internal/platform/net/http"
	"sprintly/internal/platform/store"
	"sprintly/internal/services/api"
	"sprintly/internal/services/schema"
)

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		l.Fatal().Err(err).Msg("sprintly-api stopped")
	}
}

func run(ctx context.Context) error {
	// root config; CORE_API_* is the http surface, modules read their own prefixes
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()

	// postgres and clickhouse are each enabled by their URL being set
	st, err := store.Open(ctx, store.ConfigFromEnv("sprintly-api"), store.WithLogger(*logger.Named("store")))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if apiCfg.MayBool("MIGRATE", false) {
		if err := schema.Ensure(ctx, st); err != nil {
			return err
		}
	}
	repokit.MustGuard(ctx, st)

	// http server (reads CORE_API_PORT and timeouts)
	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	l.Info().Str("addr", srv.Addr()).Msg("sprintly-api listening")
	return srv.Run(ctx)
}
