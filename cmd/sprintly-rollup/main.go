package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sprintly/internal/core/sprint"
	"sprintly/internal/modkit"
	"sprintly/internal/modkit/module"
	"sprintly/internal/modkit/repokit"
	"sprintly/internal/platform/config"
	"sprintly/internal/platform/logger"
	"sprintly/internal/platform/store"
	"sprintly/internal/services/rollup/domain"
	rollupmod "sprintly/internal/services/rollup/module"
	"sprintly/internal/services/schema"
)

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()

	var (
		fSince   = flag.String("since", "", "first week to roll up, YYYY-MM-DD (default: last complete week)")
		fUntil   = flag.String("until", "", "last week to roll up inclusive, YYYY-MM-DD (default: -since)")
		fWorkers = flag.Int("workers", 0, "weeks computed at once (default CORE_ROLLUP_WORKERS)")
		fMigrate = flag.Bool("migrate", false, "create tables before running")
	)
	flag.Parse()

	from, to, err := parseRange(*fSince, *fUntil, time.Now())
	if err != nil {
		l.Panic().Err(err).Msg("bad range")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.ConfigFromEnv("sprintly-rollup"), store.WithLogger(*logger.Named("store")))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// the rollup reads Postgres and writes ClickHouse; both must answer
	repokit.MustGuard(ctx, st)
	repokit.MustPing(ctx, "clickhouse", st.CH)

	if *fMigrate {
		if err := schema.Ensure(ctx, st); err != nil {
			l.Fatal().Err(err).Msg("migrate failed")
		}
	}

	root := config.New()
	opts := rollupmod.FromConfig(root)
	if *fWorkers > 0 {
		opts.Workers = *fWorkers
	}

	rm := rollupmod.New(modkit.Deps{Cfg: root, PG: st.PG, CH: st.CH, Log: *l}, opts)
	module.Register(rm.Name(), rm.Ports())

	results, err := rm.Runner().RunRange(ctx, from, to)
	// partial results are still worth printing
	if perr := printResults(os.Stdout, results); perr != nil {
		l.Error().Err(perr).Msg("failed to write results")
	}
	if err != nil {
		l.Fatal().Err(err).Msg("rollup failed")
	}
	l.Info().Int("weeks", len(results)).Msg("rollup done")
}

// parseRange resolves the flag pair into week starts
// both empty means the last complete week; only since means that single week
func parseRange(since, until string, now time.Time) (time.Time, time.Time, error) {
	if since == "" && until != "" {
		return time.Time{}, time.Time{}, fmt.Errorf("-until needs -since")
	}
	if since == "" {
		last := sprint.WeekStart(now.UTC()).AddDate(0, 0, -7)
		return last, last, nil
	}
	from, err := time.Parse(time.DateOnly, since)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("-since: %w", err)
	}
	to := from
	if until != "" {
		if to, err = time.Parse(time.DateOnly, until); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("-until: %w", err)
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("-until %s before -since %s", until, since)
	}
	return sprint.WeekStart(from), sprint.WeekStart(to), nil
}

func printResults(w io.Writer, results []domain.WeekResult) error {
	if results == nil {
		results = []domain.WeekResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
