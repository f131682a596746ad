package store

import (
	"context"
	"fmt"
	"time"

	chx "sprintly/internal/platform/store/ch"
	"sprintly/internal/platform/store/pg"
)

const (
	pingAttempts   = 20
	pingTimeout    = 3 * time.Second
	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)

// sleep is swapped in tests
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// pingRetry pings with capped exponential backoff until success, ctx end or attempts run out
func pingRetry(ctx context.Context, name string, ping func(context.Context) error) error {
	var lastErr error
	backoff := backoffStart
	for i := 0; i < pingAttempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = ping(pctx)
		cancel()
		if lastErr == nil {
			return nil
		}
		if err := sleep(ctx, backoff); err != nil {
			return err
		}
		backoff = min(backoff*2, backoffCeiling)
	}
	return fmt.Errorf("%s ping failed after %d attempts: %w", name, pingAttempts, lastErr)
}

func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}
	if err := pingRetry(ctx, "postgres", p.Pool.Ping); err != nil {
		p.Close()
		return nil, err
	}
	s.Log.Info().Msg("postgres connected")
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg Config, s *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:          cfg.CH.URL,
		AppName:      cfg.AppName,
		MaxOpenConns: cfg.CH.MaxOpenConns,
		DialTimeout:  cfg.CH.DialTimeout,
	})
	if err != nil {
		return nil, err
	}
	if err := pingRetry(ctx, "clickhouse", c.Ping); err != nil {
		_ = c.Close()
		return nil, err
	}
	s.Log.Info().Msg("clickhouse connected")
	return newCHAdapter(c), nil
}
