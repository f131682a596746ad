// Package pg opens the pgxpool used by the store
package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	AppName  string
	MaxConns int32
	SlowMs   int
}

// PG is the pool plus its optional tracer
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// PoolConfig parses cfg into a pool config; mut may adjust it further
func PoolConfig(cfg Config, mut func(*pgxpool.Config)) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		if pcfg.ConnConfig.RuntimeParams == nil {
			pcfg.ConnConfig.RuntimeParams = map[string]string{}
		}
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if mut != nil {
		mut(pcfg)
	}
	return pcfg, nil
}

// Open builds the pool; connections are established lazily
func Open(ctx context.Context, cfg Config, tracer QueryTracer, mut func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := PoolConfig(cfg, mut)
	if err != nil {
		return nil, err
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close closes the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
