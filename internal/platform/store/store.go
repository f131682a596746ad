// Package store is the facade over the Postgres and ClickHouse backends
package store

import (
	"context"
	"errors"
	"fmt"

	"sprintly/internal/platform/logger"
)

// Store holds the enabled backends; disabled ones stay nil
type Store struct {
	Log logger.Logger

	// PG is the transactional store for board items and preferences
	PG TxRunner

	// CH is the columnar store for weekly throughput
	CH Clickhouse
}

// Row is the single row scan contract
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set cursor
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports the outcome of a write
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the SQL surface repos use
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner runs fn inside a transaction, committing when fn returns nil
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam: batch inserts, statements and reads
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Open connects the backends enabled in cfg
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: *logger.Named("store")}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	if cfg.PG.Enabled {
		pgClient, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = pgClient
	}
	if cfg.CH.Enabled {
		chClient, err := openCH(ctx, cfg, s)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = chClient
	}
	return s, nil
}

// Guard pings every enabled backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("pg: %w", err))
		}
	}
	if s.CH != nil {
		if err := s.CH.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("ch: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close closes the enabled backends
func (s *Store) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.CH != nil {
		if err := s.CH.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
