// Package ch is the ClickHouse client built on the native clickhouse-go protocol
package ch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the client; URL is a clickhouse:// DSN
type Config struct {
	URL          string
	AppName      string
	MaxOpenConns int
	DialTimeout  time.Duration
}

// conn is the part of driver.Conn the client uses
type conn interface {
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
	Ping(ctx context.Context) error
	Close() error
}

// CH wraps a native connection pool
type CH struct {
	conn conn
}

// Options turns cfg into driver options
func Options(cfg Config) (*clickhouse.Options, error) {
	if cfg.URL == "" {
		return nil, errors.New("ch: empty url")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		opts.MaxOpenConns = cfg.MaxOpenConns
		if opts.MaxIdleConns <= 0 || opts.MaxIdleConns > cfg.MaxOpenConns {
			opts.MaxIdleConns = cfg.MaxOpenConns
		}
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	opts.ClientInfo = BuildClientInfo(cfg.AppName)
	return opts, nil
}

// Open parses the DSN and opens a pool; it does not ping
func Open(_ context.Context, cfg Config) (*CH, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	c, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	return &CH{conn: c}, nil
}

// Insert sends rows to table in one native batch
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for i, r := range rows {
		if err := batch.Append(r...); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("ch: append row %d: %w", i, err)
		}
	}
	return batch.Send()
}

// Exec runs a statement that returns no rows
func (c *CH) Exec(ctx context.Context, query string, args ...any) error {
	return c.conn.Exec(ctx, query, args...)
}

// Query runs a read
func (c *CH) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	return c.conn.Query(ctx, query, args...)
}

// Ping checks connectivity
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close closes the pool
func (c *CH) Close() error { return c.conn.Close() }
