package store

import (
	"context"
	"errors"

	"sprintly/internal/platform/store/ch"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// chClient is the part of *ch.CH the adapter needs
type chClient interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

var _ chClient = (*ch.CH)(nil)

func newCHAdapter(c chClient) Clickhouse { return &chAdapter{c: c} }

// chAdapter adapts the ClickHouse client to the Clickhouse seam
type chAdapter struct{ c chClient }

func (a *chAdapter) Insert(ctx context.Context, table string, rows [][]any) error {
	return a.c.Insert(ctx, table, rows)
}

func (a *chAdapter) Exec(ctx context.Context, sql string, args ...any) error {
	return a.c.Exec(ctx, sql, args...)
}

func (a *chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

func (a *chAdapter) Ping(ctx context.Context) error {
	if a == nil || a.c == nil {
		return errors.New("store: nil clickhouse adapter")
	}
	return a.c.Ping(ctx)
}

func (a *chAdapter) Close() error { return a.c.Close() }

// chRows drops the error from driver.Rows.Close to fit Rows
type chRows struct{ r driver.Rows }

func (x chRows) Next() bool             { return x.r.Next() }
func (x chRows) Scan(dest ...any) error { return x.r.Scan(dest...) }
func (x chRows) Err() error             { return x.r.Err() }
func (x chRows) Close()                 { _ = x.r.Close() }
func (x chRows) Columns() []string      { return x.r.Columns() }
