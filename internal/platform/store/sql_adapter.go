package store

import (
	"context"
	"time"

	"sprintly/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is what *pgxpool.Pool and pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced implements RowQuerier over a pool or a tx and reports each statement to the tracer
type traced struct {
	q      pgxQuerier
	tracer pg.QueryTracer
	slowMs int
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.q.Exec(ctx, sql, args...)
	t.emit(ctx, sql, args, start, err)
	return ct, err
}

func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.q.Query(ctx, sql, args...)
	t.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgRows{rs}, nil
}

func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := t.q.QueryRow(ctx, sql, args...)
	return scanHook{r: r, after: func(err error) { t.emit(ctx, sql, args, start, err) }}
}

func (t traced) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	elapsed := time.Since(start)
	t.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsed.Microseconds(),
		Err:       err,
		Slow:      t.slowMs > 0 && elapsed >= time.Duration(t.slowMs)*time.Millisecond,
	})
}

// pgAdapter is the TxRunner over a pool
type pgAdapter struct {
	traced
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{traced: traced{q: p.Pool, tracer: p.Tracer, slowMs: p.SlowMs}, p: p}
}

func (a *pgAdapter) Ping(ctx context.Context) error { return a.p.Pool.Ping(ctx) }

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

// Tx rolls back when fn fails or panics
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) (err error) {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()
	if err = fn(traced{q: tx, tracer: a.tracer, slowMs: a.slowMs}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type scanHook struct {
	r     pgx.Row
	after func(error)
}

func (x scanHook) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	x.after(err)
	return err
}

type pgRows struct{ pgx.Rows }

func (x pgRows) Columns() []string {
	f := x.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}
