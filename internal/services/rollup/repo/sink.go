package repo

import (
	"context"
	_ "embed"
	"strings"
	"time"

	perr "sprintly/internal/platform/errors"
	"sprintly/internal/platform/store"
	"sprintly/internal/services/rollup/domain"
)

//go:embed clickhouse.sql
var chSchema string

// Table is the ClickHouse throughput table the planning velocity reads
const Table = "sprintly.weekly_throughput"

type sink struct{ ch store.Clickhouse }

// NewCH returns the ClickHouse sink
func NewCH(ch store.Clickhouse) domain.Sink {
	if ch == nil {
		panic("rollup sink requires a non nil Clickhouse")
	}
	return &sink{ch: ch}
}

// EnsureSchema creates the throughput database and table when missing
func EnsureSchema(ctx context.Context, ch store.Clickhouse) error {
	for _, stmt := range strings.Split(chSchema, ";") {
		if stmt = strings.TrimSpace(stmt); stmt == "" {
			continue
		}
		if err := ch.Exec(ctx, stmt); err != nil {
			return perr.FromClickHouse(err, "throughput schema")
		}
	}
	return nil
}

// ReplaceWeek deletes the week slice then batch inserts rows
// a failed insert leaves the week empty until the next run
func (s *sink) ReplaceWeek(ctx context.Context, week time.Time, rows []domain.WeekRow) error {
	if err := s.ch.Exec(ctx, "DELETE FROM "+Table+" WHERE week = ?", week); err != nil {
		return perr.FromClickHouse(err, "clear week")
	}
	if len(rows) == 0 {
		return nil
	}
	batch := make([][]any, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, []any{r.Week, r.ProductID, r.Points, r.Items, r.Unscored, r.RunID, r.ComputedAt})
	}
	return perr.FromClickHouse(s.ch.Insert(ctx, Table, batch), "insert week")
}
