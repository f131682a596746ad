package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"sprintly/internal/platform/store"
	"sprintly/internal/services/rollup/domain"
)

type fakeCH struct {
	execs   []string
	table   string
	rows    [][]any
	execErr error
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table, f.rows = table, rows
	return nil
}
func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return f.execErr
}
func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeCH) Ping(context.Context) error                              { return nil }
func (f *fakeCH) Close() error                                            { return nil }

func TestReplaceWeek(t *testing.T) {
	t.Parallel()
	ch := &fakeCH{}
	week := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	id := uuid.New()
	err := NewCH(ch).ReplaceWeek(context.Background(), week, []domain.WeekRow{
		{Week: week, ProductID: "web", Points: 11, Items: 2, RunID: id},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ch.execs) != 1 || !strings.HasPrefix(ch.execs[0], "DELETE FROM "+Table) {
		t.Fatalf("execs = %q", ch.execs)
	}
	if ch.table != Table || len(ch.rows) != 1 || ch.rows[0][1] != "web" || ch.rows[0][5] != id {
		t.Fatalf("insert %s %v", ch.table, ch.rows)
	}
}

func TestReplaceWeek_EmptyOnlyClears(t *testing.T) {
	t.Parallel()
	ch := &fakeCH{}
	if err := NewCH(ch).ReplaceWeek(context.Background(), time.Now(), nil); err != nil {
		t.Fatal(err)
	}
	if len(ch.execs) != 1 || ch.rows != nil {
		t.Fatalf("execs=%q rows=%v", ch.execs, ch.rows)
	}
}

func TestEnsureSchema(t *testing.T) {
	t.Parallel()
	ch := &fakeCH{}
	if err := EnsureSchema(context.Background(), ch); err != nil {
		t.Fatal(err)
	}
	if len(ch.execs) != 2 || !strings.Contains(ch.execs[1], "weekly_throughput") {
		t.Fatalf("execs = %q", ch.execs)
	}

	ch = &fakeCH{execErr: errors.New("readonly")}
	if err := EnsureSchema(context.Background(), ch); err == nil {
		t.Fatal("expected error")
	}
}
