package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"sprintly/internal/core/scoremap"
	"sprintly/internal/modkit/repokit"
	perr "sprintly/internal/platform/errors"
	"sprintly/internal/services/rollup/domain"
	"sprintly/internal/services/rollup/guardrails"
)

type fakeDB struct{}

func (fakeDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (fakeDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (fakeDB) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (f fakeDB) Tx(_ context.Context, fn func(repokit.Queryer) error) error    { return fn(f) }

type fakeSource struct {
	products []string
	accepted []domain.Accepted
	err      error
	flaky    int
	mu       sync.Mutex
	windows  [][2]time.Time
}

func (f *fakeSource) Products(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.flaky > 0 {
		f.flaky--
		return nil, perr.FromPostgres(&pgconn.PgError{Code: "40P01"}, "products")
	}
	return f.products, f.err
}
func (f *fakeSource) Accepted(_ context.Context, from, to time.Time) ([]domain.Accepted, error) {
	f.mu.Lock()
	f.windows = append(f.windows, [2]time.Time{from, to})
	f.mu.Unlock()
	return f.accepted, f.err
}

type fakeSink struct {
	mu    sync.Mutex
	weeks map[time.Time][]domain.WeekRow
	fail  time.Time
}

func (f *fakeSink) ReplaceWeek(_ context.Context, week time.Time, rows []domain.WeekRow) error {
	if week.Equal(f.fail) {
		return perr.Unavailablef("clickhouse down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.weeks == nil {
		f.weeks = map[time.Time][]domain.WeekRow{}
	}
	f.weeks[week] = rows
	return nil
}

var runID = uuid.MustParse("6f1c2a4e-8d1b-4c7a-9a55-0b4d8f0f2e11")

func newSvc(src *fakeSource, sink *fakeSink, lease guardrails.Lease) *Service {
	s := New(fakeDB{}, repokit.BindFunc[domain.Source](func(repokit.Queryer) domain.Source { return src }),
		sink, scoremap.Default(), Config{Workers: 3, EnableLeases: lease != nil}, lease)
	s.newID = func() uuid.UUID { return runID }
	s.now = func() time.Time { return time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestRunWeek(t *testing.T) {
	t.Parallel()
	src := &fakeSource{
		products: []string{"api", "web", "idle"},
		accepted: []domain.Accepted{
			{ProductID: "web", Number: 1, Score: "M"},
			{ProductID: "web", Number: 2, Score: "xl"},
			{ProductID: "api", Number: 7, Score: "?"},
			{ProductID: "api", Number: 8, Score: "S"},
		},
	}
	sink := &fakeSink{}
	res, err := newSvc(src, sink, nil).RunWeek(context.Background(), time.Date(2025, 9, 4, 15, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	week := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	if !res.Week.Equal(week) || res.RunID != runID || res.Products != 3 || res.Items != 4 || res.Points != 12 {
		t.Fatalf("result = %+v", res)
	}
	if w := src.windows[0]; !w[0].Equal(week) || !w[1].Equal(week.AddDate(0, 0, 7)) {
		t.Fatalf("window = %v", w)
	}

	rows := sink.weeks[week]
	if len(rows) != 3 || rows[0].ProductID != "api" || rows[1].ProductID != "idle" || rows[2].ProductID != "web" {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Points != 1 || rows[0].Unscored != 1 || rows[0].Items != 2 {
		t.Fatalf("api row = %+v", rows[0])
	}
	if rows[1].Points != 0 || rows[1].Items != 0 {
		t.Fatalf("idle row = %+v", rows[1])
	}
	if rows[2].Points != 11 || rows[2].RunID != runID {
		t.Fatalf("web row = %+v", rows[2])
	}
}

func TestRunWeek_SourceError(t *testing.T) {
	t.Parallel()
	boom := errors.New("pg down")
	_, err := newSvc(&fakeSource{err: boom}, &fakeSink{}, nil).RunWeek(context.Background(), time.Now())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunWeek_LeaseHeldSkips(t *testing.T) {
	t.Parallel()
	held := func(context.Context, time.Time, func(context.Context) error) error { return guardrails.ErrLeaseHeld }
	sink := &fakeSink{}
	res, err := newSvc(&fakeSource{}, sink, held).RunWeek(context.Background(), time.Now())
	if err != nil || !res.Skipped || len(sink.weeks) != 0 {
		t.Fatalf("res=%+v err=%v", res, err)
	}
}

func TestRunRange(t *testing.T) {
	t.Parallel()
	src := &fakeSource{products: []string{"web"}, accepted: []domain.Accepted{{ProductID: "web", Score: "L"}}}
	fail := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	sink := &fakeSink{fail: fail}

	from := time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC)
	res, err := newSvc(src, sink, nil).RunRange(context.Background(), from, to)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
	if len(res) != 4 {
		t.Fatalf("weeks = %d, want 4", len(res))
	}
	for i, r := range res {
		want := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*i)
		if !r.Week.Equal(want) {
			t.Fatalf("result %d week = %v, want %v", i, r.Week, want)
		}
	}
	if len(sink.weeks) != 3 {
		t.Fatalf("stored weeks = %d, want 3", len(sink.weeks))
	}
}

func TestRunRange_Backwards(t *testing.T) {
	t.Parallel()
	now := time.Now()
	_, err := newSvc(&fakeSource{}, &fakeSink{}, nil).RunRange(context.Background(), now, now.AddDate(0, 0, -14))
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunWeek_RetriesTransientErrors(t *testing.T) {
	t.Parallel()
	src := &fakeSource{products: []string{"web"}, flaky: 2}
	s := newSvc(src, &fakeSink{}, nil)
	s.Cfg.MaxAttempts = 3
	s.Cfg.Backoff = time.Millisecond

	if _, err := s.RunWeek(context.Background(), time.Now()); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if src.flaky != 0 {
		t.Fatalf("flaky left = %d", src.flaky)
	}
}

func TestRunWeek_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()
	src := &fakeSource{products: []string{"web"}, flaky: 5}
	s := newSvc(src, &fakeSink{}, nil)
	s.Cfg.MaxAttempts = 2
	s.Cfg.Backoff = time.Millisecond

	if _, err := s.RunWeek(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
	if src.flaky != 3 {
		t.Fatalf("attempts = %d, want 2", 5-src.flaky)
	}
}
