// Package service computes weekly throughput from accepted items
package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sprintly/internal/core/scoremap"
	"sprintly/internal/core/sprint"
	"sprintly/internal/modkit/repokit"
	perr "sprintly/internal/platform/errors"
	"sprintly/internal/platform/logger"
	"sprintly/internal/services/rollup/domain"
	"sprintly/internal/services/rollup/guardrails"
)

// Config controls concurrency and retries
type Config struct {
	Workers int

	// MaxAttempts bounds how often a week is tried when storage reports a transient failure
	MaxAttempts int
	// Backoff is the base delay between attempts; it doubles each time
	Backoff time.Duration

	// EnableLeases takes the week advisory lock around each run
	EnableLeases bool
}

// Service wires TxRunner + Binder + Sink into the rollup
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.Source]
	Sink   domain.Sink
	Scores *scoremap.Map
	Cfg    Config
	Lease  guardrails.Lease

	now   func() time.Time
	newID func() uuid.UUID
}

// New constructs the rollup service; lease may be nil
func New(db repokit.TxRunner, binder repokit.Binder[domain.Source], sink domain.Sink, scores *scoremap.Map, cfg Config, lease guardrails.Lease) *Service {
	if db == nil {
		panic("rollup.Service requires a non nil TxRunner")
	}
	if binder == nil || sink == nil {
		panic("rollup.Service requires a source binder and a sink")
	}
	if scores == nil {
		panic("rollup.Service requires a score map")
	}
	return &Service{DB: db, Binder: binder, Sink: sink, Scores: scores, Cfg: cfg, Lease: lease, now: time.Now, newID: uuid.New}
}

// RunWeek recomputes the ISO week holding week (idempotent)
func (s *Service) RunWeek(ctx context.Context, week time.Time) (domain.WeekResult, error) {
	week = sprint.WeekStart(week.UTC())
	res := domain.WeekResult{Week: week, RunID: s.newID()}
	l := logger.C(ctx).With().Str("mod", "rollup").Time("week", week).Str("run_id", res.RunID.String()).Logger()

	run := func(ctx context.Context) error {
		src := s.Binder.Bind(s.DB)
		products, err := src.Products(ctx)
		if err != nil {
			return err
		}
		accepted, err := src.Accepted(ctx, week, week.AddDate(0, 0, 7))
		if err != nil {
			return err
		}

		rows := s.aggregate(week, res.RunID, products, accepted, &l)
		if err := s.Sink.ReplaceWeek(ctx, week, rows); err != nil {
			return err
		}
		res.Products, res.Items = len(rows), len(accepted)
		for _, r := range rows {
			res.Points += r.Points
		}
		return nil
	}

	once := func(ctx context.Context) error {
		if s.Lease != nil && s.Cfg.EnableLeases {
			return s.Lease(ctx, week, run)
		}
		return run(ctx)
	}

	err := s.retry(ctx, once, &l)
	if errors.Is(err, guardrails.ErrLeaseHeld) {
		l.Debug().Msg("rollup: week lease held elsewhere; clean skip")
		res.Skipped = true
		return res, nil
	}
	if err != nil {
		l.Error().Err(err).Msg("rollup: week failed")
		return res, err
	}
	l.Info().Int("products", res.Products).Int("items", res.Items).Float64("points", res.Points).Msg("rollup: week done")
	return res, nil
}

// retry runs fn until it succeeds, fails for good, or attempts run out
func (s *Service) retry(ctx context.Context, fn func(context.Context) error, l *logger.Logger) error {
	attempts := max(s.Cfg.MaxAttempts, 1)
	delay := s.Cfg.Backoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil || !perr.Retryable(err) || attempt == attempts {
			return err
		}
		l.Warn().Err(err).Int("attempt", attempt).Dur("backoff", delay).Msg("rollup: transient failure; retrying")
		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
		delay = min(delay*2, 10*time.Second)
	}
	return err
}

// aggregate sums points per product; products with nothing accepted get a zero row
// unscored labels count as zero and are reported
func (s *Service) aggregate(week time.Time, runID uuid.UUID, products []string, accepted []domain.Accepted, l *logger.Logger) []domain.WeekRow {
	computed := s.now().UTC()
	byProduct := make(map[string]*domain.WeekRow, len(products))
	row := func(p string) *domain.WeekRow {
		r, ok := byProduct[p]
		if !ok {
			r = &domain.WeekRow{Week: week, ProductID: p, RunID: runID, ComputedAt: computed}
			byProduct[p] = r
		}
		return r
	}
	for _, p := range products {
		row(p)
	}
	for _, a := range accepted {
		r := row(a.ProductID)
		r.Items++
		v, ok := s.Scores.Lookup(a.Score)
		if !ok {
			r.Unscored++
			l.Warn().Str("product_id", a.ProductID).Int64("number", a.Number).Str("score", a.Score).Msg("rollup: unscored item counted as zero")
			continue
		}
		r.Points += v
	}

	out := make([]domain.WeekRow, 0, len(byProduct))
	for _, r := range byProduct {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// RunRange runs every week in [from, to] on a bounded pool
// results come back in week order; failures are joined and do not stop other weeks
func (s *Service) RunRange(ctx context.Context, from, to time.Time) ([]domain.WeekResult, error) {
	first, last := sprint.WeekStart(from.UTC()), sprint.WeekStart(to.UTC())
	if last.Before(first) {
		return nil, perr.InvalidArgf("rollup: until %s is before since %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	var weeks []time.Time
	for w := first; !w.After(last); w = w.AddDate(0, 0, 7) {
		weeks = append(weeks, w)
	}

	workers := s.Cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	sem := make(chan struct{}, workers)
	results := make([]domain.WeekResult, len(weeks))
	errs := make([]error, len(weeks))
	var wg sync.WaitGroup

	for i, w := range weeks {
		select {
		case <-ctx.Done():
			errs[i] = ctx.Err()
			continue
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = s.RunWeek(ctx, w)
		}()
	}
	wg.Wait()
	return results, errors.Join(errs...)
}
