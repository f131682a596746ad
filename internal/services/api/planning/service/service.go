// Package service contains the planning workflows
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sprintly/internal/core/scoremap"
	"sprintly/internal/core/sprint"
	perr "sprintly/internal/platform/errors"
	"sprintly/internal/platform/logger"
	"sprintly/internal/services/api/planning/domain"
	"sprintly/internal/services/api/planning/repo"
)

// Service defines the planning service contract
type Service interface {
	domain.Planner
}

// Options tunes velocity prediction
type Options struct {
	// Weeks of history averaged into the velocity
	Weeks int
	// Default is used when a product has no history
	Default float64
	Now     func() time.Time
}

// Svc implements the planning service
type Svc struct {
	repo   repo.Repo
	scores *scoremap.Map
	part   *sprint.Partitioner
	opt    Options
}

// New constructs a planning service; r may be nil when ClickHouse is disabled
func New(r repo.Repo, scores *scoremap.Map, part *sprint.Partitioner, opt Options) *Svc {
	if scores == nil || part == nil {
		panic("planning.Service requires a score map and a partitioner")
	}
	if opt.Weeks <= 0 {
		opt.Weeks = 6
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	return &Svc{repo: r, scores: scores, part: part, opt: opt}
}

// Velocity averages the last complete weeks of throughput for productID
// a missing repo, a failing read, or history without accepted points all yield the default
func (s *Svc) Velocity(ctx context.Context, productID string) (domain.Velocity, error) {
	if productID == "" {
		return domain.Velocity{}, perr.WithField(perr.Validationf("product_id is required"), "product_id")
	}
	out := domain.Velocity{ProductID: productID, Points: s.opt.Default, Source: domain.SourceDefault}
	if s.repo == nil {
		return out, nil
	}

	to := sprint.WeekStart(s.opt.Now().UTC())
	from := to.AddDate(0, 0, -7*s.opt.Weeks)
	avg, n, err := s.repo.AvgThroughput(ctx, productID, from, to)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("product_id", productID).Msg("velocity history unavailable; using default")
		return out, nil
	}
	// zero rows mean weeks without accepted work, which says nothing about capacity
	if n == 0 || !(avg > 0) {
		return out, nil
	}
	out.Points, out.Weeks, out.Source = avg, n, domain.SourceHistory
	return out, nil
}

// Plan partitions items into sprints and schedules them from next week
func (s *Svc) Plan(ctx context.Context, productID string, items []sprint.Scored, velocity *float64) (domain.Plan, error) {
	var (
		v      float64
		source string
	)
	switch {
	case velocity != nil:
		v, source = *velocity, domain.SourceRequest
	case productID != "":
		vel, err := s.Velocity(ctx, productID)
		if err != nil {
			return domain.Plan{}, err
		}
		v, source = vel.Points, vel.Source
	default:
		return domain.Plan{}, perr.WithField(perr.Validationf("velocity or product_id is required"), "velocity")
	}

	chunks, err := sprint.Partition(s.part, items, v)
	if err != nil {
		return domain.Plan{}, groupingErr(err)
	}
	return domain.Plan{
		Velocity: v,
		Source:   source,
		Policy:   s.part.Policy().String(),
		Sprints:  sprint.Schedule(chunks, s.opt.Now()),
	}, nil
}

// Points sums the item scores for a column summary
func (s *Svc) Points(items []sprint.Scored) (float64, error) {
	pts, err := sprint.Points(s.part, items)
	if err != nil {
		return 0, groupingErr(err)
	}
	var total float64
	for _, p := range pts {
		total += p
	}
	return total, nil
}

// Scores returns the loaded score map
func (s *Svc) Scores() domain.Scores {
	return domain.Scores{
		Entries: s.scores.Entries(),
		Labels:  s.scores.Labels(),
		Policy:  s.part.Policy().String(),
	}
}

// groupingErr maps partitioner failures to API codes; the wire message keeps the cause
func groupingErr(err error) error {
	msg := fmt.Sprintf("unable to compute sprint groupings: %s", err)
	switch {
	case errors.Is(err, sprint.ErrInvalidVelocity):
		return perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, msg), "velocity")
	case errors.Is(err, sprint.ErrUnscoredItem):
		return perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, msg), "items")
	}
	return perr.Wrap(err, perr.ErrorCodeUnknown, "unable to compute sprint groupings")
}
