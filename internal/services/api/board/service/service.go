// Package service contains the board column workflows
package service

import (
	"context"
	"strings"
	"time"

	"sprintly/internal/core/sprint"
	"sprintly/internal/modkit/repokit"
	perr "sprintly/internal/platform/errors"
	"sprintly/internal/platform/logger"
	pnet "sprintly/internal/platform/net"
	"sprintly/internal/services/api/board/domain"
	"sprintly/internal/services/api/board/repo"
	plandomain "sprintly/internal/services/api/planning/domain"
)

// Service defines the board service contract
type Service interface {
	domain.Board
}

// Svc implements the board service
type Svc struct {
	binder  repokit.Binder[repo.Repo]
	db      repokit.TxRunner
	planner plandomain.Planner
	now     func() time.Time
}

// New constructs a board service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], planner plandomain.Planner) *Svc {
	if db == nil {
		panic("board.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("board.Service requires a non nil Repo binder")
	}
	if planner == nil {
		panic("board.Service requires the planning port")
	}
	return &Svc{binder: binder, db: db, planner: planner, now: time.Now}
}

// Column serves one page of a column
// backlog by priority carries sprints and in-progress by priority carries a summary,
// both computed over every item from the top of the column to the end of the page
func (s *Svc) Column(ctx context.Context, in domain.ColumnInput) (domain.Column, error) {
	ctx = pnet.WithProduct(ctx, in.ProductID)
	if in.Offset < 0 || in.Offset > domain.MaxOffset {
		return domain.Column{}, perr.WithField(perr.Validationf("offset must be between 0 and %d", domain.MaxOffset), "offset")
	}
	limit := in.Limit
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	if limit > domain.MaxLimit {
		limit = domain.MaxLimit
	}

	var (
		out   domain.Column
		items []domain.Item
	)
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		field, dir := s.resolveSort(ctx, r, in)
		out = domain.Column{Status: in.Status, SortField: field, SortDirection: dir}

		lq := domain.ListQuery{
			ProductID:  in.ProductID,
			Status:     in.Status,
			SortField:  field,
			Direction:  dir,
			Filters:    in.Filters,
			ScoreOrder: s.planner.Scores().Labels,
			Offset:     in.Offset,
			Limit:      limit + 1,
		}
		if grouped(out) {
			lq.Offset, lq.Limit = 0, in.Offset+limit+1
		}
		var err error
		items, err = r.List(ctx, lq)
		return err
	})
	if err != nil {
		return domain.Column{}, err
	}

	if !grouped(out) {
		out.HasMore = len(items) > limit
		out.Items = items[:min(len(items), limit)]
		return out, nil
	}

	end := in.Offset + limit
	out.HasMore = len(items) > end
	loaded := items[:min(len(items), end)]
	out.Items = loaded[min(len(loaded), in.Offset):]

	scored := make([]sprint.Scored, len(loaded))
	for i, it := range loaded {
		scored[i] = it
	}
	var gerr error
	switch in.Status {
	case domain.StatusBacklog:
		var plan plandomain.Plan
		if plan, gerr = s.planner.Plan(ctx, in.ProductID, scored, nil); gerr == nil {
			out.Sprints, out.Velocity = plan.Sprints, &plan.Velocity
		}
	case domain.StatusInProgress:
		var points float64
		if points, gerr = s.planner.Points(scored); gerr == nil {
			sum := sprint.Summarize(points, s.now())
			out.Summary = &sum
		}
	}
	if gerr != nil {
		if ctx.Err() != nil {
			return domain.Column{}, ctx.Err()
		}
		// the page is still served; the client shows the message and the items ungrouped
		logger.C(ctx).Warn().Err(gerr).Str("status", in.Status).Msg("column grouping failed")
		out.GroupingError = groupingMessage(gerr)
	}
	return out, nil
}

// groupingMessage is the client facing text for a failed grouping
func groupingMessage(err error) string {
	const prefix = "unable to compute sprint groupings"
	if e, ok := perr.As(err); ok && strings.HasPrefix(e.ToWire().Message, prefix) {
		return e.ToWire().Message
	}
	return prefix + ": " + err.Error()
}

// grouped reports whether the column is served with sprints or a summary
func grouped(c domain.Column) bool {
	if c.SortField != domain.SortPriority {
		return false
	}
	return c.Status == domain.StatusBacklog || c.Status == domain.StatusInProgress
}

// resolveSort applies the request, then the stored preference, then last_modified desc
func (s *Svc) resolveSort(ctx context.Context, r repo.Repo, in domain.ColumnInput) (string, string) {
	field, dir := in.SortField, in.SortDirection
	if field == "" {
		p, err := r.Preference(ctx, in.ProductID, in.Status)
		switch {
		case err == nil:
			field = p.SortField
			if dir == "" {
				dir = p.SortDirection
			}
		case !perr.IsCode(err, perr.ErrorCodeNotFound):
			logger.C(ctx).Warn().Err(err).Str("status", in.Status).Msg("column preference unreadable; using default sort")
		}
	}
	if field == "" {
		field = domain.SortLastModified
	}
	if dir == "" {
		dir = domain.Desc
	}
	return field, dir
}

// SetPreference stores the sort for a product column
func (s *Svc) SetPreference(ctx context.Context, in domain.PreferenceInput) (domain.Preference, error) {
	p := domain.Preference{
		ProductID:     in.ProductID,
		Status:        in.Status,
		SortField:     in.SortField,
		SortDirection: in.SortDirection,
	}
	if p.SortDirection == "" {
		p.SortDirection = domain.Desc
	}
	return s.binder.Bind(s.db).UpsertPreference(ctx, p)
}

// Preference reads the stored sort for a product column
func (s *Svc) Preference(ctx context.Context, productID, status string) (domain.Preference, error) {
	return s.binder.Bind(s.db).Preference(ctx, productID, status)
}
