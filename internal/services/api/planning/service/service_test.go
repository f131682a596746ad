package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"sprintly/internal/core/scoremap"
	"sprintly/internal/core/sprint"
	perr "sprintly/internal/platform/errors"
	"sprintly/internal/services/api/planning/domain"
	"sprintly/internal/services/api/planning/repo"
)

type fakeRepo struct {
	avg      float64
	n        int
	err      error
	from, to time.Time
}

func (f *fakeRepo) AvgThroughput(_ context.Context, _ string, from, to time.Time) (float64, int, error) {
	f.from, f.to = from, to
	return f.avg, f.n, f.err
}

// Wednesday 3 Sep 2025
var now = time.Date(2025, 9, 3, 10, 0, 0, 0, time.UTC)

func newSvc(r *fakeRepo, policy sprint.UnscoredPolicy) *Svc {
	m := scoremap.Default()
	var rr repo.Repo
	if r != nil {
		rr = r
	}
	return New(rr, m, sprint.New(m, sprint.WithPolicy(policy)), Options{Default: 10, Now: func() time.Time { return now }})
}

func backlog(labels ...string) []sprint.Scored {
	out := make([]sprint.Scored, len(labels))
	for i, l := range labels {
		out[i] = domain.Item{Number: int64(i + 1), Score: l}
	}
	return out
}

func TestVelocity_History(t *testing.T) {
	t.Parallel()
	r := &fakeRepo{avg: 12.5, n: 4}
	v, err := newSvc(r, sprint.RejectUnscored).Velocity(context.Background(), "web")
	if err != nil {
		t.Fatal(err)
	}
	if v.Points != 12.5 || v.Weeks != 4 || v.Source != domain.SourceHistory {
		t.Fatalf("velocity = %+v", v)
	}
	wantTo := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	if !r.to.Equal(wantTo) || !r.from.Equal(wantTo.AddDate(0, 0, -42)) {
		t.Fatalf("window = %v..%v", r.from, r.to)
	}
}

func TestVelocity_Fallbacks(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		repo *fakeRepo
	}{
		{"no clickhouse", nil},
		{"no history", &fakeRepo{}},
		{"read failure", &fakeRepo{err: errors.New("down")}},
		{"only empty weeks", &fakeRepo{avg: 0, n: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := newSvc(tt.repo, sprint.RejectUnscored).Velocity(context.Background(), "web")
			if err != nil {
				t.Fatal(err)
			}
			if v.Points != 10 || v.Source != domain.SourceDefault || v.Weeks != 0 {
				t.Fatalf("velocity = %+v", v)
			}
		})
	}
}

func TestVelocity_RequiresProduct(t *testing.T) {
	t.Parallel()
	_, err := newSvc(nil, sprint.RejectUnscored).Velocity(context.Background(), "")
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestPlan_RequestVelocity(t *testing.T) {
	t.Parallel()
	v := 8.0
	p, err := newSvc(nil, sprint.RejectUnscored).Plan(context.Background(), "", backlog("M", "L", "XL"), &v)
	if err != nil {
		t.Fatal(err)
	}
	if p.Source != domain.SourceRequest || p.Policy != "reject" || len(p.Sprints) != 2 {
		t.Fatalf("plan = %+v", p)
	}
	if p.Sprints[0].Label != "8 Sep" || !p.Sprints[0].Open || p.Sprints[1].Points != 8 {
		t.Fatalf("sprints = %+v", p.Sprints)
	}
	if got := p.Sprints[0].Items[1].(domain.Item).Number; got != 2 {
		t.Fatalf("item order lost: %d", got)
	}
}

func TestPlan_ProductVelocity(t *testing.T) {
	t.Parallel()
	p, err := newSvc(&fakeRepo{avg: 3, n: 2}, sprint.RejectUnscored).Plan(context.Background(), "web", backlog("M", "M", "M"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Velocity != 3 || p.Source != domain.SourceHistory || len(p.Sprints) != 3 {
		t.Fatalf("plan = %+v", p)
	}
}

func TestPlan_Errors(t *testing.T) {
	t.Parallel()
	nan := math.NaN()

	_, err := newSvc(nil, sprint.RejectUnscored).Plan(context.Background(), "", backlog("M"), nil)
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("missing velocity err = %v", err)
	}

	_, err = newSvc(nil, sprint.RejectUnscored).Plan(context.Background(), "", backlog("M"), &nan)
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) || !errors.Is(err, sprint.ErrInvalidVelocity) {
		t.Fatalf("nan velocity err = %v", err)
	}
	if e, _ := perr.As(err); e.Field() != "velocity" {
		t.Fatalf("field = %q", e.Field())
	}

	v := 8.0
	_, err = newSvc(nil, sprint.RejectUnscored).Plan(context.Background(), "", backlog("M", "huge"), &v)
	if !perr.IsCode(err, perr.ErrorCodeValidation) || !errors.Is(err, sprint.ErrUnscoredItem) {
		t.Fatalf("unscored err = %v", err)
	}
	_, w := perr.HTTP(err)
	if w.Message == "" || w.Field != "items" {
		t.Fatalf("wire = %+v", w)
	}
}

func TestPoints(t *testing.T) {
	t.Parallel()
	got, err := newSvc(nil, sprint.ZeroUnscored).Points(backlog("S", "XL", "??"))
	if err != nil || got != 9 {
		t.Fatalf("Points = %v %v", got, err)
	}
	if _, err := newSvc(nil, sprint.RejectUnscored).Points(backlog("??")); err == nil {
		t.Fatal("expected reject")
	}
}

func TestScores(t *testing.T) {
	t.Parallel()
	s := newSvc(nil, sprint.ZeroUnscored).Scores()
	if s.Entries["XL"] != 8 || s.Labels[0] != scoremap.Unscored || s.Policy != "zero" {
		t.Fatalf("scores = %+v", s)
	}
}
