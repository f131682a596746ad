package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"sprintly/internal/core/sprint"
	perr "sprintly/internal/platform/errors"
	phttp "sprintly/internal/platform/net/http"
	kit "sprintly/internal/platform/testkit"
	"sprintly/internal/services/api/planning/domain"
)

type fakePlanner struct {
	gotProduct  string
	gotItems    []sprint.Scored
	gotVelocity *float64
	err         error
}

func (f *fakePlanner) Plan(_ context.Context, product string, items []sprint.Scored, v *float64) (domain.Plan, error) {
	f.gotProduct, f.gotItems, f.gotVelocity = product, items, v
	if f.err != nil {
		return domain.Plan{}, f.err
	}
	return domain.Plan{Velocity: 8, Source: domain.SourceRequest}, nil
}

func (f *fakePlanner) Velocity(_ context.Context, product string) (domain.Velocity, error) {
	return domain.Velocity{ProductID: product, Points: 11, Source: domain.SourceHistory, Weeks: 3}, nil
}

func (f *fakePlanner) Points([]sprint.Scored) (float64, error) { return 0, nil }

func (f *fakePlanner) Scores() domain.Scores {
	return domain.Scores{Entries: map[string]float64{"S": 1}, Labels: []string{"S"}, Policy: "reject"}
}

func mux(p domain.Planner) http.Handler {
	r := chi.NewRouter()
	Register(phttp.AdaptChi(r), p)
	return r
}

func TestSprints(t *testing.T) {
	t.Parallel()
	p := &fakePlanner{}
	rr := kit.Do(t, mux(p), http.MethodPost, "/sprints", `{"items":[{"number":1,"score":"M"},{"number":2,"score":"XL"}],"velocity":8}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	env := kit.Decode[domain.Plan](t, rr)
	if env.Data.Source != domain.SourceRequest {
		t.Fatalf("plan = %+v", env.Data)
	}
	if len(p.gotItems) != 2 || p.gotItems[1].ScoreLabel() != "XL" || *p.gotVelocity != 8 {
		t.Fatalf("planner saw items=%v velocity=%v", p.gotItems, p.gotVelocity)
	}
}

func TestSprints_BadBodies(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown field", `{"items":[],"speed":3}`, http.StatusBadRequest},
		{"zero number", `{"items":[{"number":0,"score":"M"}],"velocity":8}`, http.StatusBadRequest},
		{"bad product", `{"items":[],"product_id":"no spaces"}`, http.StatusBadRequest},
		{"not json", `[`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := kit.Do(t, mux(&fakePlanner{}), http.MethodPost, "/sprints", tt.body)
			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d body=%s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestSprints_InvalidVelocityIs422(t *testing.T) {
	t.Parallel()
	p := &fakePlanner{err: perr.InvalidArgf("unable to compute sprint groupings")}
	rr := kit.Do(t, mux(p), http.MethodPost, "/sprints", `{"items":[],"velocity":1}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rr.Code)
	}
	kit.MustContain(t, rr.Body.String(), "unable to compute sprint groupings")
}

func TestVelocityAndScores(t *testing.T) {
	t.Parallel()
	h := mux(&fakePlanner{})
	v := kit.Decode[domain.Velocity](t, kit.Do(t, h, http.MethodGet, "/velocity/web", nil))
	if v.Data.ProductID != "web" || v.Data.Points != 11 {
		t.Fatalf("velocity = %+v", v.Data)
	}
	s := kit.Decode[domain.Scores](t, kit.Do(t, h, http.MethodGet, "/scores", nil))
	if s.Data.Entries["S"] != 1 {
		t.Fatalf("scores = %+v", s.Data)
	}
}
