// Package module wires planning into the API using modkit
package module

import (
	"sprintly/internal/core/scoremap"
	"sprintly/internal/core/sprint"
	modkit "sprintly/internal/modkit"
	"sprintly/internal/platform/config"
	"sprintly/internal/platform/logger"
	planhttp "sprintly/internal/services/api/planning/http"
	planrepo "sprintly/internal/services/api/planning/repo"
	plansvc "sprintly/internal/services/api/planning/service"
)

// Module implements the planning module
type Module struct {
	modkit.Base
	svc *plansvc.Svc
}

// Ports is what planning exports to other modules
type Ports struct {
	Planner plansvc.Service
}

// New constructs the planning module
// reads CORE_PLANNING_SCORES, UNSCORED, VELOCITY_WEEKS and DEFAULT_VELOCITY
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("planning"), modkit.WithPrefix("/planning")}, opts...)

	svc := NewService(deps)
	m := &Module{svc: svc}
	m.Base = modkit.NewBase(b, Ports{Planner: svc}, func(r modkit.Router) { planhttp.Register(r, svc) })
	return m
}

// NewService builds the planning service from deps alone, for callers outside the API
func NewService(deps modkit.Deps) *plansvc.Svc {
	cfg := deps.Cfg.Prefix("CORE_PLANNING_")
	scores, part := Partitioner(cfg)

	var r planrepo.Repo
	if deps.CH != nil {
		r = planrepo.NewCH(deps.CH)
	}
	return plansvc.New(r, scores, part, plansvc.Options{
		Weeks:   cfg.MayInt("VELOCITY_WEEKS", 6),
		Default: cfg.MayFloat64("DEFAULT_VELOCITY", 10),
	})
}

// Partitioner loads the score map and unscored policy from cfg; it panics on a bad map
func Partitioner(cfg config.Conf) (*scoremap.Map, *sprint.Partitioner) {
	scores := scoremap.Default()
	if raw := cfg.MayString("SCORES", ""); raw != "" {
		m, err := scoremap.Parse(raw)
		if err != nil {
			logger.Get().Panic().Err(err).Str("key", cfg.Key("SCORES")).Msg("invalid score map")
		}
		scores = m
	}
	policy, _ := sprint.ParsePolicy(cfg.MayEnum("UNSCORED", "reject", "reject", "zero"))
	return scores, sprint.New(scores, sprint.WithPolicy(policy))
}
