// Package module wires the weekly rollup as a modkit.Module
package module

import (
	"sprintly/internal/modkit"
	"sprintly/internal/modkit/httpkit"
	planmodule "sprintly/internal/services/api/planning/module"
	"sprintly/internal/services/rollup/domain"
	"sprintly/internal/services/rollup/guardrails"
	rollrepo "sprintly/internal/services/rollup/repo"
	rollsvc "sprintly/internal/services/rollup/service"
)

// Ports exported by the rollup module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module for the rollup
type Module struct {
	ports Ports
}

// New wires the rollup from deps; it needs both Postgres and ClickHouse
// the score map comes from the same CORE_PLANNING_* keys the API uses
func New(deps modkit.Deps, opts Options) *Module {
	if deps.PG == nil || deps.CH == nil {
		panic("rollup module requires postgres and clickhouse")
	}
	scores, _ := planmodule.Partitioner(deps.Cfg.Prefix("CORE_PLANNING_"))

	svc := rollsvc.New(
		deps.PG,
		rollrepo.NewPG(),
		rollrepo.NewCH(deps.CH),
		scores,
		rollsvc.Config{
			Workers:      opts.Workers,
			EnableLeases: opts.EnableLeases,
			MaxAttempts:  opts.MaxAttempts,
			Backoff:      opts.Backoff,
		},
		guardrails.MakeWeekLease(deps.PG),
	)
	return &Module{ports: Ports{Runner: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "rollup" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Runner returns the rollup entrypoint
func (m *Module) Runner() domain.RunnerPort { return m.ports.Runner }

// MountRoutes is a no-op: the rollup has no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
