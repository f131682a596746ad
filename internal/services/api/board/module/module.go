// Package module wires board columns into the API using modkit
package module

import (
	"time"

	modkit "sprintly/internal/modkit"
	"sprintly/internal/modkit/repokit"
	boardhttp "sprintly/internal/services/api/board/http"
	boardrepo "sprintly/internal/services/api/board/repo"
	boardsvc "sprintly/internal/services/api/board/service"
	plandomain "sprintly/internal/services/api/planning/domain"
)

// Module implements the board module
type Module struct {
	modkit.Base
	svc *boardsvc.Svc
}

// Ports is what board exports to other modules
type Ports struct {
	Board boardsvc.Service
}

// New constructs the board module; it needs Postgres and the planning ports via modkit.WithPorts
// reads CORE_BOARD_STATEMENT_TIMEOUT
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("board"), modkit.WithPrefix("/board")}, opts...)

	planner, ok := b.Ports.(plandomain.Planner)
	if !ok {
		panic("board module requires planning ports")
	}
	if deps.PG == nil {
		panic("board module requires postgres")
	}

	timeout := deps.Cfg.Prefix("CORE_BOARD_").MayDuration("STATEMENT_TIMEOUT", 5*time.Second)
	db := repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(timeout))
	svc := boardsvc.New(db, boardrepo.NewPG(), planner)

	m := &Module{svc: svc}
	m.Base = modkit.NewBase(b, Ports{Board: svc}, func(r modkit.Router) { boardhttp.Register(r, svc) })
	return m
}
