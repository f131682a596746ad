// Package api provides the HTTP API for the application
package api

import (
	"sprintly/internal/platform/config"
	"sprintly/internal/platform/logger"
	phttp "sprintly/internal/platform/net/http"
	"sprintly/internal/platform/store"

	"sprintly/internal/modkit"
	"sprintly/internal/modkit/httpkit"
	"sprintly/internal/modkit/module"
	"sprintly/internal/modkit/swaggerkit"

	boardmod "sprintly/internal/services/api/board/module"
	metamod "sprintly/internal/services/api/meta/module"
	plandomain "sprintly/internal/services/api/planning/domain"
	planmod "sprintly/internal/services/api/planning/module"
)

// Options are the API options
type Options struct {
	// Config is the root config; modules pick their own prefixes
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Modules builds the API modules in dependency order
// board is left out when Postgres is disabled
func Modules(opt Options) []module.Module {
	deps := modkit.FromStore(opt.Config, opt.Store)
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// planning owns the Planner port that board consumes
	planning := planmod.New(deps)
	planner := module.MustPortsOf[plandomain.Planner](planning)

	mods := []module.Module{metamod.New(deps), planning}
	if deps.PG != nil {
		mods = append(mods, boardmod.New(deps, modkit.WithPorts(planner)))
	} else {
		deps.Log.Warn().Msg("postgres disabled; board endpoints not mounted")
	}
	return mods
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	mods := Modules(opt)

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Config.Prefix("CORE_API_")), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name for cross-module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}
