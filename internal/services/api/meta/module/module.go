// Package module wires meta endpoints into the API
package module

import (
	"time"

	modkit "sprintly/internal/modkit"
	metahttp "sprintly/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
}

// New constructs a meta module
// the service name comes from LOG_SERVICE so probes and logs agree
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)

	d := metahttp.Deps{
		ServiceName: deps.Cfg.MayString("LOG_SERVICE", "sprintly-api"),
		StartedAt:   time.Now(),
		Timeout:     deps.Cfg.Prefix("CORE_API_").MayDuration("READY_TIMEOUT", 2*time.Second),
	}
	// a disabled backend stays a nil Pinger
	if p, ok := deps.PG.(metahttp.Pinger); ok && deps.PG != nil {
		d.PG = p
	}
	if deps.CH != nil {
		d.CH = deps.CH
	}
	return &Module{Base: modkit.NewBase(b, nil, func(r modkit.Router) { metahttp.Register(r, d) })}
}
