package modkit

import (
	"net/http"

	"sprintly/internal/modkit/module"
	phttp "sprintly/internal/platform/net/http"
	str "sprintly/internal/platform/strings"
)

// Router is the platform router seam
type Router = phttp.Router

// Module is the contract every API module satisfies
type Module = module.Module

// Built is the resolved option set
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register []func(Router)
}

// Build applies defaults first and opts after them
func Build(defaults []Option, opts ...Option) Built {
	var c buildCfg
	for _, o := range append(defaults, opts...) {
		o(&c)
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Base implements Module for anything that can register routes
// modules embed it and set Ports to what they export
type Base struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	routes []func(Router)
	ports  any
}

// NewBase builds a Base; routes runs first, then any WithRegister extras
// panics without a name or prefix
func NewBase(b Built, ports any, routes func(Router)) Base {
	if b.Name == "" {
		panic("modkit: module name is required")
	}
	return Base{
		name:   b.Name,
		prefix: str.MustPrefix(b.Prefix),
		mw:     b.Mw,
		routes: append([]func(Router){routes}, b.Register...),
		ports:  ports,
	}
}

// MountRoutes mounts the module under its prefix with its middleware
func (m Base) MountRoutes(r Router) {
	r.Route(m.prefix, func(rr Router) {
		if len(m.mw) > 0 {
			rr.Use(m.mw...)
		}
		for _, fn := range m.routes {
			fn(rr)
		}
	})
}

// Name returns the module name
func (m Base) Name() string { return m.name }

// Prefix returns the mount prefix
func (m Base) Prefix() string { return m.prefix }

// Ports returns the exported port set
func (m Base) Ports() any { return m.ports }
