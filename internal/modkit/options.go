package modkit

import "net/http"

// Option mutates build configuration for a module
type Option func(*buildCfg)

type buildCfg struct {
	name     string
	prefix   string
	mw       []func(http.Handler) http.Handler
	ports    any
	register []func(Router)
}

// WithName sets the module name used in logs and the registry
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix mounts the module under a path prefix
func WithPrefix(prefix string) Option {
	return func(c *buildCfg) { c.prefix = prefix }
}

// WithMiddlewares appends per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts injects ports owned by another module; the importing module defines T
func WithPorts[T any](p T) Option {
	return func(c *buildCfg) { c.ports = p }
}

// WithRegister adds extra endpoints to the module router after its own
func WithRegister(fn func(Router)) Option {
	return func(c *buildCfg) { c.register = append(c.register, fn) }
}
