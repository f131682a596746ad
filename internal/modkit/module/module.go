// Package module defines the module contract and cross module port lookup
package module

import phttp "sprintly/internal/platform/net/http"

// Module is what the API composes
// it lives apart from modkit so a module can export ports without an import knot
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
