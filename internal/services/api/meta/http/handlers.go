// Package http provides meta endpoints
package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"sprintly/internal/core/version"
	"sprintly/internal/modkit/httpkit"
	"sprintly/internal/modkit/swaggerkit"
)

func init() {
	for path, summary := range map[string]string{
		"/api/v1/meta/health":  "Liveness",
		"/api/v1/meta/ready":   "Readiness with dependency checks",
		"/api/v1/meta/version": "Build and version info",
		"/api/v1/meta/service": "Service info and uptime",
	} {
		swaggerkit.Register("get", path, swaggerkit.Operation{Summary: summary, Tags: []string{"Meta"}})
	}
}

// Pinger is satisfied by store backends
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies; a nil backend is reported as skipped
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          Pinger
	CH          Pinger
	Timeout     time.Duration
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Now     string `json:"now"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail skipped
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

func (h *handlers) health(_ *stdhttp.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.deps.ServiceName, Now: time.Now().UTC().Format(time.RFC3339)}, nil
}

func (h *handlers) ready(r *stdhttp.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.Timeout)
	defer cancel()

	check := func(name string, p Pinger) ReadyCheck {
		if p == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if err := p.Ping(ctx); err != nil {
			return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
		}
		return ReadyCheck{Name: name, Status: "ok"}
	}

	out := ReadyResponse{
		Status: "ok",
		Checks: []ReadyCheck{check("pg", h.deps.PG), check("ch", h.deps.CH)},
		Now:    time.Now().UTC().Format(time.RFC3339),
	}
	for _, c := range out.Checks {
		if c.Status == "fail" {
			out.Status = "fail"
			return httpkit.Response{Status: stdhttp.StatusServiceUnavailable, Body: out}, nil
		}
	}
	return out, nil
}

func (h *handlers) version(_ *stdhttp.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

func (h *handlers) service(_ *stdhttp.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}
