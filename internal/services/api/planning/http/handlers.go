// Package http provides http transport for planning
package http

import (
	stdhttp "net/http"

	"sprintly/internal/core/sprint"
	"sprintly/internal/modkit/httpkit"
	"sprintly/internal/modkit/swaggerkit"
	"sprintly/internal/services/api/planning/domain"
)

func init() {
	swaggerkit.Register("post", "/api/v1/planning/sprints", swaggerkit.Operation{
		Summary: "Partition an ordered backlog into sprints", Tags: []string{"Planning"}, RequestBody: "domain.SprintsInput",
	})
	swaggerkit.Register("get", "/api/v1/planning/velocity/{product}", swaggerkit.Operation{
		Summary: "Rolling average velocity for a product", Tags: []string{"Planning"},
	})
	swaggerkit.Register("get", "/api/v1/planning/scores", swaggerkit.Operation{
		Summary: "Loaded score map", Tags: []string{"Planning"},
	})
}

// Register mounts planning endpoints on the given router
func Register(r httpkit.Router, p domain.Planner) {
	h := &handlers{svc: p}

	httpkit.PostJSON[domain.SprintsInput](r, "/sprints", h.sprints)
	httpkit.Get(r, "/velocity/{product}", h.velocity)
	httpkit.Get(r, "/scores", h.scores)
}

type handlers struct{ svc domain.Planner }

func (h *handlers) sprints(r *stdhttp.Request, in domain.SprintsInput) (any, error) {
	items := make([]sprint.Scored, len(in.Items))
	for i, it := range in.Items {
		items[i] = it
	}
	return h.svc.Plan(r.Context(), in.ProductID, items, in.Velocity)
}

func (h *handlers) velocity(r *stdhttp.Request) (any, error) {
	return h.svc.Velocity(r.Context(), httpkit.Param(r, "product"))
}

func (h *handlers) scores(_ *stdhttp.Request) (any, error) {
	return h.svc.Scores(), nil
}
