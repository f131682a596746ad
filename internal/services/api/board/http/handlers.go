// Package http provides http transport for board columns
package http

import (
	stdhttp "net/http"

	"sprintly/internal/modkit/httpkit"
	"sprintly/internal/modkit/swaggerkit"
	"sprintly/internal/platform/net/http/bind"
	"sprintly/internal/services/api/board/domain"
)

func init() {
	swaggerkit.Register("post", "/api/v1/board/column", swaggerkit.Operation{
		Summary: "One page of a board column", Tags: []string{"Board"}, RequestBody: "domain.ColumnInput",
	})
	swaggerkit.Register("put", "/api/v1/board/preferences", swaggerkit.Operation{
		Summary: "Store the sort for a product column", Tags: []string{"Board"}, RequestBody: "domain.PreferenceInput",
	})
	swaggerkit.Register("get", "/api/v1/board/preferences/{product}/{status}", swaggerkit.Operation{
		Summary: "Stored sort for a product column", Tags: []string{"Board"},
	})
}

// Register mounts board endpoints on the given router
func Register(r httpkit.Router, b domain.Board) {
	h := &handlers{svc: b}

	httpkit.PostJSON[domain.ColumnInput](r, "/column", h.column)
	httpkit.PutJSON[domain.PreferenceInput](r, "/preferences", h.setPreference)
	httpkit.Get(r, "/preferences/{product}/{status}", h.preference)
}

type handlers struct{ svc domain.Board }

func (h *handlers) column(r *stdhttp.Request, in domain.ColumnInput) (any, error) {
	return h.svc.Column(r.Context(), in)
}

func (h *handlers) setPreference(r *stdhttp.Request, in domain.PreferenceInput) (any, error) {
	return h.svc.SetPreference(r.Context(), in)
}

type preferencePath struct {
	ProductID string `json:"product" validate:"required,slug,max=64"`
	Status    string `json:"status" validate:"required,oneof=someday backlog in-progress completed accepted"`
}

func (h *handlers) preference(r *stdhttp.Request) (any, error) {
	in := preferencePath{ProductID: httpkit.Param(r, "product"), Status: httpkit.Param(r, "status")}
	if err := bind.Validate(in); err != nil {
		return nil, err
	}
	return h.svc.Preference(r.Context(), in.ProductID, in.Status)
}
