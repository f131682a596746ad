package swaggerkit

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"

	"sprintly/internal/core/version"
)

// Operation is the subset of an OpenAPI operation the modules describe
type Operation struct {
	Summary     string   `json:"summary"`
	Tags        []string `json:"tags,omitempty"`
	RequestBody string   `json:"-"`
}

var (
	mu    sync.RWMutex
	paths = map[string]map[string]Operation{}
)

// Register adds an operation under path and lower case method
// modules call it from init next to their route table
func Register(method, path string, op Operation) {
	mu.Lock()
	defer mu.Unlock()
	if paths[path] == nil {
		paths[path] = map[string]Operation{}
	}
	paths[path][method] = op
}

type document struct {
	OpenAPI string                                `json:"openapi"`
	Info    map[string]string                     `json:"info"`
	Paths   map[string]map[string]operationOutput `json:"paths"`
}

type operationOutput struct {
	Summary     string              `json:"summary"`
	Tags        []string            `json:"tags,omitempty"`
	RequestBody map[string]any      `json:"requestBody,omitempty"`
	Responses   map[string]response `json:"responses"`
}

type response struct {
	Description string `json:"description"`
}

// Document renders the registered operations as an OpenAPI 3 document
func Document() []byte {
	mu.RLock()
	defer mu.RUnlock()
	doc := document{
		OpenAPI: "3.0.3",
		Info:    map[string]string{"title": "sprintly API", "version": version.Version},
		Paths:   make(map[string]map[string]operationOutput, len(paths)),
	}
	keys := make([]string, 0, len(paths))
	for p := range paths {
		keys = append(keys, p)
	}
	sort.Strings(keys)
	for _, p := range keys {
		ops := make(map[string]operationOutput, len(paths[p]))
		for m, op := range paths[p] {
			out := operationOutput{
				Summary:   op.Summary,
				Tags:      op.Tags,
				Responses: map[string]response{"200": {Description: "envelope"}},
			}
			if op.RequestBody != "" {
				out.RequestBody = map[string]any{
					"description": op.RequestBody,
					"content":     map[string]any{"application/json": map[string]any{}},
				}
			}
			ops[m] = out
		}
		doc.Paths[p] = ops
	}
	b, _ := json.Marshal(doc)
	return b
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(Document())
	}
}
