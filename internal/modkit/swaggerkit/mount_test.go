package swaggerkit

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "sprintly/internal/platform/net/http"
	kit "sprintly/internal/platform/testkit"
)

func TestMount_ServesRegisteredPaths(t *testing.T) {
	Register("post", "/api/v1/test/things", Operation{Summary: "make a thing", Tags: []string{"test"}, RequestBody: "thing"})

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), true)

	rr := kit.Do(t, mux, http.MethodGet, "/api/docs/doc.json", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var doc struct {
		Info  map[string]string                    `json:"info"`
		Paths map[string]map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Info["title"] != "sprintly API" {
		t.Fatalf("title = %q", doc.Info["title"])
	}
	op := doc.Paths["/api/v1/test/things"]["post"]
	if op["summary"] != "make a thing" || op["requestBody"] == nil {
		t.Fatalf("op = %v", op)
	}

	if rr := kit.Do(t, mux, http.MethodGet, "/api/docs", nil); rr.Code != http.StatusPermanentRedirect {
		t.Fatalf("redirect status = %d", rr.Code)
	}
}

func TestMount_Disabled(t *testing.T) {
	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), false)
	if rr := kit.Do(t, mux, http.MethodGet, "/api/docs/doc.json", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}
