package modkit

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"sprintly/internal/modkit/module"
	phttp "sprintly/internal/platform/net/http"
	kit "sprintly/internal/platform/testkit"
)

type greeter interface{ Greet() string }

type hello struct{}

func (hello) Greet() string { return "hi" }

type ports struct {
	Greeter greeter
	private greeter
}

func build(opts ...Option) Base {
	b := Build([]Option{WithName("demo"), WithPrefix("demo")}, opts...)
	return NewBase(b, ports{Greeter: hello{}}, func(r Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("pong")) })
	})
}

func TestBuild_OptsOverrideDefaults(t *testing.T) {
	t.Parallel()
	b := Build([]Option{WithName("a"), WithPrefix("/a")}, WithPrefix("/b"), WithPorts(42))
	if b.Name != "a" || b.Prefix != "/b" || b.Ports != 42 {
		t.Fatalf("built = %+v", b)
	}
}

func TestBase_MountRoutes(t *testing.T) {
	t.Parallel()
	var hits int
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			next.ServeHTTP(w, r)
		})
	}
	extra := WithRegister(func(r Router) {
		r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	})
	m := build(WithMiddlewares(mw), extra)

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	if rr := kit.Do(t, mux, http.MethodGet, "/demo/ping", nil); rr.Body.String() != "pong" {
		t.Fatalf("ping body = %q", rr.Body.String())
	}
	if rr := kit.Do(t, mux, http.MethodGet, "/demo/extra", nil); rr.Code != http.StatusTeapot {
		t.Fatalf("extra status = %d", rr.Code)
	}
	if hits != 2 {
		t.Fatalf("middleware hits = %d, want 2", hits)
	}
	if m.Name() != "demo" || m.Prefix() != "/demo" {
		t.Fatalf("name/prefix = %q %q", m.Name(), m.Prefix())
	}
}

func TestNewBase_Panics(t *testing.T) {
	t.Parallel()
	kit.MustPanic(t, func() { NewBase(Build(nil, WithPrefix("/x")), nil, func(Router) {}) })
	kit.MustPanic(t, func() { NewBase(Build(nil, WithName("x")), nil, func(Router) {}) })
}

func TestPortsOf(t *testing.T) {
	t.Parallel()
	var m Module = build()
	g, ok := module.PortsOf[greeter](m)
	if !ok || g.Greet() != "hi" {
		t.Fatalf("PortsOf greeter = %v %v", g, ok)
	}
	if _, ok := module.PortsOf[error](m); ok {
		t.Fatal("unexpected error port")
	}
	kit.MustPanic(t, func() { _ = module.MustPortsOf[error](m) })
}

func TestFromStore_NilStore(t *testing.T) {
	t.Parallel()
	d := FromStore(Deps{}.Cfg, nil)
	if d.PG != nil || d.CH != nil {
		t.Fatalf("deps = %+v", d)
	}
}
