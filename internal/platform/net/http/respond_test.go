package http

import (
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "sprintly/internal/platform/errors"
	pnet "sprintly/internal/platform/net"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return env
}

func serve(h stdhttp.HandlerFunc, req *stdhttp.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandle_OK(t *testing.T) {
	req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
	req = req.WithContext(pnet.WithRequestID(req.Context(), "rid-1"))
	rr := serve(Handle(func(*stdhttp.Request) Response { return OK(map[string]int{"n": 1}) }), req)

	env := decode(t, rr)
	if rr.Code != 200 || env.StatusCode != 200 || env.Status != "OK" || env.RequestID != "rid-1" {
		t.Fatalf("env = %+v", env)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestHandle_StatusVariants(t *testing.T) {
	req := httptest.NewRequest(stdhttp.MethodPut, "/", nil)
	if rr := serve(Handle(func(*stdhttp.Request) Response { return Created("x") }), req); rr.Code != 201 {
		t.Fatalf("created = %d", rr.Code)
	}
	rr := serve(Handle(func(*stdhttp.Request) Response { return NoContent() }), req)
	if rr.Code != 204 || rr.Body.Len() != 0 {
		t.Fatalf("no content = %d %q", rr.Code, rr.Body.String())
	}
	rr = serve(Handle(func(*stdhttp.Request) Response {
		return Response{Body: "zero", Header: stdhttp.Header{"X-Total": {"3"}}}
	}), req)
	if rr.Code != 200 || rr.Header().Get("X-Total") != "3" {
		t.Fatalf("zero status = %d headers %v", rr.Code, rr.Header())
	}
}

func TestHandle_Errors(t *testing.T) {
	req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)

	rr := serve(Handle(func(*stdhttp.Request) Response {
		return Error(perr.WithField(perr.InvalidArgf("velocity must be finite"), "velocity"))
	}), req)
	env := decode(t, rr)
	if rr.Code != 422 || env.Code != perr.ErrorCodeInvalidArgument || env.Field != "velocity" || env.Data != nil {
		t.Fatalf("invalid arg env = %d %+v", rr.Code, env)
	}

	rr = serve(Handle(func(*stdhttp.Request) Response { return Error(errors.New("driver: secret")) }), req)
	env = decode(t, rr)
	if rr.Code != 500 || env.Error != "internal error" {
		t.Fatalf("foreign env = %d %+v", rr.Code, env)
	}
}

type in struct {
	Product string `json:"product" validate:"required"`
}

func TestJSONHandler(t *testing.T) {
	h := JSONHandler(func(r *stdhttp.Request, v in) (any, error) {
		if v.Product == "gone" {
			return nil, perr.NotFoundf("product %s", v.Product)
		}
		if v.Product == "new" {
			return Created(v), nil
		}
		return v, nil
	})
	cases := map[string]int{
		`{"product":"a"}`:    200,
		`{"product":"new"}`:  201,
		`{"product":"gone"}`: 404,
		`{}`:                 400,
		`nope`:               400,
	}
	for body, want := range cases {
		rr := serve(h, httptest.NewRequest(stdhttp.MethodPost, "/", strings.NewReader(body)))
		if rr.Code != want {
			t.Fatalf("%s: status %d, want %d", body, rr.Code, want)
		}
	}
}

func TestCallHandler(t *testing.T) {
	h := CallHandler(func(r *stdhttp.Request) (any, error) { return []int{1, 2}, nil })
	rr := serve(h, httptest.NewRequest(stdhttp.MethodGet, "/", nil))
	if rr.Code != 200 || !strings.Contains(rr.Body.String(), `"data":[1,2]`) {
		t.Fatalf("call = %d %s", rr.Code, rr.Body.String())
	}
}
