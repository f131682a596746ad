package testkit

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

var seamValue = 10

func TestPanics(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	MustContain(t, "alpha beta gamma", "beta")
}

func TestSwap_Restores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &seamValue, 99)
		if seamValue != 99 {
			t.Fatalf("seamValue = %d", seamValue)
		}
	})
	if seamValue != 10 {
		t.Fatalf("not restored: %d", seamValue)
	}
}

func TestDoAndDecode(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status_code":200,"data":{"echo":` + strings.TrimSpace(string(b)) + `}}`))
	})

	rr := Do(t, h, http.MethodPost, "/", map[string]int{"n": 3})
	env := Decode[struct {
		Echo map[string]int `json:"echo"`
	}](t, rr)
	if env.StatusCode != 200 || env.Data.Echo["n"] != 3 {
		t.Fatalf("env = %+v", env)
	}

	rr = Do(t, h, http.MethodPost, "/", `"raw"`)
	if !strings.Contains(rr.Body.String(), `"echo":"raw"`) {
		t.Fatalf("raw body = %s", rr.Body.String())
	}
}
