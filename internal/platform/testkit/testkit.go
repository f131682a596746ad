// Package testkit holds assertions and HTTP helpers shared by tests
package testkit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustPanic asserts that fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustNotPanic asserts that fn returns normally
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain asserts that haystack contains needle
// long haystacks are written to a temp file instead of the failure message
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	if len(haystack) < 512 {
		t.Fatalf("expected %q in:\n%s", needle, haystack)
	}
	out := filepath.Join(t.TempDir(), "output.txt")
	_ = os.WriteFile(out, []byte(haystack), 0o600)
	t.Fatalf("expected %q; full output written to %s", needle, out)
}

// Envelope mirrors the API response envelope with a typed data field
type Envelope[T any] struct {
	StatusCode int    `json:"status_code"`
	Code       uint16 `json:"code"`
	Error      string `json:"error"`
	Field      string `json:"field"`
	RequestID  string `json:"request_id"`
	Data       T      `json:"data"`
}

// Do sends a request through h; a non nil body is JSON encoded unless it is already a string
func Do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// Decode parses an envelope from rr and fails the test on malformed JSON
func Decode[T any](t *testing.T, rr *httptest.ResponseRecorder) Envelope[T] {
	t.Helper()
	var env Envelope[T]
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope %q: %v", rr.Body.String(), err)
	}
	return env
}
