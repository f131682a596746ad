// Package middleware adapts chi middleware and hosts the in house ones
// chi types never leak past this package
package middleware

import (
	"net/http"
	"time"

	pnet "sprintly/internal/platform/net"
	pstrings "sprintly/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the stdlib middleware shape
type Middleware = func(http.Handler) http.Handler

// RequestID accepts or mints X-Request-ID and exposes it to the logger
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return chimw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chimw.GetReqID(r.Context())
			w.Header().Set(chimw.RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(pnet.WithRequestID(r.Context(), id)))
		}))
	}
}

// RealIP sets RemoteAddr from X-Forwarded-For or X-Real-IP
func RealIP() Middleware { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// NoCache disables client and proxy caching
func NoCache() Middleware { return chimw.NoCache }

// Compress gzips responses at level
func Compress(level int) Middleware { return chimw.Compress(level) }

// StripSlashes drops a trailing slash from the path
func StripSlashes() Middleware { return chimw.StripSlashes }

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS wraps go-chi/cors; empty lists fall back to the board client's needs
func CORS(o CORSOptions) Middleware {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   pstrings.IfEmpty(o.AllowedOrigins, []string{"*"}),
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, []string{"GET", "POST", "PUT", "OPTIONS"}),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Content-Type", "X-Request-ID"}),
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
