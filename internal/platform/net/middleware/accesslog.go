package middleware

import (
	"net/http"
	"time"

	"sprintly/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLogOptions configures the access log
type AccessLogOptions struct {
	// Slow logs requests at warn level once they take this long; 0 disables it
	Slow time.Duration
	// Skip lists paths that are never logged, e.g. probes
	Skip []string
}

// AccessLog writes one zerolog line per request with status, size and latency
func AccessLog(opt AccessLogOptions) Middleware {
	skip := make(map[string]struct{}, len(opt.Skip))
	for _, p := range opt.Skip {
		skip[p] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.C(r.Context())
			evt := log.Info()
			switch {
			case status >= http.StatusInternalServerError:
				evt = log.Error()
			case opt.Slow > 0 && elapsed >= opt.Slow:
				evt = log.Warn().Bool("slow", true)
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", elapsed).
				Msg("request")
		})
	}
}
