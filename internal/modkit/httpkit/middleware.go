package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"sprintly/internal/platform/config"
	"sprintly/internal/platform/net/middleware"
)

// CommonStack returns the baseline middleware for the /api scope
// reads CORS_ORIGINS, REQUEST_TIMEOUT and SLOW_REQUEST under cfg
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,
		middleware.NoCache(),

		middleware.AccessLog(middleware.AccessLogOptions{
			Slow: cfg.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
			Skip: []string{"/api/v1/meta/health"},
		}),

		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
			MaxAge:         300,
		}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second)),
	}
}
