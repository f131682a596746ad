// Package logger wraps zerolog with process defaults and request scoped children
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sprintly/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project wide logging type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level        string
	Format       string // console or json
	Service      string
	Writer       io.Writer
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_CALLER and LOG_SAMPLE_EVERY
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(rc.Get("LEVEL", "info")),
		Format:      strings.ToLower(rc.Get("FORMAT", "console")),
		Service:     rc.Get("SERVICE", "sprintly"),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Init builds the root logger; only the first call has any effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var w io.Writer = os.Stdout
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format == "console" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}

		b := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			b = b.Str("go_version", bi.GoVersion)
		}
		if opt.Service != "" {
			b = b.Str("service", opt.Service)
		}
		for k, v := range opt.StaticFields {
			b = b.Str(k, v)
		}
		if opt.WithCaller {
			b = b.Caller()
		}

		log := b.Logger()
		if opt.SampleEvery > 1 {
			log = log.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
		}
		root.Store(&log)
	})
}

// Get returns the root logger, initializing from env on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// parseLevel accepts zerolog level names plus "warning"; anything else is info
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

type ctxKey struct{ name string }

var (
	keyRequestID = ctxKey{"request_id"}
	keyProductID = ctxKey{"product_id"}
)

// WithRequest annotates ctx with the request id and the product being worked on
func WithRequest(ctx context.Context, reqID, productID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	if productID != "" {
		ctx = context.WithValue(ctx, keyProductID, productID)
	}
	return ctx
}

// C returns a child of the root logger carrying request_id and product_id from ctx
func C(ctx context.Context) *Logger {
	b := Get().With()
	for _, k := range []ctxKey{keyRequestID, keyProductID} {
		if s, ok := ctx.Value(k).(string); ok && s != "" {
			b = b.Str(k.name, s)
		}
	}
	ll := b.Logger()
	return &ll
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}
