package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"time"

	"sprintly/internal/platform/config"
	"sprintly/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the chi mux and the stdlib server in front of it
type Server struct {
	mux   *chi.Mux
	srv   *stdhttp.Server
	grace time.Duration
}

// NewServer reads PORT, READ_TIMEOUT, WRITE_TIMEOUT, IDLE_TIMEOUT and SHUTDOWN_GRACE from cfg
// opts receive the mux so callers can mount routes and middleware
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		mux:   m,
		grace: cfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
		srv: &stdhttp.Server{
			Addr:              cfg.MayString("PORT", ":4000"),
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.MayDuration("READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      cfg.MayDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       cfg.MayDuration("IDLE_TIMEOUT", 60*time.Second),
		},
	}
}

// Router returns the Router facade over the mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the configured listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Run listens on the configured address until ctx is done
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then drains in-flight requests for the grace period
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := logger.Named("http")
	log.Info().Str("addr", ln.Addr().String()).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("grace", s.grace).Msg("http shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}
