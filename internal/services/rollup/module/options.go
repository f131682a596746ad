package module

import (
	"time"

	"sprintly/internal/platform/config"
)

// Options for the rollup module
type Options struct {
	Workers      int
	EnableLeases bool
	MaxAttempts  int
	Backoff      time.Duration
}

// FromConfig fills options from environment
// CORE_ROLLUP_WORKERS (default 2) is the number of weeks computed at once
// CORE_ROLLUP_LEASES (default true) takes a week scoped advisory lock around each run
// CORE_ROLLUP_MAX_ATTEMPTS (default 3) and CORE_ROLLUP_BACKOFF (default 250ms) retry transient storage errors
func FromConfig(cfg config.Conf) Options {
	n := cfg.Prefix("CORE_ROLLUP_")
	return Options{
		Workers:      n.MayInt("WORKERS", 2),
		EnableLeases: n.MayBool("LEASES", true),
		MaxAttempts:  n.MayInt("MAX_ATTEMPTS", 3),
		Backoff:      n.MayDuration("BACKOFF", 250*time.Millisecond),
	}
}
