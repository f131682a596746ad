package repokit

import (
	"context"
	"fmt"
	"time"
)

// pingTimeout bounds a boot ping when the caller set no deadline
const pingTimeout = 5 * time.Second

// Pinger is any backend that answers a liveness ping
type Pinger interface {
	Ping(context.Context) error
}

// MustPing stops the binary when a required backend is absent or silent
func MustPing(ctx context.Context, name string, p Pinger) {
	if p == nil {
		panic(fmt.Sprintf("%s is not configured", name))
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pingTimeout)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		panic(fmt.Sprintf("%s did not answer: %v", name, err))
	}
}

// MustGuard stops the binary unless every enabled store backend answers
func MustGuard(ctx context.Context, st interface{ Guard(context.Context) error }) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("store backends unreachable: %w", err))
	}
}
