package pg

import (
	"context"
	"strings"

	"sprintly/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives statement events
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement at debug, slow ones at warn and failures at error
// it lowers its own level so SQL shows up even when the root logger is at info
func Tracer(root logger.Logger) QueryTracer {
	return &zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	var evt *zerolog.Event
	switch {
	case ev.Err != nil:
		evt = z.log.Error().Err(ev.Err)
	case ev.Slow:
		evt = z.log.Warn()
	default:
		evt = z.log.Debug()
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Int("args", len(ev.Args)).
		Msg("pg query")
}

// compact folds runs of whitespace into one space
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
