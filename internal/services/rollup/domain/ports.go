// Package domain defines the weekly rollup ports and types
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunnerPort is the public entrypoint of the rollup
// operators call it from cmd/sprintly-rollup
type RunnerPort interface {
	// RunWeek recomputes one ISO week, replacing whatever the sink held for it
	RunWeek(ctx context.Context, week time.Time) (WeekResult, error)

	// RunRange runs every week from the week of from to the week of to, inclusive
	RunRange(ctx context.Context, from, to time.Time) ([]WeekResult, error)
}

// Source reads accepted work from the board store
type Source interface {
	// Products lists every product that has items
	Products(ctx context.Context) ([]string, error)

	// Accepted lists items accepted in [from, to)
	Accepted(ctx context.Context, from, to time.Time) ([]Accepted, error)
}

// Sink stores weekly throughput
type Sink interface {
	// ReplaceWeek swaps the rows of one week for rows
	ReplaceWeek(ctx context.Context, week time.Time, rows []WeekRow) error
}

// Accepted is one item accepted within the week
type Accepted struct {
	ProductID string
	Number    int64
	Score     string
}

// WeekRow is one product's throughput for one week
type WeekRow struct {
	Week       time.Time
	ProductID  string
	Points     float64
	Items      uint32
	Unscored   uint32
	RunID      uuid.UUID
	ComputedAt time.Time
}

// WeekResult summarizes one RunWeek; Skipped is set when another worker held the week
type WeekResult struct {
	Week     time.Time `json:"week"`
	RunID    uuid.UUID `json:"run_id"`
	Products int       `json:"products"`
	Items    int       `json:"items"`
	Points   float64   `json:"points"`
	Skipped  bool      `json:"skipped,omitempty"`
}
