package domain

import (
	"context"

	"sprintly/internal/core/sprint"
)

// Planner is consumed by handlers and by the board module
type Planner interface {
	// Plan partitions items in order; a nil velocity is looked up for productID
	Plan(ctx context.Context, productID string, items []sprint.Scored, velocity *float64) (Plan, error)
	Velocity(ctx context.Context, productID string) (Velocity, error)
	// Points sums item scores under the configured unscored policy
	Points(items []sprint.Scored) (float64, error)
	Scores() Scores
}
