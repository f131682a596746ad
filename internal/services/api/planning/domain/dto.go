// Package domain holds the planning DTOs and ports
package domain

import "sprintly/internal/core/sprint"

// Item is a backlog card as the planning endpoint receives it
// only Score feeds the partitioner, the rest rides along
type Item struct {
	Number   int64  `json:"number" validate:"required,gt=0"`
	Score    string `json:"score"`
	Title    string `json:"title,omitempty" validate:"omitempty,max=500"`
	Priority int    `json:"priority,omitempty"`
}

// ScoreLabel satisfies sprint.Scored
func (i Item) ScoreLabel() string { return i.Score }

// SprintsInput is the body of POST /planning/sprints
// Velocity wins over ProductID; one of them is required
type SprintsInput struct {
	Items     []Item   `json:"items" validate:"dive"`
	Velocity  *float64 `json:"velocity,omitempty"`
	ProductID string   `json:"product_id,omitempty" validate:"omitempty,slug,max=64"`
}

// Velocity is the predicted points per sprint for a product
type Velocity struct {
	ProductID string  `json:"product_id"`
	Points    float64 `json:"points"`
	// Weeks is how many weeks of history went into Points, 0 for the default
	Weeks  int    `json:"weeks"`
	Source string `json:"source"`
}

// Velocity sources
const (
	SourceRequest = "request"
	SourceHistory = "history"
	SourceDefault = "default"
)

// Plan is a partitioned backlog placed on the calendar
type Plan struct {
	Velocity float64                        `json:"velocity"`
	Source   string                         `json:"source"`
	Policy   string                         `json:"unscored_policy"`
	Sprints  []sprint.Sprint[sprint.Scored] `json:"sprints"`
}

// Scores is the loaded score map as served to clients
type Scores struct {
	Entries map[string]float64 `json:"entries"`
	Labels  []string           `json:"labels"`
	Policy  string             `json:"unscored_policy"`
}
