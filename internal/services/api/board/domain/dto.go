// Package domain holds the board column DTOs and ports
package domain

import (
	"time"

	"sprintly/internal/core/sprint"
)

// Column statuses in board order
const (
	StatusSomeday    = "someday"
	StatusBacklog    = "backlog"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusAccepted   = "accepted"
)

// Sort fields
const (
	SortLastModified = "last_modified"
	SortPriority     = "priority"
	SortCreated      = "created"
	SortScore        = "score"
	SortNumber       = "number"
)

// Sort directions
const (
	Asc  = "asc"
	Desc = "desc"
)

// Paging bounds
const (
	DefaultLimit = 25
	MaxLimit     = 100
	MaxOffset    = 10000
)

// Item is a board card
type Item struct {
	Number       int64     `json:"number"`
	ProductID    string    `json:"product_id"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	Type         string    `json:"type"`
	Score        string    `json:"score"`
	Priority     int       `json:"priority"`
	AssignedTo   string    `json:"assigned_to,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	Tags         []string  `json:"tags"`
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"last_modified"`
}

// ScoreLabel satisfies sprint.Scored
func (i Item) ScoreLabel() string { return i.Score }

// Filters narrow a column; blank fields match everything and Tags match any of
type Filters struct {
	AssignedTo string   `json:"assigned_to,omitempty" validate:"omitempty,max=128"`
	CreatedBy  string   `json:"created_by,omitempty" validate:"omitempty,max=128"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=64"`
	Type       string   `json:"type,omitempty" validate:"omitempty,oneof=story task defect test"`
}

// ColumnInput is the body of POST /board/column
type ColumnInput struct {
	ProductID     string  `json:"product_id" validate:"required,slug,max=64"`
	Status        string  `json:"status" validate:"required,oneof=someday backlog in-progress completed accepted"`
	SortField     string  `json:"sort_field,omitempty" validate:"omitempty,oneof=last_modified priority created score number"`
	SortDirection string  `json:"sort_direction,omitempty" validate:"omitempty,oneof=asc desc"`
	Offset        int     `json:"offset,omitempty" validate:"gte=0,lte=10000"`
	Limit         int     `json:"limit,omitempty" validate:"gte=0,lte=100"`
	Filters       Filters `json:"filters"`
}

// Column is one page of a board column
// Sprints covers every item up to the end of this page so groupings stay put across pages
type Column struct {
	Status        string                         `json:"status"`
	SortField     string                         `json:"sort_field"`
	SortDirection string                         `json:"sort_direction"`
	Items         []Item                         `json:"items"`
	HasMore       bool                           `json:"has_more"`
	Summary       *sprint.Summary                `json:"summary,omitempty"`
	Sprints       []sprint.Sprint[sprint.Scored] `json:"sprints,omitempty"`
	Velocity      *float64                       `json:"velocity,omitempty"`
	// GroupingError is set when sprints or the summary could not be computed; Items are still served
	GroupingError string                         `json:"grouping_error,omitempty"`
}

// PreferenceInput is the body of PUT /board/preferences
type PreferenceInput struct {
	ProductID     string `json:"product_id" validate:"required,slug,max=64"`
	Status        string `json:"status" validate:"required,oneof=someday backlog in-progress completed accepted"`
	SortField     string `json:"sort_field" validate:"required,oneof=last_modified priority created score number"`
	SortDirection string `json:"sort_direction,omitempty" validate:"omitempty,oneof=asc desc"`
}

// Preference is the stored sort for a product column
type Preference struct {
	ProductID     string    `json:"product_id"`
	Status        string    `json:"status"`
	SortField     string    `json:"sort_field"`
	SortDirection string    `json:"sort_direction"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListQuery is the resolved read the repo runs
type ListQuery struct {
	ProductID string
	Status    string
	SortField string
	Direction string
	Filters   Filters
	// ScoreOrder ranks labels for SortScore, lowest points first
	ScoreOrder []string
	Offset     int
	Limit      int
}
