// Package sprint groups an ordered backlog into sprint sized chunks
//
// Partition walks the items once, in order, accumulating points into the current chunk.
// Before admitting the next item it asks whether that item would push the chunk to or past
// the velocity. If so, it compares how far under velocity the chunk sits now with how far
// over it would land after the next item, and closes the chunk only when closing keeps it
// at least as close to velocity. A lone small sprint followed by a heavy one is avoided that way
package sprint

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// noNextScore is the look-ahead score used past the last item
// points + -Inf is never >= a finite velocity, so the look-ahead never closes a chunk on its own
var noNextScore = math.Inf(-1)

// NoNextScore returns the look-ahead score used past the last item (-Inf)
func NoNextScore() float64 { return noNextScore }

var (
	// ErrInvalidVelocity is returned for NaN or infinite velocities
	ErrInvalidVelocity = errors.New("sprint: velocity must be a finite number")

	// ErrUnscoredItem is returned when an item label is missing from the score map under RejectUnscored
	ErrUnscoredItem = errors.New("sprint: item score has no point value")
)

// Scored is anything carrying a sizing label
type Scored interface {
	ScoreLabel() string
}

// Scores resolves a sizing label to points
// *scoremap.Map satisfies it
type Scores interface {
	Lookup(label string) (float64, bool)
}

// UnscoredPolicy decides what happens to labels the score map does not know
type UnscoredPolicy uint8

const (
	// RejectUnscored fails the whole call
	RejectUnscored UnscoredPolicy = iota
	// ZeroUnscored counts the item as zero points
	ZeroUnscored
)

// ParsePolicy maps "reject" or "zero" to a policy
func ParsePolicy(s string) (UnscoredPolicy, error) {
	switch s {
	case "", "reject":
		return RejectUnscored, nil
	case "zero":
		return ZeroUnscored, nil
	default:
		return RejectUnscored, fmt.Errorf("sprint: unknown unscored policy %q", s)
	}
}

func (p UnscoredPolicy) String() string {
	if p == ZeroUnscored {
		return "zero"
	}
	return "reject"
}

// Chunk is one sprint worth of items
// Points is always the sum of the mapped scores of Items
type Chunk[T any] struct {
	Points float64 `json:"points"`
	Items  []T     `json:"items"`
}

// Partitioner holds the injected score lookup and policy
// it keeps no per call state and is safe for concurrent use
type Partitioner struct {
	scores Scores
	policy UnscoredPolicy
}

// Option configures a Partitioner
type Option func(*Partitioner)

// WithPolicy sets the unscored item policy
func WithPolicy(p UnscoredPolicy) Option {
	return func(pt *Partitioner) { pt.policy = p }
}

// New builds a Partitioner over scores
func New(scores Scores, opts ...Option) *Partitioner {
	if scores == nil {
		panic("sprint.New requires a non nil Scores")
	}
	p := &Partitioner{scores: scores}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Policy returns the configured unscored policy
func (p *Partitioner) Policy() UnscoredPolicy { return p.policy }

// Points resolves every item label under the configured policy
func Points[T Scored](p *Partitioner, items []T) ([]float64, error) {
	out := make([]float64, len(items))
	for i, it := range items {
		label := it.ScoreLabel()
		v, ok := p.scores.Lookup(label)
		if !ok {
			if p.policy == RejectUnscored {
				return nil, fmt.Errorf("%w: item %d label %q", ErrUnscoredItem, i, label)
			}
			v = 0
		}
		out[i] = v
	}
	return out, nil
}

// Partition splits items into contiguous chunks whose points approximate velocity
// velocity <= 0 puts every item in its own chunk; empty input yields no chunks
func Partition[T Scored](p *Partitioner, items []T, velocity float64) ([]Chunk[T], error) {
	if math.IsNaN(velocity) || math.IsInf(velocity, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidVelocity, velocity)
	}
	scores, err := Points(p, items)
	if err != nil {
		return nil, err
	}

	spans := split(scores, velocity)
	out := make([]Chunk[T], 0, len(spans))
	for _, s := range spans {
		out = append(out, Chunk[T]{
			Points: s.points,
			Items:  slices.Clone(items[s.start:s.end]),
		})
	}
	return out, nil
}

// span is a half open [start,end) run of item indexes
type span struct {
	start, end int
	points     float64
}

// split folds scores into spans
func split(scores []float64, velocity float64) []span {
	var out []span
	cur := span{}
	last := len(scores) - 1
	for i, s := range scores {
		cur.end = i + 1
		cur.points += s

		next := noNextScore
		if i < last {
			next = scores[i+1]
		}
		if i == last || closes(cur.points, next, velocity) {
			out = append(out, cur)
			cur = span{start: i + 1}
		}
	}
	return out
}

// closes reports whether a chunk holding points should close before admitting next
func closes(points, next, velocity float64) bool {
	projected := points + next
	if !(projected >= velocity) {
		return false
	}
	underage := velocity - points
	overage := projected - velocity
	return underage <= overage
}
