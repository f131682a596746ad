// Package scoremap maps symbolic sizing labels (S, M, L, XL, ~) to point values
// The map is built once at startup and is read-only afterwards so it can be shared
// across goroutines without locking
package scoremap

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"
)

// Unscored is the label an item carries before anyone has sized it
const Unscored = "~"

// ErrInvalidPoints is returned when a label maps to a negative or non-finite value
var ErrInvalidPoints = errors.New("scoremap: points must be finite and non-negative")

// ErrInvalidEntry is returned by Parse for malformed label:points pairs
var ErrInvalidEntry = errors.New("scoremap: invalid entry")

// Map is an immutable label -> points lookup
type Map struct {
	points map[string]float64
}

// upper is safe for concurrent use once constructed
var upper = cases.Upper(language.Und)

// Normalize folds a label into its lookup key
// full width forms fold to ASCII, surrounding space is trimmed, letters are upper cased
func Normalize(label string) string {
	s := strings.TrimSpace(width.Fold.String(label))
	return upper.String(s)
}

// New copies in into a new Map, rejecting invalid point values
// and labels that normalize to the same key
func New(in map[string]float64) (*Map, error) {
	m := &Map{points: make(map[string]float64, len(in))}
	for label, v := range in {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%w: %q=%v", ErrInvalidPoints, label, v)
		}
		key := Normalize(label)
		if key == "" {
			return nil, fmt.Errorf("%w: empty label", ErrInvalidEntry)
		}
		if _, dup := m.points[key]; dup {
			return nil, fmt.Errorf("%w: %q collides with another label as %q", ErrInvalidEntry, label, key)
		}
		m.points[key] = v
	}
	return m, nil
}

// Default returns the sizing table used by the board: ~ 0, S 1, M 3, L 5, XL 8
func Default() *Map {
	m, _ := New(map[string]float64{
		Unscored: 0,
		"S":      1,
		"M":      3,
		"L":      5,
		"XL":     8,
	})
	return m
}

// Parse builds a Map from a comma separated list like "~:0,S:1,M:3"
// "=" is accepted as a separator too so env values read naturally either way
func Parse(csv string) (*Map, error) {
	in := map[string]float64{}
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i := strings.IndexAny(part, ":=")
		if i <= 0 || i == len(part)-1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEntry, part)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(part[i+1:]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidEntry, part, err)
		}
		label := part[:i]
		if _, dup := in[label]; dup {
			return nil, fmt.Errorf("%w: %q listed twice", ErrInvalidEntry, label)
		}
		in[label] = v
	}
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidEntry)
	}
	return New(in)
}

// Lookup returns the points for label and whether the label is mapped
func (m *Map) Lookup(label string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.points[Normalize(label)]
	return v, ok
}

// Total sums the points for labels; unmapped labels are reported back rather than counted
func (m *Map) Total(labels ...string) (total float64, unmapped []string) {
	for _, l := range labels {
		v, ok := m.Lookup(l)
		if !ok {
			unmapped = append(unmapped, l)
			continue
		}
		total += v
	}
	return total, unmapped
}

// Labels returns the mapped labels ordered by points then name
func (m *Map) Labels() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.points))
	for k := range m.points {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := m.points[out[i]], m.points[out[j]]
		if pi != pj {
			return pi < pj
		}
		return out[i] < out[j]
	})
	return out
}

// Entries returns a copy of the table for display
func (m *Map) Entries() map[string]float64 {
	out := make(map[string]float64, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.points {
		out[k] = v
	}
	return out
}

// Len reports how many labels are mapped
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.points)
}

// String renders the map in Parse format
func (m *Map) String() string {
	labels := m.Labels()
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, l+":"+strconv.FormatFloat(m.points[l], 'f', -1, 64))
	}
	return strings.Join(parts, ",")
}
