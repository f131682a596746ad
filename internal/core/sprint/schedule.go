package sprint

import "time"

// LabelLayout renders dates as "2 Jan"
const LabelLayout = "2 Jan"

// Sprint is a chunk placed on the calendar
type Sprint[T any] struct {
	Index int       `json:"index"`
	Start time.Time `json:"start"`
	Label string    `json:"label"`
	Open  bool      `json:"open"`
	Chunk[T]
}

// Summary is the in-progress column header: points in flight this week
type Summary struct {
	Points float64   `json:"points"`
	Start  time.Time `json:"start"`
	Label  string    `json:"label"`
}

// WeekStart returns Monday 00:00 of the ISO week holding t, in t's location
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// Schedule assigns weekly start dates to chunks
// the backlog starts next week, so chunk i begins i+1 weeks after the current week start
// the first sprint is flagged open
func Schedule[T any](chunks []Chunk[T], now time.Time) []Sprint[T] {
	base := WeekStart(now)
	out := make([]Sprint[T], 0, len(chunks))
	for i, c := range chunks {
		start := base.AddDate(0, 0, 7*(i+1))
		out = append(out, Sprint[T]{
			Index: i,
			Start: start,
			Label: start.Format(LabelLayout),
			Open:  i == 0,
			Chunk: c,
		})
	}
	return out
}

// Summarize builds the in-progress summary for the current week
func Summarize(points float64, now time.Time) Summary {
	start := WeekStart(now)
	return Summary{Points: points, Start: start, Label: start.Format(LabelLayout)}
}
