package sprint

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		// Wednesday
		{time.Date(2025, 9, 3, 15, 4, 5, 0, time.UTC), time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
		// Monday stays put
		{time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
		// Sunday belongs to the week that started six days earlier
		{time.Date(2025, 9, 7, 23, 59, 0, 0, time.UTC), time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
		// across a year boundary
		{time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := WeekStart(tt.in); !got.Equal(tt.want) {
			t.Fatalf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSchedule(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 9, 3, 12, 0, 0, 0, time.UTC)
	chunks := []Chunk[item]{
		{Points: 8, Items: []item{{1, "8"}}},
		{Points: 5, Items: []item{{2, "5"}}},
	}

	got := Schedule(chunks, now)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Label != "8 Sep" || got[1].Label != "15 Sep" {
		t.Fatalf("labels = %q %q", got[0].Label, got[1].Label)
	}
	if !got[0].Open || got[1].Open {
		t.Fatal("only the first sprint should be open")
	}
	if got[1].Index != 1 || got[1].Points != 5 || got[1].Items[0].ID != 2 {
		t.Fatalf("sprint 1 = %+v", got[1])
	}
}

func TestSchedule_Empty(t *testing.T) {
	t.Parallel()
	if got := Schedule[item](nil, time.Now()); len(got) != 0 {
		t.Fatalf("want no sprints, got %d", len(got))
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	s := Summarize(13, time.Date(2025, 9, 5, 8, 0, 0, 0, time.UTC))
	if s.Points != 13 || s.Label != "1 Sep" {
		t.Fatalf("summary = %+v", s)
	}
}
