package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"sprintly/internal/services/rollup/domain"
)

func TestParseRange(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 9, 10, 14, 0, 0, 0, time.UTC) // Wednesday
	day := func(d int) time.Time { return time.Date(2025, 9, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name         string
		since, until string
		from, to     time.Time
		wantErr      bool
	}{
		{"default last week", "", "", day(1), day(1), false},
		{"single week", "2025-09-03", "", day(1), day(1), false},
		{"range", "2025-09-02", "2025-09-16", day(1), day(15), false},
		{"until without since", "", "2025-09-01", time.Time{}, time.Time{}, true},
		{"bad since", "09/01/2025", "", time.Time{}, time.Time{}, true},
		{"backwards", "2025-09-16", "2025-09-01", time.Time{}, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := parseRange(tt.since, tt.until, now)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !from.Equal(tt.from) || !to.Equal(tt.to) {
				t.Fatalf("range = %v..%v, want %v..%v", from, to, tt.from, tt.to)
			}
		})
	}
}

func TestPrintResults_EmptyIsArray(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := printResults(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("got %q", buf.String())
	}
	buf.Reset()
	if err := printResults(&buf, []domain.WeekResult{{Points: 8, Products: 1}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"points": 8`) {
		t.Fatalf("got %s", buf.String())
	}
}
