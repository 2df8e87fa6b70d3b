package analysis

import (
	"testing"
	"time"

	"stridelog/internal/store"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func recordsOn(dates ...string) []store.Record {
	rs := make([]store.Record, 0, len(dates))
	for i, d := range dates {
		rs = append(rs, store.Record{ID: int64(i + 1), Date: d, DistanceKm: 5, AveragePace: 360})
	}
	return rs
}

func TestComputeStreak(t *testing.T) {
	today := "2026-02-12"

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"empty", nil, 0},
		{"three consecutive ending today", []string{"2026-02-10", "2026-02-11", "2026-02-12"}, 3},
		{"adjacent earlier day extends the run", []string{"2026-02-09", "2026-02-10", "2026-02-11", "2026-02-12"}, 4},
		{"broken by missing day", []string{"2026-02-08", "2026-02-09", "2026-02-11", "2026-02-12"}, 2},
		{"anchored at yesterday", []string{"2026-02-10", "2026-02-11"}, 2},
		{"dead streak two days old", []string{"2026-02-09", "2026-02-10"}, 0},
		{"single day today", []string{"2026-02-12"}, 1},
		{"single day yesterday", []string{"2026-02-11"}, 1},
		{"duplicate records same day count once", []string{"2026-02-11", "2026-02-11", "2026-02-12"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStreak(recordsOn(tt.dates...), day(t, today))
			if got.Count != tt.want {
				t.Errorf("Count = %d, want %d", got.Count, tt.want)
			}
		})
	}
}

func TestComputeStreakScenarioFromHistory(t *testing.T) {
	// Records on 02-10, 02-11, 02-12 with today = 02-12 give a streak of
	// 3; a record behind the first gap never changes the count.
	today := day(t, "2026-02-12")

	base := recordsOn("2026-02-10", "2026-02-11", "2026-02-12")
	if got := ComputeStreak(base, today); got.Count != 3 {
		t.Fatalf("base streak = %d, want 3", got.Count)
	}

	withGap := append(recordsOn("2026-02-07"), base...)
	if got := ComputeStreak(withGap, today); got.Count != 3 {
		t.Errorf("gapped history streak = %d, want 3", got.Count)
	}
}

func TestTotalActiveDays(t *testing.T) {
	records := recordsOn("2026-02-12", "2026-02-12", "2026-02-10", "2019-06-01")

	got := ComputeStreak(records, day(t, "2026-02-12"))
	// 2019-06-01 predates the epoch; 02-12 counts once
	if got.TotalActiveDays != 2 {
		t.Errorf("TotalActiveDays = %d, want 2", got.TotalActiveDays)
	}
}
