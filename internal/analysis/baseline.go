package analysis

import (
	"time"

	"stridelog/internal/store"
)

// Baselines are the rolling reference paces consumed by the coaching
// layer, in seconds per km. A nil field means the window had no
// qualifying records; consumers must treat that as insufficient data,
// never as zero.
type Baselines struct {
	FastestOfMonth *float64
	PriorDay       *float64
	MonthlyAverage *float64
	WeeklyAverage  *float64
	WorstOfWeek    *float64
}

// ComputeBaselines derives the five baselines from the record set.
// "Month" is a calendar month back from now, "week" is seven days back.
// Monthly and weekly averages are distance-weighted, not a mean of
// per-session paces.
func ComputeBaselines(records []store.Record, now time.Time) Baselines {
	monthCut := now.AddDate(0, -1, 0).Format(DateLayout)
	weekCut := now.AddDate(0, 0, -7).Format(DateLayout)
	priorDate := now.AddDate(0, 0, -1).Format(DateLayout)

	var b Baselines
	var month, week []store.Record

	for _, r := range records {
		if !qualifies(r) {
			continue
		}
		if r.Date >= monthCut {
			month = append(month, r)
		}
		if r.Date >= weekCut {
			week = append(week, r)
		}
	}

	for _, r := range month {
		if b.FastestOfMonth == nil || r.AveragePace < *b.FastestOfMonth {
			pace := r.AveragePace
			b.FastestOfMonth = &pace
		}
	}
	for _, r := range week {
		if b.WorstOfWeek == nil || r.AveragePace > *b.WorstOfWeek {
			pace := r.AveragePace
			b.WorstOfWeek = &pace
		}
	}

	b.MonthlyAverage = WeightedAveragePace(month)
	b.WeeklyAverage = WeightedAveragePace(week)

	// Prior day: the pace run exactly one day ago, falling back to the
	// most recent session overall. Records arrive date-descending, so the
	// first qualifying match is the newest.
	var latest *float64
	for _, r := range records {
		if !qualifies(r) {
			continue
		}
		if latest == nil {
			pace := r.AveragePace
			latest = &pace
		}
		if r.Date == priorDate {
			pace := r.AveragePace
			b.PriorDay = &pace
			break
		}
	}
	if b.PriorDay == nil {
		b.PriorDay = latest
	}

	return b
}
