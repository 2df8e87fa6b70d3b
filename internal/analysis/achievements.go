package analysis

import (
	"math"
	"time"

	"stridelog/internal/store"
)

// Rule is one achievement: an independent boolean predicate over the
// full record set. The evaluator is a full rescan; incremental updates
// are deliberately not attempted.
type Rule struct {
	ID    string
	Kind  store.AchievementKind
	Title string
	// Unlocked decides from the whole history plus the current streak.
	Unlocked func(records []store.Record, streak int, now time.Time) bool
}

// Unlocks holds the achievement ids earned by an evaluation pass.
type Unlocks struct {
	Badges map[string]struct{}
	Medals map[string]struct{}
}

const (
	marathonKm = 42.195
	// paceTolerance is how close to the overall average a session must be
	// to count as a consistent-pace run, in seconds per km.
	paceTolerance = 10.0
)

// Rules is the achievement catalogue. Order is display order.
var Rules = []Rule{
	{
		ID: "rolling_start", Kind: store.KindBadge, Title: "Rolling Start",
		Unlocked: func(rs []store.Record, _ int, _ time.Time) bool {
			return totalDistance(rs) >= 8.8
		},
	},
	{
		ID: "improver", Kind: store.KindBadge, Title: "Improver",
		Unlocked: func(rs []store.Record, _ int, _ time.Time) bool {
			for _, r := range rs {
				if r.Improved {
					return true
				}
			}
			return false
		},
	},
	{
		ID: "double_digit", Kind: store.KindBadge, Title: "Double Digits",
		Unlocked: func(rs []store.Record, _ int, _ time.Time) bool {
			for _, r := range rs {
				if r.DistanceKm >= 10 {
					return true
				}
			}
			return false
		},
	},
	{
		ID: "streak_3", Kind: store.KindBadge, Title: "Three In A Row",
		Unlocked: func(_ []store.Record, streak int, _ time.Time) bool {
			return streak >= 3
		},
	},
	{
		ID: "early_bird", Kind: store.KindBadge, Title: "Early Bird",
		Unlocked: func(rs []store.Record, _ int, _ time.Time) bool {
			return countStartingBefore(rs, "08:00") >= 5
		},
	},
	{
		ID: "night_owl", Kind: store.KindBadge, Title: "Night Owl",
		Unlocked: func(rs []store.Record, _ int, _ time.Time) bool {
			n := 0
			for _, r := range rs {
				if r.StartTime >= "22:00" {
					n++
				}
			}
			return n >= 5
		},
	},
	{
		ID: "weekend_warrior", Kind: store.KindBadge, Title: "Weekend Warrior",
		Unlocked: func(rs []store.Record, _ int, _ time.Time) bool {
			n := 0
			for _, r := range rs {
				d, err := time.Parse(DateLayout, r.Date)
				if err != nil {
					continue
				}
				if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
					n++
				}
			}
			return n >= 8
		},
	},
	{
		ID: "coach_collector", Kind: store.KindBadge, Title: "Coach Collector",
		Unlocked: func(rs []store.Record, _ int, _ time.Time) bool {
			coaches := make(map[string]struct{})
			for _, r := range rs {
				if r.CoachID != "" {
					coaches[r.CoachID] = struct{}{}
				}
			}
			return len(coaches) >= 7
		},
	},
	{
		ID: "century", Kind: store.KindMedal, Title: "Century",
		Unlocked: func(rs []store.Record, _ int, _ time.Time) bool {
			return totalDistance(rs) >= 100
		},
	},
	{
		ID: "marathon", Kind: store.KindMedal, Title: "Full Marathon",
		Unlocked: func(rs []store.Record, _ int, _ time.Time) bool {
			for _, r := range rs {
				if r.DistanceKm >= marathonKm {
					return true
				}
			}
			return false
		},
	},
	{
		ID: "monthly_century", Kind: store.KindMedal, Title: "Rolling Century",
		Unlocked: func(rs []store.Record, _ int, now time.Time) bool {
			cut := now.AddDate(0, 0, -30).Format(DateLayout)
			var sum float64
			for _, r := range rs {
				if r.Date >= cut {
					sum += r.DistanceKm
				}
			}
			return sum >= 100
		},
	},
	{
		ID: "metronome", Kind: store.KindMedal, Title: "Metronome",
		Unlocked: func(rs []store.Record, _ int, _ time.Time) bool {
			avg := WeightedAveragePace(rs)
			if avg == nil {
				return false
			}
			n := 0
			for _, r := range rs {
				if !qualifies(r) {
					continue
				}
				if math.Abs(r.AveragePace-*avg) <= paceTolerance {
					n++
				}
			}
			return n >= 10
		},
	},
}

// Evaluate rescans the full record set against every rule. The result is
// only what this pass earned; the caller unions it with the persisted
// sets, which is what makes unlocks monotonic.
func Evaluate(records []store.Record, streak int, now time.Time) Unlocks {
	u := Unlocks{
		Badges: make(map[string]struct{}),
		Medals: make(map[string]struct{}),
	}
	for _, rule := range Rules {
		if !rule.Unlocked(records, streak, now) {
			continue
		}
		switch rule.Kind {
		case store.KindBadge:
			u.Badges[rule.ID] = struct{}{}
		case store.KindMedal:
			u.Medals[rule.ID] = struct{}{}
		}
	}
	return u
}

func totalDistance(records []store.Record) float64 {
	var sum float64
	for _, r := range records {
		sum += r.DistanceKm
	}
	return sum
}

func countStartingBefore(records []store.Record, clock string) int {
	n := 0
	for _, r := range records {
		if r.StartTime != "" && r.StartTime < clock {
			n++
		}
	}
	return n
}
