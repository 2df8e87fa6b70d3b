package analysis

import (
	"sort"
	"time"

	"stridelog/internal/store"
)

// EpochDate is the day the lifetime active-day count starts from.
const EpochDate = "2020-01-01"

// Streak is the consecutive-day state derived from the record set.
type Streak struct {
	Count           int // consecutive days ending today or yesterday
	TotalActiveDays int // distinct days with >=1 record since EpochDate
}

// ComputeStreak walks the distinct activity days backward from today.
// The streak is only alive if the most recent day is today or yesterday;
// otherwise it is 0 regardless of history. A single qualifying day counts
// as a streak of 1.
func ComputeStreak(records []store.Record, today time.Time) Streak {
	seen := make(map[string]struct{})
	for _, r := range records {
		if r.Date == "" {
			continue
		}
		seen[r.Date] = struct{}{}
	}

	var result Streak
	if len(seen) == 0 {
		return result
	}

	days := make([]string, 0, len(seen))
	for d := range seen {
		if d >= EpochDate {
			result.TotalActiveDays++
		}
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	todayStr := today.Format(DateLayout)
	yesterdayStr := today.AddDate(0, 0, -1).Format(DateLayout)
	if days[0] != todayStr && days[0] != yesterdayStr {
		return result
	}

	prev, err := time.Parse(DateLayout, days[0])
	if err != nil {
		return result
	}

	result.Count = 1
	for _, d := range days[1:] {
		cur, err := time.Parse(DateLayout, d)
		if err != nil {
			break
		}
		if prev.Sub(cur) != 24*time.Hour {
			break // first gap ends the streak
		}
		result.Count++
		prev = cur
	}

	return result
}
