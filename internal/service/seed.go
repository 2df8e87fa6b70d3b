package service

import (
	"time"

	"stridelog/internal/analysis"
	"stridelog/internal/store"
)

// seedRecords is the starter dataset shown when there is no remote and
// no cache: a first launch with the network down still renders a real
// dashboard instead of an empty screen.
func seedRecords(now time.Time) []store.Record {
	seeds := []struct {
		id       int64
		daysAgo  int
		start    string
		splits   []string
		distance float64
		weather  string
		memo     string
	}{
		{1, 1, "07:10", []string{"5'50\"", "5'42\"", "5'38\""}, 3, "sunny", "easy shakeout"},
		{2, 3, "18:30", []string{"5'30\"", "5'25\"", "5'20\"", "5'15\"", "5'10\""}, 5, "cloudy", "negative splits"},
		{3, 6, "08:00", []string{"6'05\"", "6'00\"", "5'55\"", "5'58\""}, 4, "rain", ""},
	}

	records := make([]store.Record, 0, len(seeds))
	for _, s := range seeds {
		total := 0
		for _, sp := range s.splits {
			sec, err := analysis.ParseClock(sp)
			if err != nil {
				continue
			}
			total += sec
		}
		records = append(records, store.Record{
			ID:            s.id,
			Date:          now.AddDate(0, 0, -s.daysAgo).Format(analysis.DateLayout),
			StartTime:     s.start,
			Splits:        s.splits,
			TotalDuration: total,
			AveragePace:   analysis.PacePerKm(total, s.distance),
			DistanceKm:    s.distance,
			Weather:       s.weather,
			Memo:          s.memo,
		})
	}
	sortRecords(records)
	return records
}
