package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"stridelog/internal/store"
)

// DateLayout is the calendar-day format used throughout the record set.
const DateLayout = "2006-01-02"

// ParseClock parses a clock-style duration into seconds. It accepts the
// pace notation M'SS" as well as the MM:SS and HH:MM:SS variants used in
// split inputs and imports.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if strings.Contains(s, "'") {
		// M'SS" pace notation
		s = strings.TrimSuffix(s, `"`)
		parts := strings.SplitN(s, "'", 2)
		if len(parts) != 2 {
			return 0, fmt.Errorf("malformed pace %q", s)
		}
		mins, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("malformed pace minutes %q", parts[0])
		}
		secs, err := strconv.Atoi(parts[1])
		if err != nil || secs < 0 || secs > 59 {
			return 0, fmt.Errorf("malformed pace seconds %q", parts[1])
		}
		if mins < 0 {
			return 0, fmt.Errorf("negative pace %q", s)
		}
		return mins*60 + secs, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("malformed duration %q", s)
	}

	total := 0
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("malformed duration %q", s)
		}
		// Minute and second fields must stay under 60
		if i > 0 && v > 59 {
			return 0, fmt.Errorf("malformed duration %q", s)
		}
		total = total*60 + v
	}
	return total, nil
}

// FormatPace renders seconds-per-km in the M'SS" notation.
// FormatPace(ParseClock(x)) round-trips for well-formed M'SS" inputs.
func FormatPace(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d'%02d\"", seconds/60, seconds%60)
}

// FormatDuration renders a duration as H:MM:SS, or M:SS under an hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// PacePerKm returns seconds per km, or 0 for invalid inputs.
func PacePerKm(durationSec int, distanceKm float64) float64 {
	if durationSec <= 0 || distanceKm <= 0 {
		return 0
	}
	return float64(durationSec) / distanceKm
}

// qualifies reports whether a record participates in pace-based
// aggregates. Zero-distance or zero-pace entries are still shown on the
// calendar but never feed statistics.
func qualifies(r store.Record) bool {
	return r.DistanceKm > 0 && r.AveragePace > 0
}

// WeightedAveragePace returns the distance-weighted average pace of the
// qualifying records, or nil when none qualify.
func WeightedAveragePace(records []store.Record) *float64 {
	var weighted, dist float64
	for _, r := range records {
		if !qualifies(r) {
			continue
		}
		weighted += r.AveragePace * r.DistanceKm
		dist += r.DistanceKm
	}
	if dist == 0 {
		return nil
	}
	avg := weighted / dist
	return &avg
}
