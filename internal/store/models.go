package store

// Record is one logged activity session, with the derived performance
// fields computed at save time.
type Record struct {
	ID        int64
	AccountID string

	Date      string   // calendar day, YYYY-MM-DD, local time of entry
	StartTime string   // HH:MM
	Splits    []string // ordered per-kilometer clock durations

	// Derived at save time, never user-edited.
	TotalDuration int     // seconds
	AveragePace   float64 // seconds per km
	Calories      float64
	PaceDelta     float64 // seconds per km vs the monthly baseline at save time
	Improved      bool

	DistanceKm   float64
	Weather      string
	Condition    string
	TemperatureC float64
	BodyWeightKg float64
	AirQuality   string
	Memo         string
	CoachID      string
}

// Equal reports whether two records have identical content.
// Used to classify merge collisions between the local and remote copies.
func (r Record) Equal(o Record) bool {
	if r.ID != o.ID || r.AccountID != o.AccountID ||
		r.Date != o.Date || r.StartTime != o.StartTime ||
		r.TotalDuration != o.TotalDuration || r.AveragePace != o.AveragePace ||
		r.Calories != o.Calories || r.PaceDelta != o.PaceDelta ||
		r.Improved != o.Improved || r.DistanceKm != o.DistanceKm ||
		r.Weather != o.Weather || r.Condition != o.Condition ||
		r.TemperatureC != o.TemperatureC || r.BodyWeightKg != o.BodyWeightKg ||
		r.AirQuality != o.AirQuality || r.Memo != o.Memo || r.CoachID != o.CoachID {
		return false
	}
	if len(r.Splits) != len(o.Splits) {
		return false
	}
	for i := range r.Splits {
		if r.Splits[i] != o.Splits[i] {
			return false
		}
	}
	return true
}

// AchievementKind distinguishes the two unlock sets.
type AchievementKind string

const (
	KindBadge AchievementKind = "badge"
	KindMedal AchievementKind = "medal"
)
