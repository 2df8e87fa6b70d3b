package remote

import "stridelog/internal/store"

// Record is the wire shape of one activity record in the remote store.
type Record struct {
	ID            int64    `json:"id"`
	AccountID     string   `json:"account_id"`
	Date          string   `json:"date"`
	StartTime     string   `json:"start_time"`
	Splits        []string `json:"splits"`
	TotalDuration int      `json:"total_duration"`
	AveragePace   float64  `json:"average_pace"`
	Calories      float64  `json:"calories,omitempty"`
	PaceDelta     float64  `json:"pace_delta,omitempty"`
	Improved      bool     `json:"improved,omitempty"`
	DistanceKm    float64  `json:"distance_km"`
	Weather       string   `json:"weather,omitempty"`
	Condition     string   `json:"condition,omitempty"`
	TemperatureC  float64  `json:"temperature_c,omitempty"`
	BodyWeightKg  float64  `json:"body_weight_kg,omitempty"`
	AirQuality    string   `json:"air_quality,omitempty"`
	Memo          string   `json:"memo,omitempty"`
	CoachID       string   `json:"coach_id,omitempty"`
}

// Head is the cheap change signal for an account's record set. The
// watcher compares successive heads; the payload is never diffed.
type Head struct {
	Count     int    `json:"count"`
	UpdatedAt string `json:"updated_at"`
}

// ToStore converts a wire record to the cache model.
func (r Record) ToStore() store.Record {
	return store.Record{
		ID:            r.ID,
		AccountID:     r.AccountID,
		Date:          r.Date,
		StartTime:     r.StartTime,
		Splits:        r.Splits,
		TotalDuration: r.TotalDuration,
		AveragePace:   r.AveragePace,
		Calories:      r.Calories,
		PaceDelta:     r.PaceDelta,
		Improved:      r.Improved,
		DistanceKm:    r.DistanceKm,
		Weather:       r.Weather,
		Condition:     r.Condition,
		TemperatureC:  r.TemperatureC,
		BodyWeightKg:  r.BodyWeightKg,
		AirQuality:    r.AirQuality,
		Memo:          r.Memo,
		CoachID:       r.CoachID,
	}
}

// FromStore converts a cache record to the wire shape.
func FromStore(r store.Record) Record {
	return Record{
		ID:            r.ID,
		AccountID:     r.AccountID,
		Date:          r.Date,
		StartTime:     r.StartTime,
		Splits:        r.Splits,
		TotalDuration: r.TotalDuration,
		AveragePace:   r.AveragePace,
		Calories:      r.Calories,
		PaceDelta:     r.PaceDelta,
		Improved:      r.Improved,
		DistanceKm:    r.DistanceKm,
		Weather:       r.Weather,
		Condition:     r.Condition,
		TemperatureC:  r.TemperatureC,
		BodyWeightKg:  r.BodyWeightKg,
		AirQuality:    r.AirQuality,
		Memo:          r.Memo,
		CoachID:       r.CoachID,
	}
}
