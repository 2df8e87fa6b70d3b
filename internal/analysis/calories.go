package analysis

// MET tiers by derived speed. The table escalates at the 8, 10 and
// 12 km/h thresholds; each boundary speed belongs to exactly one tier
// (the faster one), so a 10 km/h session is never scored twice.
const (
	metWalk    = 3.0  // below 8 km/h
	metJog     = 8.3  // 8 to <10 km/h
	metRun     = 10.5 // 10 to <12 km/h
	metFastRun = 12.8 // 12 km/h and up
)

// MET returns the tier value for a speed in km/h.
func MET(speedKmh float64) float64 {
	switch {
	case speedKmh >= 12:
		return metFastRun
	case speedKmh >= 10:
		return metRun
	case speedKmh >= 8:
		return metJog
	default:
		return metWalk
	}
}

// Calories estimates energy burned for a session from the tiered MET
// value: kcal = MET x weight(kg) x hours.
func Calories(distanceKm float64, durationSec int, weightKg float64) float64 {
	if distanceKm <= 0 || durationSec <= 0 || weightKg <= 0 {
		return 0
	}
	hours := float64(durationSec) / 3600
	speed := distanceKm / hours
	return MET(speed) * weightKg * hours
}
