package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"stridelog/internal/analysis"
	"stridelog/internal/store"
)

// Validation errors. These are rejected before any state mutation and
// surfaced to the caller; transport errors never are.
var (
	ErrFutureDate = errors.New("record date is in the future")
	ErrNoSplits   = errors.New("record has no splits")
)

// Points accrue only at the moment of a save: a distance-scaled amount
// plus a bonus when the session beat the monthly baseline. The total is
// never rebuilt from history.
const (
	pointsPerKm      = 10
	improvementBonus = 25
)

// SaveInput is the session facts the user provides. Everything derived
// (duration, pace, calories, delta) is computed here, never accepted
// from the caller.
type SaveInput struct {
	ID int64 // 0 creates a new record; a matching id replaces in full

	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
	Splits    []string

	DistanceKm   float64
	Weather      string
	Condition    string
	TemperatureC float64
	BodyWeightKg float64
	AirQuality   string
	Memo         string
}

// Save creates or fully replaces a record. The local write is
// optimistic: it happens before the remote upsert and is not rolled back
// if the remote fails (that failure is logged and reflected in the
// mutation status only).
func (t *Tracker) Save(ctx context.Context, in SaveInput) (store.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	day, err := time.Parse(analysis.DateLayout, in.Date)
	if err != nil {
		return store.Record{}, fmt.Errorf("parsing date %q: %w", in.Date, err)
	}
	if day.Format(analysis.DateLayout) > now.Format(analysis.DateLayout) {
		return store.Record{}, ErrFutureDate
	}
	if len(in.Splits) == 0 {
		return store.Record{}, ErrNoSplits
	}

	totalDuration := 0
	for _, s := range in.Splits {
		sec, err := analysis.ParseClock(s)
		if err != nil {
			return store.Record{}, fmt.Errorf("parsing split %q: %w", s, err)
		}
		totalDuration += sec
	}

	t.mutationStatus = MutationSaving

	weight := in.BodyWeightKg
	if weight <= 0 {
		weight = t.bodyWeightKg
	}

	pace := analysis.PacePerKm(totalDuration, in.DistanceKm)

	// Compare against the monthly average as it stands right now; a
	// fixed default pace stands in until enough history exists.
	baseline := t.defaultPace
	if t.baselines.MonthlyAverage != nil {
		baseline = *t.baselines.MonthlyAverage
	}

	record := store.Record{
		ID:            in.ID,
		AccountID:     t.accountID,
		Date:          in.Date,
		StartTime:     in.StartTime,
		Splits:        append([]string(nil), in.Splits...),
		TotalDuration: totalDuration,
		AveragePace:   pace,
		Calories:      analysis.Calories(in.DistanceKm, totalDuration, weight),
		DistanceKm:    in.DistanceKm,
		Weather:       in.Weather,
		Condition:     in.Condition,
		TemperatureC:  in.TemperatureC,
		BodyWeightKg:  weight,
		AirQuality:    in.AirQuality,
		Memo:          in.Memo,
		CoachID:       t.coachID,
	}
	if pace > 0 {
		record.PaceDelta = pace - baseline
		record.Improved = pace < baseline
	}
	if record.ID == 0 {
		record.ID = t.nextID()
	}

	t.applyLocalSave(record)

	if t.persistent() {
		if err := t.local.UpsertRecord(&record); err != nil {
			t.logf("save: cache write failed: %v", err)
		}
	}

	t.mutationStatus = MutationIdle
	if t.remote != nil {
		if err := t.remote.UpsertRecords(ctx, t.accountID, []store.Record{record}); err != nil {
			// Accepted eventual-consistency risk: the optimistic local
			// write stays.
			t.logf("save: remote persist failed for %d: %v", record.ID, err)
			t.mutationStatus = MutationFailed
		}
	}

	earned := int(math.Round(record.DistanceKm * pointsPerKm))
	if record.Improved {
		earned += improvementBonus
	}
	t.points += earned
	if t.persistent() {
		if _, err := t.local.AddPoints(t.accountID, earned); err != nil {
			t.logf("save: points write failed: %v", err)
		}
	}

	t.recomputeLocked()
	return record, nil
}

// applyLocalSave replaces the record with a matching id, or prepends a
// new one, then restores date ordering.
func (t *Tracker) applyLocalSave(record store.Record) {
	for i, r := range t.records {
		if r.ID == record.ID {
			t.records[i] = record
			sortRecords(t.records)
			return
		}
	}
	t.records = append([]store.Record{record}, t.records...)
	sortRecords(t.records)
}

// Delete removes a record by id from the local set and the remote
// store. Without explicit confirmation it is a no-op, not an error.
// Achievements earned through the record are never revoked.
func (t *Tracker) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.records[:0]
	for _, r := range t.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	t.records = kept

	if t.persistent() {
		if err := t.local.DeleteRecord(t.accountID, id); err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			t.logf("delete: cache delete failed for %d: %v", id, err)
		}
	}
	if t.remote != nil {
		if err := t.remote.DeleteRecord(ctx, t.accountID, id); err != nil {
			t.logf("delete: remote delete failed for %d: %v", id, err)
		}
	}

	t.recomputeLocked()
	return nil
}

// Import merges an externally supplied record list. Only records whose
// id is not already present are applied; they are tagged with the
// current account and pushed as an upsert. Returns the number of newly
// imported records; zero means the import was a recognized no-op.
func (t *Tracker) Import(ctx context.Context, data []byte) (int, error) {
	candidates, err := ParseImport(data)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	existing := make(map[int64]struct{}, len(t.records))
	for _, r := range t.records {
		existing[r.ID] = struct{}{}
	}

	var fresh []store.Record
	for _, r := range candidates {
		if _, ok := existing[r.ID]; ok {
			continue
		}
		r.AccountID = t.accountID
		fresh = append(fresh, r)
		existing[r.ID] = struct{}{}
	}

	if len(fresh) == 0 {
		return 0, nil
	}

	t.records = append(fresh, t.records...)
	sortRecords(t.records)

	if t.persistent() {
		for i := range fresh {
			if err := t.local.UpsertRecord(&fresh[i]); err != nil {
				t.logf("import: cache write failed for %d: %v", fresh[i].ID, err)
			}
		}
	}
	if t.remote != nil {
		if err := t.remote.UpsertRecords(ctx, t.accountID, fresh); err != nil {
			t.logf("import: remote persist failed: %v", err)
		}
	}

	t.recomputeLocked()
	return len(fresh), nil
}
