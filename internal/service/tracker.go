package service

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"stridelog/internal/analysis"
	"stridelog/internal/store"
)

// DefaultPaceSeconds is the comparison pace used before any monthly
// baseline exists: 6'00" per km.
const DefaultPaceSeconds = 360

// RemoteStore is the slice of the record-store client the tracker needs.
type RemoteStore interface {
	ListRecords(ctx context.Context, accountID string) ([]store.Record, error)
	UpsertRecords(ctx context.Context, accountID string, records []store.Record) error
	DeleteRecord(ctx context.Context, accountID string, id int64) error
}

// Tracker is the single authoritative state holder for one account. All
// mutation paths (save, delete, import, reconcile) funnel through it and
// end in one recompute of the derived state; nothing else touches the
// record set.
type Tracker struct {
	mu     sync.Mutex
	local  *store.Store
	remote RemoteStore // nil when no account is configured

	accountID    string
	coachID      string
	bodyWeightKg float64
	defaultPace  float64

	logger *log.Logger
	now    func() time.Time
	nextID func() int64

	records   []store.Record
	streak    analysis.Streak
	baselines analysis.Baselines
	badges    map[string]struct{}
	medals    map[string]struct{}
	points    int

	syncStatus     SyncStatus
	mutationStatus MutationStatus
}

// Options configures a Tracker.
type Options struct {
	Local     *store.Store
	Remote    RemoteStore
	AccountID string

	CoachID      string
	BodyWeightKg float64
	DefaultPace  float64 // seconds per km; 0 means DefaultPaceSeconds

	Logger *log.Logger
	Now    func() time.Time
	NextID func() int64
}

// NewTracker wires a tracker. Without an account id, remote sync and
// persistence are disabled entirely and the tracker works in memory.
func NewTracker(opts Options) *Tracker {
	t := &Tracker{
		local:        opts.Local,
		remote:       opts.Remote,
		accountID:    opts.AccountID,
		coachID:      opts.CoachID,
		bodyWeightKg: opts.BodyWeightKg,
		defaultPace:  opts.DefaultPace,
		logger:       opts.Logger,
		now:          opts.Now,
		nextID:       opts.NextID,
		badges:       make(map[string]struct{}),
		medals:       make(map[string]struct{}),
	}
	if t.defaultPace <= 0 {
		t.defaultPace = DefaultPaceSeconds
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.nextID == nil {
		// Client-generated ids: a millisecond timestamp is unique enough
		// for one person logging sessions.
		t.nextID = func() int64 { return time.Now().UnixMilli() }
	}
	if t.accountID == "" {
		t.remote = nil
	}
	return t
}

// persistent reports whether this tracker writes through to storage.
func (t *Tracker) persistent() bool {
	return t.accountID != "" && t.local != nil
}

// Bootstrap loads the cached record set and persisted derived state so
// the UI has data before the first reconciliation completes.
func (t *Tracker) Bootstrap() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.persistent() {
		t.recomputeLocked()
		return nil
	}

	records, err := t.local.ListRecords(t.accountID)
	if err != nil {
		return err
	}
	t.records = records

	badges, medals, err := t.local.GetUnlocked(t.accountID)
	if err != nil {
		return err
	}
	t.badges = badges
	t.medals = medals

	points, err := t.local.GetPoints(t.accountID)
	if err != nil {
		return err
	}
	t.points = points

	t.recomputeLocked()
	return nil
}

// Snapshot is an immutable view of the tracker for rendering.
type Snapshot struct {
	AccountID       string
	Records         []store.Record
	StreakCount     int
	TotalActiveDays int
	Baselines       analysis.Baselines
	Badges          map[string]struct{}
	Medals          map[string]struct{}
	Points          int
	SyncStatus      SyncStatus
	MutationStatus  MutationStatus
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	records := make([]store.Record, len(t.records))
	copy(records, t.records)

	badges := make(map[string]struct{}, len(t.badges))
	for id := range t.badges {
		badges[id] = struct{}{}
	}
	medals := make(map[string]struct{}, len(t.medals))
	for id := range t.medals {
		medals[id] = struct{}{}
	}

	return Snapshot{
		AccountID:       t.accountID,
		Records:         records,
		StreakCount:     t.streak.Count,
		TotalActiveDays: t.streak.TotalActiveDays,
		Baselines:       t.baselines,
		Badges:          badges,
		Medals:          medals,
		Points:          t.points,
		SyncStatus:      t.syncStatus,
		MutationStatus:  t.mutationStatus,
	}
}

// recomputeLocked refreshes every derived value from the record set.
// This is the single update function all mutation paths dispatch
// through. Caller holds the lock.
func (t *Tracker) recomputeLocked() {
	now := t.now()
	t.streak = analysis.ComputeStreak(t.records, now)
	t.baselines = analysis.ComputeBaselines(t.records, now)

	unlocks := analysis.Evaluate(t.records, t.streak.Count, now)

	// Union only: recomputation can add unlocks but never remove them,
	// even when the record that earned one is gone.
	newBadges := mergeUnlocks(t.badges, unlocks.Badges)
	newMedals := mergeUnlocks(t.medals, unlocks.Medals)

	if t.persistent() {
		if err := t.local.Unlock(t.accountID, store.KindBadge, newBadges); err != nil {
			t.logf("persisting badges: %v", err)
		}
		if err := t.local.Unlock(t.accountID, store.KindMedal, newMedals); err != nil {
			t.logf("persisting medals: %v", err)
		}
	}
}

// mergeUnlocks unions earned into have and returns the genuinely new ids.
func mergeUnlocks(have, earned map[string]struct{}) []string {
	var added []string
	for id := range earned {
		if _, ok := have[id]; !ok {
			have[id] = struct{}{}
			added = append(added, id)
		}
	}
	return added
}

// sortRecords keeps the merged-set invariant: date descending, newest
// id first within a day.
func sortRecords(records []store.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].ID > records[j].ID
	})
}

func (t *Tracker) logf(format string, args ...any) {
	if t.logger != nil {
		t.logger.Printf(format, args...)
	}
}
