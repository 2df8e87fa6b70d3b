package service

import (
	"context"
	"time"

	"stridelog/internal/store"
)

// mergeClass tags how a record id compared across the two sources. The
// divergent case takes no corrective action (remote wins) but is at
// least observable in the log.
type mergeClass int

const (
	localOnly mergeClass = iota
	remoteOnly
	bothIdentical
	bothDivergent
)

// Reconcile merges the remote and local record sets into one
// authoritative set. Invoked once on startup and again on every remote
// change notification; the notification payload is never consumed, a
// full reconcile is the only response.
//
// Remote is the tie-break authority: on an id collision the remote copy
// is kept. Records that exist only locally are repaired upward. If the
// remote fetch fails the tracker degrades to the local cache (or the
// bundled seed set when the cache is empty) and does not retry.
func (t *Tracker) Reconcile(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.remote == nil || !t.persistent() {
		t.recomputeLocked()
		return nil
	}

	t.syncStatus = SyncReconciling

	remoteRecords, err := t.remote.ListRecords(ctx, t.accountID)
	if err != nil {
		t.logf("reconcile: remote fetch failed, serving cache: %v", err)
		t.syncStatus = SyncDegraded

		cached, cacheErr := t.local.ListRecords(t.accountID)
		if cacheErr != nil {
			t.logf("reconcile: cache read failed: %v", cacheErr)
		}
		if len(cached) == 0 {
			cached = seedRecords(t.now())
		}
		t.records = cached
		t.recomputeLocked()
		return nil
	}

	localRecords, err := t.local.ListRecords(t.accountID)
	if err != nil {
		t.logf("reconcile: cache read failed, merging remote only: %v", err)
		localRecords = nil
	}

	remoteByID := make(map[int64]int, len(remoteRecords))
	for i, r := range remoteRecords {
		remoteByID[r.ID] = i
	}

	merged := make([]store.Record, len(remoteRecords))
	copy(merged, remoteRecords)

	var onlyLocal []store.Record
	for _, l := range localRecords {
		switch t.classify(remoteRecords, remoteByID, l) {
		case localOnly:
			onlyLocal = append(onlyLocal, l)
			merged = append(merged, l)
		case bothDivergent:
			// Silent by design: remote wins, no user notification.
			t.logf("reconcile: record %d diverged, keeping remote copy", l.ID)
		}
	}

	// Repair upload: records produced offline or before the remote was
	// reachable get pushed up, tagged with the account.
	if len(onlyLocal) > 0 {
		if err := t.remote.UpsertRecords(ctx, t.accountID, onlyLocal); err != nil {
			t.logf("reconcile: repair upload of %d records failed: %v", len(onlyLocal), err)
		}
	}

	sortRecords(merged)

	if err := t.local.ReplaceRecords(t.accountID, merged); err != nil {
		t.logf("reconcile: cache write failed: %v", err)
	}
	if err := t.local.SetSyncState("last_reconcile", t.now().Format(time.RFC3339)); err != nil {
		t.logf("reconcile: recording sync time failed: %v", err)
	}

	t.records = merged
	t.recomputeLocked()
	t.syncStatus = SyncIdle
	return nil
}

func (t *Tracker) classify(remote []store.Record, byID map[int64]int, local store.Record) mergeClass {
	i, ok := byID[local.ID]
	if !ok {
		return localOnly
	}
	if remote[i].Equal(local) {
		return bothIdentical
	}
	return bothDivergent
}
