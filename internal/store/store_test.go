package store

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewTestStore(db)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return s
}

func sampleRecord(id int64, date string) Record {
	return Record{
		ID:            id,
		AccountID:     "acct-1",
		Date:          date,
		StartTime:     "07:30",
		Splits:        []string{"06:00", "06:00", "06:00"},
		TotalDuration: 1080,
		AveragePace:   360,
		Calories:      210,
		DistanceKm:    3,
		BodyWeightKg:  70,
		Memo:          "easy run",
	}
}

func TestReplaceAndListRecords(t *testing.T) {
	s := openTestStore(t)

	records := []Record{
		sampleRecord(1, "2026-02-10"),
		sampleRecord(2, "2026-02-12"),
		sampleRecord(3, "2026-02-11"),
	}

	if err := s.ReplaceRecords("acct-1", records); err != nil {
		t.Fatalf("ReplaceRecords: %v", err)
	}

	got, err := s.ListRecords("acct-1")
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	// Date descending
	wantOrder := []int64{2, 3, 1}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: got id %d, want %d", i, got[i].ID, id)
		}
	}
	if len(got[0].Splits) != 3 || got[0].Splits[0] != "06:00" {
		t.Errorf("splits round-trip failed: %v", got[0].Splits)
	}
}

func TestReplaceRecordsIsScopedByAccount(t *testing.T) {
	s := openTestStore(t)

	other := sampleRecord(9, "2026-01-01")
	other.AccountID = "acct-2"
	if err := s.UpsertRecord(&other); err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}

	if err := s.ReplaceRecords("acct-1", []Record{sampleRecord(1, "2026-02-10")}); err != nil {
		t.Fatalf("ReplaceRecords: %v", err)
	}

	got, err := s.ListRecords("acct-2")
	if err != nil {
		t.Fatalf("ListRecords acct-2: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("acct-2 records clobbered by acct-1 replace: got %d, want 1", len(got))
	}
}

func TestDeleteRecord(t *testing.T) {
	s := openTestStore(t)

	r := sampleRecord(1, "2026-02-10")
	if err := s.UpsertRecord(&r); err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}

	// Wrong account must not delete
	if err := s.DeleteRecord("acct-2", 1); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("cross-account delete: got %v, want ErrRecordNotFound", err)
	}

	if err := s.DeleteRecord("acct-1", 1); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}

	if _, err := s.GetRecord("acct-1", 1); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("after delete: got %v, want ErrRecordNotFound", err)
	}
}

func TestUnlockIsMonotonic(t *testing.T) {
	s := openTestStore(t)

	if err := s.Unlock("acct-1", KindBadge, []string{"streak_3", "improver"}); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	// Re-unlocking an existing id is a no-op, not an error
	if err := s.Unlock("acct-1", KindBadge, []string{"streak_3"}); err != nil {
		t.Fatalf("Unlock (duplicate): %v", err)
	}
	if err := s.Unlock("acct-1", KindMedal, []string{"marathon"}); err != nil {
		t.Fatalf("Unlock medal: %v", err)
	}

	badges, medals, err := s.GetUnlocked("acct-1")
	if err != nil {
		t.Fatalf("GetUnlocked: %v", err)
	}
	if len(badges) != 2 {
		t.Errorf("got %d badges, want 2", len(badges))
	}
	if _, ok := medals["marathon"]; !ok {
		t.Errorf("medal marathon missing: %v", medals)
	}
}

func TestPointsAccumulate(t *testing.T) {
	s := openTestStore(t)

	total, err := s.GetPoints("acct-1")
	if err != nil || total != 0 {
		t.Fatalf("GetPoints on empty account: %d, %v", total, err)
	}

	if _, err := s.AddPoints("acct-1", 50); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	total, err = s.AddPoints("acct-1", 75)
	if err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if total != 125 {
		t.Errorf("total = %d, want 125", total)
	}
}

func TestSyncState(t *testing.T) {
	s := openTestStore(t)

	v, err := s.GetSyncState("last_reconcile")
	if err != nil || v != "" {
		t.Fatalf("missing key: got %q, %v", v, err)
	}

	if err := s.SetSyncState("last_reconcile", "2026-02-12T08:00:00Z"); err != nil {
		t.Fatalf("SetSyncState: %v", err)
	}
	if err := s.SetSyncState("last_reconcile", "2026-02-12T09:00:00Z"); err != nil {
		t.Fatalf("SetSyncState overwrite: %v", err)
	}

	v, err = s.GetSyncState("last_reconcile")
	if err != nil {
		t.Fatalf("GetSyncState: %v", err)
	}
	if v != "2026-02-12T09:00:00Z" {
		t.Errorf("value = %q", v)
	}
}
