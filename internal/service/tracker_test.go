package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"stridelog/internal/store"
)

// fakeRemote is an in-memory RemoteStore.
type fakeRemote struct {
	records  map[int64]store.Record
	failList bool
	upserts  [][]store.Record
	deletes  []int64
}

func newFakeRemote(records ...store.Record) *fakeRemote {
	f := &fakeRemote{records: make(map[int64]store.Record)}
	for _, r := range records {
		f.records[r.ID] = r
	}
	return f
}

func (f *fakeRemote) ListRecords(ctx context.Context, accountID string) ([]store.Record, error) {
	if f.failList {
		return nil, errors.New("remote unavailable")
	}
	var out []store.Record
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRemote) UpsertRecords(ctx context.Context, accountID string, records []store.Record) error {
	f.upserts = append(f.upserts, records)
	for _, r := range records {
		r.AccountID = accountID
		f.records[r.ID] = r
	}
	return nil
}

func (f *fakeRemote) DeleteRecord(ctx context.Context, accountID string, id int64) error {
	f.deletes = append(f.deletes, id)
	delete(f.records, id)
	return nil
}

var testNow = time.Date(2026, time.February, 12, 12, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T, remote RemoteStore) *Tracker {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	s, err := store.NewTestStore(sqlDB)
	if err != nil {
		t.Fatalf("migrating db: %v", err)
	}

	id := int64(1000)
	tr := NewTracker(Options{
		Local:        s,
		Remote:       remote,
		AccountID:    "acct-1",
		BodyWeightKg: 60,
		Now:          func() time.Time { return testNow },
		NextID: func() int64 {
			id++
			return id
		},
	})
	if err := tr.Bootstrap(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return tr
}

func testRecord(id int64, date string, km float64) store.Record {
	return store.Record{
		ID:            id,
		AccountID:     "acct-1",
		Date:          date,
		StartTime:     "07:00",
		Splits:        []string{"06:00"},
		TotalDuration: int(km * 360),
		AveragePace:   360,
		DistanceKm:    km,
	}
}

func TestReconcileRemoteWinsAndRepairs(t *testing.T) {
	remoteCopy := testRecord(1, "2026-02-10", 5)
	remoteCopy.Memo = "remote"
	remote := newFakeRemote(remoteCopy, testRecord(2, "2026-02-11", 3))

	tr := newTestTracker(t, remote)

	localCopy := testRecord(1, "2026-02-10", 5)
	localCopy.Memo = "local edit"
	for _, r := range []store.Record{localCopy, testRecord(5, "2026-02-09", 4)} {
		r := r
		if err := tr.local.UpsertRecord(&r); err != nil {
			t.Fatalf("seeding cache: %v", err)
		}
	}

	if err := tr.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	snap := tr.Snapshot()
	if len(snap.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(snap.Records))
	}
	for _, r := range snap.Records {
		if r.ID == 1 && r.Memo != "remote" {
			t.Errorf("divergent record kept local copy: %+v", r)
		}
	}

	if len(remote.upserts) != 1 || len(remote.upserts[0]) != 1 || remote.upserts[0][0].ID != 5 {
		t.Fatalf("repair upload = %+v, want single upsert of record 5", remote.upserts)
	}
	if snap.SyncStatus != SyncIdle {
		t.Errorf("sync status = %v", snap.SyncStatus)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	remote := newFakeRemote(testRecord(1, "2026-02-10", 5))
	tr := newTestTracker(t, remote)

	seed := testRecord(5, "2026-02-09", 4)
	if err := tr.local.UpsertRecord(&seed); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	if err := tr.Reconcile(context.Background()); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	first := tr.Snapshot()

	if err := tr.Reconcile(context.Background()); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	second := tr.Snapshot()

	if len(first.Records) != len(second.Records) {
		t.Fatalf("record count changed: %d -> %d", len(first.Records), len(second.Records))
	}
	for i := range first.Records {
		if !first.Records[i].Equal(second.Records[i]) {
			t.Errorf("record %d changed on second reconcile", first.Records[i].ID)
		}
	}
	// Record 5 was repaired on the first pass; the second must not
	// re-upload it.
	if len(remote.upserts) != 1 {
		t.Errorf("got %d upserts, want 1", len(remote.upserts))
	}
}

func TestReconcileDegradesToCache(t *testing.T) {
	remote := newFakeRemote()
	remote.failList = true
	tr := newTestTracker(t, remote)

	cached := testRecord(9, "2026-02-08", 6)
	if err := tr.local.UpsertRecord(&cached); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	if err := tr.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	snap := tr.Snapshot()
	if snap.SyncStatus != SyncDegraded {
		t.Fatalf("sync status = %v, want degraded", snap.SyncStatus)
	}
	if len(snap.Records) != 1 || snap.Records[0].ID != 9 {
		t.Fatalf("degraded set = %+v, want cached record", snap.Records)
	}
}

func TestReconcileSeedsWhenEmpty(t *testing.T) {
	remote := newFakeRemote()
	remote.failList = true
	tr := newTestTracker(t, remote)

	if err := tr.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	snap := tr.Snapshot()
	if snap.SyncStatus != SyncDegraded {
		t.Fatalf("sync status = %v, want degraded", snap.SyncStatus)
	}
	if len(snap.Records) == 0 {
		t.Fatal("expected seed records, got none")
	}
	for _, r := range snap.Records {
		if r.Date > testNow.Format("2006-01-02") {
			t.Errorf("seed record dated in the future: %s", r.Date)
		}
	}
}

func TestSaveComputesDerivedFields(t *testing.T) {
	remote := newFakeRemote()
	tr := newTestTracker(t, remote)

	record, err := tr.Save(context.Background(), SaveInput{
		Date:       "2026-02-12",
		StartTime:  "07:30",
		Splits:     []string{"06:00", "06:00", "06:00", "06:00", "06:00"},
		DistanceKm: 5,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if record.TotalDuration != 1800 {
		t.Errorf("duration = %d, want 1800", record.TotalDuration)
	}
	if record.AveragePace != 360 {
		t.Errorf("pace = %v, want 360", record.AveragePace)
	}
	// 10 km/h for an hour-equivalent at 60 kg.
	if want := 10.5 * 60 * 0.5; record.Calories != want {
		t.Errorf("calories = %v, want %v", record.Calories, want)
	}
	// Pace equals the default baseline, so no improvement.
	if record.Improved {
		t.Error("record marked improved against equal baseline")
	}

	snap := tr.Snapshot()
	if snap.Points != 50 {
		t.Errorf("points = %d, want 50", snap.Points)
	}
	if len(remote.upserts) != 1 {
		t.Errorf("got %d remote upserts, want 1", len(remote.upserts))
	}
}

func TestSaveImprovementBonus(t *testing.T) {
	tr := newTestTracker(t, newFakeRemote())

	// Establish a slow monthly baseline first.
	if _, err := tr.Save(context.Background(), SaveInput{
		Date:       "2026-02-10",
		Splits:     []string{"7'00\"", "7'00\""},
		DistanceKm: 2,
	}); err != nil {
		t.Fatalf("Save baseline run: %v", err)
	}

	record, err := tr.Save(context.Background(), SaveInput{
		Date:       "2026-02-12",
		Splits:     []string{"6'00\"", "6'00\""},
		DistanceKm: 2,
	})
	if err != nil {
		t.Fatalf("Save faster run: %v", err)
	}
	if !record.Improved {
		t.Fatal("faster run not marked improved")
	}
	if record.PaceDelta != -60 {
		t.Errorf("pace delta = %v, want -60", record.PaceDelta)
	}

	// 20 for the first save, then 20 + 25 bonus.
	if snap := tr.Snapshot(); snap.Points != 65 {
		t.Errorf("points = %d, want 65", snap.Points)
	}
}

func TestSaveRejectsFutureDate(t *testing.T) {
	tr := newTestTracker(t, newFakeRemote())

	_, err := tr.Save(context.Background(), SaveInput{
		Date:       "2026-02-13",
		Splits:     []string{"06:00"},
		DistanceKm: 1,
	})
	if !errors.Is(err, ErrFutureDate) {
		t.Fatalf("err = %v, want ErrFutureDate", err)
	}
	if snap := tr.Snapshot(); len(snap.Records) != 0 || snap.Points != 0 {
		t.Errorf("rejected save mutated state: %+v", snap)
	}
}

func TestSaveRemoteFailureKeepsLocal(t *testing.T) {
	tr := newTestTracker(t, failingRemote{})

	if _, err := tr.Save(context.Background(), SaveInput{
		Date:       "2026-02-12",
		Splits:     []string{"06:00"},
		DistanceKm: 1,
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap := tr.Snapshot()
	if len(snap.Records) != 1 {
		t.Fatalf("optimistic write missing: %+v", snap.Records)
	}
	if snap.MutationStatus != MutationFailed {
		t.Errorf("mutation status = %v, want failed", snap.MutationStatus)
	}
}

type failingRemote struct{}

func (failingRemote) ListRecords(ctx context.Context, accountID string) ([]store.Record, error) {
	return nil, errors.New("remote unavailable")
}

func (failingRemote) UpsertRecords(ctx context.Context, accountID string, records []store.Record) error {
	return errors.New("remote unavailable")
}

func (failingRemote) DeleteRecord(ctx context.Context, accountID string, id int64) error {
	return errors.New("remote unavailable")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	remote := newFakeRemote(testRecord(1, "2026-02-10", 5))
	tr := newTestTracker(t, remote)
	if err := tr.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if err := tr.Delete(context.Background(), 1, false); err != nil {
		t.Fatalf("unconfirmed Delete: %v", err)
	}
	if snap := tr.Snapshot(); len(snap.Records) != 1 {
		t.Fatal("unconfirmed delete removed the record")
	}

	if err := tr.Delete(context.Background(), 1, true); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if snap := tr.Snapshot(); len(snap.Records) != 0 {
		t.Fatal("confirmed delete left the record")
	}
	if len(remote.deletes) != 1 || remote.deletes[0] != 1 {
		t.Errorf("remote deletes = %v", remote.deletes)
	}
}

func TestDeleteKeepsAchievements(t *testing.T) {
	tr := newTestTracker(t, newFakeRemote())

	if _, err := tr.Save(context.Background(), SaveInput{
		Date:       "2026-02-11",
		Splits:     []string{"06:00", "06:00", "06:00", "06:00", "06:00", "06:00", "06:00", "06:00", "06:00", "06:00"},
		DistanceKm: 10,
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap := tr.Snapshot()
	if _, ok := snap.Badges["double_digit"]; !ok {
		t.Fatalf("10 km run did not unlock double_digit: %v", snap.Badges)
	}
	points := snap.Points

	if err := tr.Delete(context.Background(), snap.Records[0].ID, true); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	snap = tr.Snapshot()
	if len(snap.Records) != 0 {
		t.Fatal("delete left the record")
	}
	if _, ok := snap.Badges["double_digit"]; !ok {
		t.Error("delete revoked an unlocked badge")
	}
	if snap.Points != points {
		t.Errorf("delete changed points: %d -> %d", points, snap.Points)
	}
}

func TestImportSkipsExistingIDs(t *testing.T) {
	remote := newFakeRemote(testRecord(1, "2026-02-10", 5))
	tr := newTestTracker(t, remote)
	if err := tr.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	data := []byte(`[
		{"id": 1, "date": "2026-02-10", "splits": ["06:00"], "distance_km": 5, "average_pace": 360},
		{"id": 2, "date": "2026-02-09", "splits": ["06:00"], "distance_km": 3, "average_pace": 360}
	]`)

	n, err := tr.Import(context.Background(), data)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 1 {
		t.Fatalf("imported %d records, want 1", n)
	}

	// Re-importing the same payload is a recognized no-op.
	n, err = tr.Import(context.Background(), data)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if n != 0 {
		t.Errorf("second import applied %d records, want 0", n)
	}

	snap := tr.Snapshot()
	if len(snap.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(snap.Records))
	}
	for _, r := range snap.Records {
		if r.AccountID != "acct-1" {
			t.Errorf("imported record %d not account-tagged: %q", r.ID, r.AccountID)
		}
	}
}

func TestImportRejectsMalformedPayload(t *testing.T) {
	tr := newTestTracker(t, newFakeRemote())

	if _, err := tr.Import(context.Background(), []byte(`{"surprise": true}`)); !errors.Is(err, ErrBadImport) {
		t.Fatalf("err = %v, want ErrBadImport", err)
	}

	// One bad record aborts the whole import.
	n, err := tr.Import(context.Background(), []byte(`[
		{"id": 10, "date": "2026-02-09", "distance_km": 3},
		{"id": 11, "date": "not-a-date", "distance_km": 3}
	]`))
	if err == nil {
		t.Fatal("expected error for unparseable date")
	}
	if n != 0 {
		t.Errorf("aborted import applied %d records", n)
	}
	if snap := tr.Snapshot(); len(snap.Records) != 0 {
		t.Errorf("aborted import mutated state: %+v", snap.Records)
	}
}

func TestExportRoundTrips(t *testing.T) {
	tr := newTestTracker(t, newFakeRemote())

	if _, err := tr.Save(context.Background(), SaveInput{
		Date:       "2026-02-11",
		StartTime:  "07:00",
		Splits:     []string{"06:00", "06:00"},
		DistanceKm: 2,
		Memo:       "export me",
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := tr.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	other := newTestTracker(t, newFakeRemote())
	n, err := other.Import(context.Background(), data)
	if err != nil {
		t.Fatalf("Import of export: %v", err)
	}
	if n != 1 {
		t.Fatalf("imported %d records, want 1", n)
	}

	snap := other.Snapshot()
	if snap.Records[0].Memo != "export me" {
		t.Errorf("memo lost in round trip: %+v", snap.Records[0])
	}
}

func TestUnlocksAreMonotonicAcrossReconciles(t *testing.T) {
	remote := newFakeRemote(testRecord(1, "2026-02-10", 12))
	tr := newTestTracker(t, remote)

	if err := tr.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if _, ok := tr.Snapshot().Badges["double_digit"]; !ok {
		t.Fatal("12 km run did not unlock double_digit")
	}

	// The remote copy diverges to a distance that no longer qualifies.
	// Remote wins the merge, but the unlock survives.
	remote.records[1] = testRecord(1, "2026-02-10", 2)

	if err := tr.Reconcile(context.Background()); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}

	snap := tr.Snapshot()
	if len(snap.Records) != 1 || snap.Records[0].DistanceKm != 2 {
		t.Fatalf("merge did not keep the remote copy: %+v", snap.Records)
	}
	if _, ok := snap.Badges["double_digit"]; !ok {
		t.Error("reconcile revoked an unlocked badge")
	}
}
