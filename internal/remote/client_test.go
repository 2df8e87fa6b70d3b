package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"stridelog/internal/store"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	return NewClient(srv.URL, ts)
}

func TestListRecords(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/acct-1/records" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("auth header = %q", got)
		}
		json.NewEncoder(w).Encode([]Record{
			{ID: 2, AccountID: "acct-1", Date: "2026-02-12", Splits: []string{"06:00"}, DistanceKm: 1, AveragePace: 360},
			{ID: 1, AccountID: "acct-1", Date: "2026-02-10", Splits: []string{"05:30"}, DistanceKm: 1, AveragePace: 330},
		})
	}))

	records, err := c.ListRecords(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(records) != 2 || records[0].ID != 2 {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[0].Splits[0] != "06:00" {
		t.Errorf("splits = %v", records[0].Splits)
	}
}

func TestUpsertRecordsTagsAccount(t *testing.T) {
	var got []Record
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
	}))

	// Record carries no account; the upsert must tag it.
	err := c.UpsertRecords(context.Background(), "acct-1", []store.Record{
		{ID: 7, Date: "2026-02-12", DistanceKm: 5, AveragePace: 360},
	})
	if err != nil {
		t.Fatalf("UpsertRecords: %v", err)
	}
	if len(got) != 1 || got[0].AccountID != "acct-1" {
		t.Fatalf("upserted records not account-tagged: %+v", got)
	}
}

func TestUpsertRecordsEmptyIsNoop(t *testing.T) {
	called := false
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	if err := c.UpsertRecords(context.Background(), "acct-1", nil); err != nil {
		t.Fatalf("UpsertRecords(nil): %v", err)
	}
	if called {
		t.Error("empty upsert hit the network")
	}
}

func TestDeleteRecordScopesAccount(t *testing.T) {
	var path string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
	}))

	if err := c.DeleteRecord(context.Background(), "acct-1", 42); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if path != "/accounts/acct-1/records/42" {
		t.Errorf("path = %q", path)
	}
}

func TestAPIErrorSurfacesStatus(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	if _, err := c.ListRecords(context.Background(), "acct-1"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestWatcherNotifiesOnHeadChange(t *testing.T) {
	heads := []Head{
		{Count: 1, UpdatedAt: "2026-02-12T08:00:00Z"},
		{Count: 1, UpdatedAt: "2026-02-12T08:00:00Z"}, // unchanged
		{Count: 2, UpdatedAt: "2026-02-12T09:00:00Z"}, // changed
	}
	i := 0
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := heads[i]
		if i < len(heads)-1 {
			i++
		}
		json.NewEncoder(w).Encode(h)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	notify := make(chan struct{}, 1)
	w := NewWatcher(c, "acct-1", 10*time.Millisecond, nil)
	go w.Run(ctx, notify)

	select {
	case <-notify:
	case <-ctx.Done():
		t.Fatal("no notification before timeout")
	}
}
