package budget

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var quiet = log.New(io.Discard, "", 0)

func newTestSyncer(cache LocalCache, remote RemoteStore, user string) *Syncer {
	s := NewSyncer(cache, remote, user)
	s.Logger = quiet
	s.Now = func() time.Time { return time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestMerge_Overlap(t *testing.T) {
	remote := []Entry{entry("1", "2025-01-01", Expense, "150", "Food")}
	local := []Entry{
		entry("1", "2025-01-01", Expense, "100", "Food"),
		entry("2", "2025-01-02", Expense, "200", "Fuel"),
	}
	got := Merge(remote, local)
	want := []Entry{remote[0], local[1]}
	if diff := cmp.Diff(want, got, cmpOpts); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_Disjoint(t *testing.T) {
	remote := []Entry{entry("r1", "2025-01-01", Income, "10", "Gift"), entry("r2", "2025-01-03", Expense, "5", "Food")}
	local := []Entry{entry("l1", "2025-01-02", Expense, "7", "Fuel")}
	got := Merge(remote, local)
	if diff := cmp.Diff([]ID{"r1", "r2", "l1"}, ids(got)); diff != "" {
		t.Errorf("Merge() order mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	remote := []Entry{entry("1", "2025-01-01", Expense, "150", "Food"), entry("3", "2025-01-05", Income, "1", "Gift")}
	local := []Entry{entry("1", "2025-01-01", Expense, "100", "Food"), entry("2", "2025-01-02", Expense, "200", "Fuel")}

	m := Merge(remote, local)
	if diff := cmp.Diff(m, Merge(m, m), cmpOpts); diff != "" {
		t.Errorf("Merge(m, m) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m, Merge(remote, m), cmpOpts); diff != "" {
		t.Errorf("Merge(remote, Merge(remote, local)) mismatch (-want +got):\n%s", diff)
	}
	if len(Merge(nil, nil)) != 0 {
		t.Errorf("Merge(nil, nil) is not empty")
	}
}

func TestMergeDocuments(t *testing.T) {
	remote := &Document{
		Entries:  []Entry{entry("1", "2025-01-01", Expense, "150", "Food")},
		Accounts: []string{"Cash", "Wallet"},
		Bills:    []Bill{{ID: "b", Name: "Rent", Amount: D("900"), DueDay: 5}},
	}
	local := &Document{
		Entries:  []Entry{entry("2", "2025-01-02", Expense, "200", "Fuel")},
		Accounts: []string{"UPI", "Cash"},
		Goals:    []Goal{{ID: "g", Name: "Bike", Target: D("1000")}},
	}
	got := MergeDocuments(remote, local)
	if diff := cmp.Diff([]string{"Cash", "Wallet", "UPI"}, got.Accounts); diff != "" {
		t.Errorf("accounts mismatch (-want +got):\n%s", diff)
	}
	if len(got.Entries) != 2 || len(got.Bills) != 1 || len(got.Goals) != 0 {
		t.Errorf("MergeDocuments() = %d entries %d bills %d goals, want 2 1 0", len(got.Entries), len(got.Bills), len(got.Goals))
	}
}

func TestSyncer_LoadOffline(t *testing.T) {
	cache := newMemCache()
	s := newTestSyncer(cache, nil, "")
	doc, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(doc.Entries) != 0 {
		t.Errorf("Load() of an empty cache = %d entries", len(doc.Entries))
	}
	if diff := cmp.Diff(DefaultAccounts, doc.Accounts); diff != "" {
		t.Errorf("accounts mismatch (-want +got):\n%s", diff)
	}

	cache.values[DefaultCacheKey] = `{"transactions": [{"id": 1700000000000, "date": "2025-01-01", "desc": "Food", "amount": 5, "type": "expense"}], "accounts": ["Wallet"]}`
	doc, err = s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(doc.Entries) != 1 || doc.Entries[0].ID != "1700000000000" {
		t.Errorf("Load() entries = %v", ids(doc.Entries))
	}
	if doc.Accounts[0] != "Wallet" || len(doc.Accounts) != len(DefaultAccounts)+1 {
		t.Errorf("Load() accounts = %v, want Wallet then the defaults", doc.Accounts)
	}
}

func TestSyncer_LoadCorruptCache(t *testing.T) {
	cache := newMemCache()
	cache.values[DefaultCacheKey] = `{"transactions": "nope"`
	doc, err := newTestSyncer(cache, nil, "").Load(context.Background())
	if err != nil {
		t.Fatalf("Load() of a corrupt cache should not fail, got %v", err)
	}
	if len(doc.Entries) != 0 {
		t.Errorf("Load() of a corrupt cache = %d entries, want 0", len(doc.Entries))
	}
}

func TestSyncer_LoadRemote(t *testing.T) {
	ctx := context.Background()
	local := &Document{Entries: []Entry{
		entry("1", "2025-01-01", Expense, "100", "Food"),
		entry("2", "2025-01-02", Expense, "200", "Fuel"),
	}}
	seed := func(cache *memCache) {
		b, _ := json.Marshal(local)
		cache.values[DefaultCacheKey] = string(b)
	}

	t.Run("not found", func(t *testing.T) {
		cache, remote := newMemCache(), newMemRemote()
		seed(cache)
		s := newTestSyncer(cache, remote, "alice")
		doc, err := s.Load(ctx)
		s.Wait()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if len(doc.Entries) != 2 || remote.writes != 0 {
			t.Errorf("Load() = %d entries and %d writes, want 2 and 0", len(doc.Entries), remote.writes)
		}
	})

	t.Run("remote failure", func(t *testing.T) {
		cache, remote := newMemCache(), newMemRemote()
		remote.err = errOffline
		seed(cache)
		doc, err := newTestSyncer(cache, remote, "alice").Load(ctx)
		if err != nil {
			t.Fatalf("Load() should fall back to the cache, got %v", err)
		}
		if len(doc.Entries) != 2 {
			t.Errorf("Load() = %d entries, want 2", len(doc.Entries))
		}
	})

	t.Run("merged", func(t *testing.T) {
		cache, remote := newMemCache(), newMemRemote()
		seed(cache)
		remote.docs["alice"] = &Document{Entries: []Entry{entry("1", "2025-01-01", Expense, "150", "Food")}}
		s := newTestSyncer(cache, remote, "alice")
		doc, err := s.Load(ctx)
		s.Wait()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if !doc.Entries[0].Amount.Equal(D("150")) || len(doc.Entries) != 2 {
			t.Errorf("Load() = %v, want remote 1 then local 2", doc.Entries)
		}
		if remote.writes != 1 || len(remote.docs["alice"].Entries) != 2 {
			t.Errorf("remote after Load() = %d writes, %d entries, want 1 and 2", remote.writes, len(remote.docs["alice"].Entries))
		}
		cached, err := DecodeDocument([]byte(cache.values[DefaultCacheKey]))
		if err != nil {
			t.Fatalf("cache holds an invalid document: %v", err)
		}
		if diff := cmp.Diff(doc.Entries, cached.Entries, cmpOpts); diff != "" {
			t.Errorf("cache mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("signed out", func(t *testing.T) {
		cache, remote := newMemCache(), newMemRemote()
		remote.docs["alice"] = &Document{Entries: []Entry{entry("9", "2025-01-01", Expense, "1", "Food")}}
		doc, _ := newTestSyncer(cache, remote, "").Load(ctx)
		if len(doc.Entries) != 0 {
			t.Errorf("a signed out Load() read the remote document")
		}
	})
}

func TestSyncer_SaveCacheFailure(t *testing.T) {
	cache, remote := newMemCache(), newMemRemote()
	cache.err = errOffline
	s := newTestSyncer(cache, remote, "alice")
	if err := s.Save(&Document{}); err == nil {
		t.Fatalf("Save() should report the cache failure")
	}
	s.Wait()
	if remote.writes != 0 {
		t.Errorf("Save() pushed a document the cache refused")
	}
}

func TestSyncer_SaveRemoteFailure(t *testing.T) {
	cache, remote := newMemCache(), newMemRemote()
	remote.err = errOffline
	s := newTestSyncer(cache, remote, "alice")
	if err := s.Save(&Document{Entries: []Entry{entry("1", "2025-01-01", Expense, "1", "Food")}}); err != nil {
		t.Fatalf("Save() should not report a remote failure, got %v", err)
	}
	s.Wait()
	if _, ok := cache.values[DefaultCacheKey]; !ok {
		t.Errorf("Save() did not write the cache")
	}
}

func TestSyncer_PushOrder(t *testing.T) {
	cache, remote := newMemCache(), newMemRemote()
	s := newTestSyncer(cache, remote, "alice")
	var entries []Entry
	for i := range 10 {
		entries = append(entries, entry(string(rune('a'+i)), "2025-01-01", Expense, "1", "Food"))
		if err := s.Save(&Document{Entries: entries}); err != nil {
			t.Fatalf("Save() unexpected error: %v", err)
		}
	}
	s.Wait()
	if got := len(remote.docs["alice"].Entries); got != 10 {
		t.Errorf("remote holds %d entries, want the last save with 10", got)
	}
	if remote.writes < 1 || remote.writes > 10 {
		t.Errorf("remote writes = %d, want between 1 and 10", remote.writes)
	}
	if got := remote.docs["alice"].LastUpdated; !got.Equal(s.Now()) {
		t.Errorf("LastUpdated = %v, want %v", got, s.Now())
	}
}

func TestSyncer_Clear(t *testing.T) {
	cache := newMemCache()
	s := newTestSyncer(cache, nil, "").WithKey("other")
	if err := s.Save(&Document{}); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.values["other"]; !ok {
		t.Fatalf("Save() did not use the configured key")
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if len(cache.values) != 0 {
		t.Errorf("Clear() left %v", cache.values)
	}
}
