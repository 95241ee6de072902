package cache

import (
	"path/filepath"
	"testing"

	"github.com/etnz/budget"
)

func backends(t *testing.T) map[string]budget.LocalCache {
	t.Helper()
	dir := t.TempDir()
	file, err := NewFile(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatal(err)
	}
	db, err := OpenSQLite(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]budget.LocalCache{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": db,
	}
}

func TestBackends(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := c.Get("missing"); ok || err != nil {
				t.Fatalf("Get(missing) = %v, %v, want nothing", ok, err)
			}
			if err := c.Set(budget.DefaultCacheKey, `{"a":1}`); err != nil {
				t.Fatalf("Set() unexpected error: %v", err)
			}
			if err := c.Set(budget.DefaultCacheKey, `{"a":2}`); err != nil {
				t.Fatalf("Set() overwrite unexpected error: %v", err)
			}
			v, ok, err := c.Get(budget.DefaultCacheKey)
			if err != nil || !ok || v != `{"a":2}` {
				t.Errorf("Get() = %q, %v, %v, want the last value", v, ok, err)
			}
			if err := c.Delete(budget.DefaultCacheKey); err != nil {
				t.Fatalf("Delete() unexpected error: %v", err)
			}
			if err := c.Delete(budget.DefaultCacheKey); err != nil {
				t.Errorf("Delete() of a missing key should succeed, got %v", err)
			}
			if _, ok, _ := c.Get(budget.DefaultCacheKey); ok {
				t.Errorf("Get() after Delete() still finds the value")
			}
		})
	}
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen unexpected error: %v", err)
	}
	defer db.Close()
	if v, ok, _ := db.Get("k"); !ok || v != "v" {
		t.Errorf("Get(k) after reopen = %q, %v", v, ok)
	}
}

func TestFile_KeyEscaping(t *testing.T) {
	c, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set("alice/../budget", "x"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := c.Get("alice/../budget"); !ok || v != "x" {
		t.Errorf("Get() of an escaped key = %q, %v", v, ok)
	}
}

func TestSyncerOverSQLite(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	tr := budget.NewTracker(budget.NewSyncer(db, nil, ""))
	if err := tr.AddAccount("Wallet"); err != nil {
		t.Fatal(err)
	}

	again := budget.NewSyncer(db, nil, "")
	doc, err := again.Load(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if doc.Accounts[len(doc.Accounts)-1] != "Wallet" {
		t.Errorf("reloaded accounts = %v, want Wallet last", doc.Accounts)
	}
}

func TestOpen(t *testing.T) {
	if _, err := Open("redis", ""); err == nil {
		t.Errorf("Open(redis) should fail")
	}
	if c, err := Open("memory", ""); err != nil || c == nil {
		t.Errorf("Open(memory) = %v, %v", c, err)
	}
}
