package budget

import (
	"context"
	"errors"
	"sync"

	"github.com/etnz/budget/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// cmpOpts compares decimals by value and dates by day.
var cmpOpts = cmp.Options{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b date.Date) bool { return a == b }),
}

// D is a helper for test to create a decimal from a const.
func D(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// entry is a helper for test to create a valid entry.
func entry(id string, on string, kind Kind, amount string, desc string) Entry {
	return Entry{
		ID:          ID(id),
		Date:        date.MustParse(on),
		Description: desc,
		Amount:      D(amount),
		Kind:        kind,
		Account:     "Cash",
	}
}

// memCache is a LocalCache in memory.
type memCache struct {
	values map[string]string
	err    error // returned by Set when not nil
}

func newMemCache() *memCache { return &memCache{values: make(map[string]string)} }

func (c *memCache) Get(key string) (string, bool, error) {
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memCache) Set(key, value string) error {
	if c.err != nil {
		return c.err
	}
	c.values[key] = value
	return nil
}

func (c *memCache) Delete(key string) error {
	delete(c.values, key)
	return nil
}

// memRemote is a RemoteStore in memory, recording the merge-writes.
type memRemote struct {
	mu     sync.Mutex
	docs   map[string]*Document
	writes int
	err    error // returned by every call when not nil
}

func newMemRemote() *memRemote { return &memRemote{docs: make(map[string]*Document)} }

func (r *memRemote) Get(ctx context.Context, user string) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	doc, ok := r.docs[user]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.Clone(), nil
}

func (r *memRemote) MergeWrite(ctx context.Context, user string, doc *Document, fields []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.writes++
	cur, ok := r.docs[user]
	if !ok {
		cur = &Document{}
		r.docs[user] = cur
	}
	for _, f := range fields {
		switch f {
		case FieldEntries:
			cur.Entries = doc.Entries
		case FieldAccounts:
			cur.Accounts = doc.Accounts
		case FieldBills:
			cur.Bills = doc.Bills
		case FieldGoals:
			cur.Goals = doc.Goals
		case FieldLastUpdated:
			cur.LastUpdated = doc.LastUpdated
		}
	}
	return nil
}

var errOffline = errors.New("offline")
