package budget

import (
	"fmt"
	"iter"
	"slices"

	"github.com/etnz/budget/date"
)

// Ledger is the in-memory collection of entries, in insertion order and indexed by id.
//
// A Ledger is not safe for concurrent use, it is owned by a single Tracker.
type Ledger struct {
	entries []Entry
	index   map[ID]int // position of each id in entries
}

// NewLedger creates a ledger holding the given entries.
//
// Entries are taken as they are: documents written by older clients may not pass Validate and
// are still loaded. Later duplicates of an id replace the earlier ones.
func NewLedger(entries ...Entry) *Ledger {
	l := &Ledger{}
	l.Reset(entries)
	return l
}

// Reset replaces the whole content of the ledger.
func (l *Ledger) Reset(entries []Entry) {
	l.entries = make([]Entry, 0, len(entries))
	l.index = make(map[ID]int, len(entries))
	for _, e := range entries {
		if i, exists := l.index[e.ID]; exists {
			l.entries[i] = e
			continue
		}
		l.index[e.ID] = len(l.entries)
		l.entries = append(l.entries, e)
	}
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Get returns the entry with the given id.
func (l *Ledger) Get(id ID) (Entry, bool) {
	i, ok := l.index[id]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Add appends a new entry. It fails if the entry is invalid or its id is already used.
func (l *Ledger) Add(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, exists := l.index[e.ID]; exists {
		return fmt.Errorf("add %q: %w", e.ID, ErrDuplicateID)
	}
	l.index[e.ID] = len(l.entries)
	l.entries = append(l.entries, e)
	return nil
}

// Replace swaps the entry sharing e's id, keeping its position.
func (l *Ledger) Replace(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	i, exists := l.index[e.ID]
	if !exists {
		return fmt.Errorf("replace %q: %w", e.ID, ErrUnknownEntry)
	}
	l.entries[i] = e
	return nil
}

// AddOrReplace replaces the entry with the same id if any, or appends e.
// It reports whether an entry was replaced.
func (l *Ledger) AddOrReplace(e Entry) (replaced bool, err error) {
	if _, exists := l.index[e.ID]; exists {
		return true, l.Replace(e)
	}
	return false, l.Add(e)
}

// Delete removes the entry with the given id.
func (l *Ledger) Delete(id ID) (Entry, error) {
	i, exists := l.index[id]
	if !exists {
		return Entry{}, fmt.Errorf("delete %q: %w", id, ErrUnknownEntry)
	}
	deleted := l.entries[i]
	l.entries = slices.Delete(l.entries, i, i+1)
	delete(l.index, id)
	for j := i; j < len(l.entries); j++ {
		l.index[l.entries[j].ID] = j
	}
	return deleted, nil
}

// Entries returns an iterator over the entries accepted by all the filters, in store order.
func (l *Ledger) Entries(filters ...func(Entry) bool) iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range l.entries {
			accept := true
			for _, filter := range filters {
				if !filter(e) {
					accept = false
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, e) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the entries accepted by all the filters.
func (l *Ledger) Snapshot(filters ...func(Entry) bool) []Entry {
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.Entries(filters...) {
		out = append(out, e)
	}
	return out
}

// Chronological returns a copy of the entries sorted by date, newest first. Entries of the same
// day keep their store order reversed, so the latest recorded comes first.
func Chronological(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b Entry) int { return b.Date.Compare(a.Date) })
	return out
}

// ByKind returns a filter accepting the given kinds.
func ByKind(kinds ...Kind) func(Entry) bool {
	return func(e Entry) bool { return slices.Contains(kinds, e.Kind) }
}

// ByAccount returns a filter accepting entries of the given account.
func ByAccount(account string) func(Entry) bool {
	return func(e Entry) bool { return e.Account == account }
}

// ByCounterparty returns a filter accepting debt entries with the given counterparty.
func ByCounterparty(name string) func(Entry) bool {
	return func(e Entry) bool { return e.Kind.IsDebt() && e.Description == name }
}

// InRange returns a filter accepting entries dated within r, boundaries included.
func InRange(r date.Range) func(Entry) bool {
	return func(e Entry) bool { return r.Contains(e.Date) }
}
