package budget

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/budget/date"
	"github.com/shopspring/decimal"
)

// ChangeKind names the mutation that changed the tracker.
type ChangeKind string

const (
	Loaded         ChangeKind = "loaded"
	EntryAdded     ChangeKind = "entry.added"
	EntryReplaced  ChangeKind = "entry.replaced"
	EntryDeleted   ChangeKind = "entry.deleted"
	PeriodChanged  ChangeKind = "period.changed"
	AccountAdded   ChangeKind = "account.added"
	AccountDeleted ChangeKind = "account.deleted"
	BillAdded      ChangeKind = "bill.added"
	BillDeleted    ChangeKind = "bill.deleted"
	GoalAdded      ChangeKind = "goal.added"
	GoalDeleted    ChangeKind = "goal.deleted"
	GoalFunded     ChangeKind = "goal.funded"
	ResetDone      ChangeKind = "reset"
)

// Change is the event emitted once per mutation.
type Change struct {
	Kind ChangeKind
	// Subject is the id or label of the changed item, if any.
	Subject string
	// Err is the local persistence error of the mutation, if any.
	Err error
}

// Tracker owns the ledger and its collections. It is the only mutation path: every mutation is
// applied at once, saved through the Syncer, and announced to subscribers exactly once.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	ledger   *Ledger
	accounts *Catalog
	bills    []Bill
	goals    []Goal
	period   *PeriodSelector
	syncer   *Syncer

	// Today is the clock used by the period filter and the bill statuses.
	Today func() date.Date
	// Currency is the display currency.
	Currency string

	subs    map[int]func(Change)
	nextSub int
}

// NewTracker returns an empty tracker saving through the syncer. Call Load to read the stored
// state.
func NewTracker(syncer *Syncer) *Tracker {
	return &Tracker{
		ledger:   NewLedger(),
		accounts: DefaultCatalog(),
		period:   NewPeriodSelector(date.Today()),
		syncer:   syncer,
		Today:    date.Today,
		Currency: DefaultCurrency,
		subs:     make(map[int]func(Change)),
	}
}

// Subscribe registers a function called after each change. It returns a function to
// unsubscribe.
func (t *Tracker) Subscribe(f func(Change)) (cancel func()) {
	id := t.nextSub
	t.nextSub++
	t.subs[id] = f
	return func() { delete(t.subs, id) }
}

func (t *Tracker) notify(c Change) {
	keys := make([]int, 0, len(t.subs))
	for k := range t.subs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		t.subs[k](c)
	}
}

// commit saves the current state and notifies the change. The mutation stays applied when the
// save fails.
func (t *Tracker) commit(kind ChangeKind, subject string) error {
	err := t.syncer.Save(t.Document())
	t.notify(Change{Kind: kind, Subject: subject, Err: err})
	return err
}

// Load reads the stored state through the syncer and replaces the tracker content with it.
func (t *Tracker) Load(ctx context.Context) error {
	doc, err := t.syncer.Load(ctx)
	if doc != nil {
		t.apply(doc)
	}
	t.notify(Change{Kind: Loaded, Err: err})
	return err
}

func (t *Tracker) apply(doc *Document) {
	t.ledger.Reset(doc.Entries)
	*t.accounts = *NewCatalog(doc.Accounts...)
	t.bills = slices.Clone(doc.Bills)
	for i := range t.bills {
		if t.bills[i].ID == "" {
			t.bills[i].ID = NewID()
		}
	}
	t.goals = slices.Clone(doc.Goals)
	for i := range t.goals {
		if t.goals[i].ID == "" {
			t.goals[i].ID = NewID()
		}
	}
}

// Document returns the current state as a document.
func (t *Tracker) Document() *Document {
	return &Document{
		Entries:  t.ledger.Snapshot(),
		Accounts: t.accounts.Names(),
		Bills:    slices.Clone(t.bills),
		Goals:    slices.Clone(t.goals),
	}
}

// Syncer returns the syncer used to persist the state.
func (t *Tracker) Syncer() *Syncer { return t.syncer }

// AddOrReplaceEntry adds the entry, or replaces the one with the same id.
func (t *Tracker) AddOrReplaceEntry(e Entry) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	replaced, err := t.ledger.AddOrReplace(e)
	if err != nil {
		return err
	}
	if replaced {
		return t.commit(EntryReplaced, string(e.ID))
	}
	return t.commit(EntryAdded, string(e.ID))
}

// DeleteEntry removes the entry with the given id.
func (t *Tracker) DeleteEntry(id ID) error {
	if _, err := t.ledger.Delete(id); err != nil {
		return err
	}
	return t.commit(EntryDeleted, string(id))
}

// Entry returns the entry with the given id.
func (t *Tracker) Entry(id ID) (Entry, bool) { return t.ledger.Get(id) }

// FindEntry returns the entry whose id starts with prefix, when exactly one does.
func (t *Tracker) FindEntry(prefix string) (Entry, error) {
	if prefix == "" {
		return Entry{}, invalid("id", "empty")
	}
	if e, ok := t.ledger.Get(ID(prefix)); ok {
		return e, nil
	}
	var found []Entry
	for _, e := range t.ledger.Entries() {
		if strings.HasPrefix(string(e.ID), prefix) {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return Entry{}, fmt.Errorf("%q: %w", prefix, ErrUnknownEntry)
	case 1:
		return found[0], nil
	default:
		return Entry{}, fmt.Errorf("%q matches %d entries", prefix, len(found))
	}
}

// Settle records the entry that zeroes the debt with the counterparty.
func (t *Tracker) Settle(name, account string) (Entry, error) {
	d, ok := FindDebt(Debts(t.ledger.Snapshot()), name)
	if !ok {
		return Entry{}, fmt.Errorf("no debt with %q", name)
	}
	if account == "" {
		account = t.accounts.First()
	}
	e, ok := d.Settlement(t.Today(), account)
	if !ok {
		return Entry{}, fmt.Errorf("debt with %q is already settled", name)
	}
	e.ID = NewID()
	return e, t.AddOrReplaceEntry(e)
}

// SetPeriodFilter selects the period scoping the filtered views. It is not persisted.
func (t *Tracker) SetPeriodFilter(f Filter) error {
	if err := t.period.Set(f); err != nil {
		return err
	}
	t.notify(Change{Kind: PeriodChanged, Subject: f.String()})
	return nil
}

// Filter returns the active period filter.
func (t *Tracker) Filter() Filter { return t.period.Filter() }

// Period returns the period selector state.
func (t *Tracker) Period() *PeriodSelector { return t.period }

// Entries returns the entries in the active period, newest first.
func (t *Tracker) Entries(filters ...func(Entry) bool) []Entry {
	filters = append(filters, t.Filter().Predicate(t.Today()))
	return Chronological(t.ledger.Snapshot(filters...))
}

// AllEntries returns every entry in store order.
func (t *Tracker) AllEntries() []Entry { return t.ledger.Snapshot() }

// Totals sums the entries in the active period.
func (t *Tracker) Totals() Totals { return Tally(t.Entries()) }

// Debts returns the debt book over the full history.
func (t *Tracker) Debts() []Debt { return Debts(t.ledger.Snapshot()) }

// AccountBalances returns the balance of every account over the full history.
func (t *Tracker) AccountBalances() []AccountLine {
	return AccountBalances(t.ledger.Snapshot(), t.accounts)
}

// Money binds an amount to the display currency.
func (t *Tracker) Money(v decimal.Decimal) Money { return M(v, t.Currency) }

// Accounts returns the account labels.
func (t *Tracker) Accounts() []string { return t.accounts.Names() }

// Catalog returns the account catalog, for read only use.
func (t *Tracker) Catalog() *Catalog { return t.accounts }

// AddAccount adds an account label. Adding a present label is a no-op.
func (t *Tracker) AddAccount(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return invalid("account", "empty")
	}
	if !t.accounts.Add(label) {
		return nil
	}
	return t.commit(AccountAdded, label)
}

// DeleteAccount removes an account label. Entries recorded on it are left untouched.
func (t *Tracker) DeleteAccount(label string) error {
	if !t.accounts.Delete(label) {
		return fmt.Errorf("%q: %w", label, ErrUnknownAccount)
	}
	return t.commit(AccountDeleted, label)
}

// Bills returns the recurring bills.
func (t *Tracker) Bills() []Bill { return slices.Clone(t.bills) }

// BillStatuses returns the status of every bill for the current month.
func (t *Tracker) BillStatuses() []BillStatus {
	return BillStatuses(t.bills, t.ledger.Snapshot(), t.Today())
}

// AddBill adds a recurring bill and returns it with its id.
func (t *Tracker) AddBill(b Bill) (Bill, error) {
	if err := b.Validate(); err != nil {
		return Bill{}, err
	}
	if b.ID == "" {
		b.ID = NewID()
	}
	if slices.ContainsFunc(t.bills, func(x Bill) bool { return x.ID == b.ID }) {
		return Bill{}, fmt.Errorf("bill %q: %w", b.ID, ErrDuplicateID)
	}
	t.bills = append(t.bills, b)
	return b, t.commit(BillAdded, string(b.ID))
}

// DeleteBill removes a bill.
func (t *Tracker) DeleteBill(id ID) error {
	i := slices.IndexFunc(t.bills, func(b Bill) bool { return b.ID == id })
	if i < 0 {
		return fmt.Errorf("%q: %w", id, ErrUnknownBill)
	}
	t.bills = slices.Delete(t.bills, i, i+1)
	return t.commit(BillDeleted, string(id))
}

// Goals returns the goals.
func (t *Tracker) Goals() []Goal { return slices.Clone(t.goals) }

// AddGoal adds a goal and returns it with its id.
func (t *Tracker) AddGoal(g Goal) (Goal, error) {
	if err := g.Validate(); err != nil {
		return Goal{}, err
	}
	if g.ID == "" {
		g.ID = NewID()
	}
	if slices.ContainsFunc(t.goals, func(x Goal) bool { return x.ID == g.ID }) {
		return Goal{}, fmt.Errorf("goal %q: %w", g.ID, ErrDuplicateID)
	}
	t.goals = append(t.goals, g)
	return g, t.commit(GoalAdded, string(g.ID))
}

// DeleteGoal removes a goal.
func (t *Tracker) DeleteGoal(id ID) error {
	i := slices.IndexFunc(t.goals, func(g Goal) bool { return g.ID == id })
	if i < 0 {
		return fmt.Errorf("%q: %w", id, ErrUnknownGoal)
	}
	t.goals = slices.Delete(t.goals, i, i+1)
	return t.commit(GoalDeleted, string(id))
}

// AddMoneyToGoal increases the saved amount of a goal.
func (t *Tracker) AddMoneyToGoal(id ID, amount decimal.Decimal) (Goal, error) {
	i := slices.IndexFunc(t.goals, func(g Goal) bool { return g.ID == id })
	if i < 0 {
		return Goal{}, fmt.Errorf("%q: %w", id, ErrUnknownGoal)
	}
	g := t.goals[i]
	if err := g.AddMoney(amount); err != nil {
		return Goal{}, err
	}
	t.goals[i] = g
	return g, t.commit(GoalFunded, string(id))
}

// Reset deletes everything: entries, bills and goals are emptied, the catalog is reduced to
// "Cash", the local cache is cleared and the empty state saved everywhere.
func (t *Tracker) Reset() error {
	t.ledger.Reset(nil)
	*t.accounts = *NewCatalog("Cash")
	t.bills = nil
	t.goals = nil
	if err := t.syncer.Clear(); err != nil {
		t.notify(Change{Kind: ResetDone, Err: err})
		return err
	}
	return t.commit(ResetDone, "")
}

// NewEditor returns a closed entry editor offering the tracker accounts.
func (t *Tracker) NewEditor() *Editor { return NewEditor(t.accounts) }
