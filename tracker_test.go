package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/budget/date"
	"github.com/google/go-cmp/cmp"
)

// newTestTracker returns a tracker on an in-memory cache, with today fixed and the changes
// recorded.
func newTestTracker(t *testing.T, remote RemoteStore, user string) (*Tracker, *memCache, *[]Change) {
	t.Helper()
	cache := newMemCache()
	tr := NewTracker(newTestSyncer(cache, remote, user))
	tr.Today = func() date.Date { return date.MustParse("2025-01-15") }
	var changes []Change
	tr.Subscribe(func(c Change) { changes = append(changes, c) })
	return tr, cache, &changes
}

func kinds(changes []Change) []ChangeKind {
	out := make([]ChangeKind, 0, len(changes))
	for _, c := range changes {
		out = append(out, c.Kind)
	}
	return out
}

func TestTracker_OneChangePerMutation(t *testing.T) {
	tr, cache, changes := newTestTracker(t, nil, "")
	if err := tr.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	e := entry("1", "2025-01-02", Expense, "1200", "Groceries")
	steps := []func() error{
		func() error { return tr.AddOrReplaceEntry(e) },
		func() error { e.Amount = D("1300"); return tr.AddOrReplaceEntry(e) },
		func() error { return tr.AddAccount("Wallet") },
		func() error { return tr.AddAccount("Wallet") }, // no-op
		func() error { return tr.DeleteAccount("Wallet") },
		func() error { return tr.SetPeriodFilter(MonthFilter(2025, 1)) },
		func() error { return tr.DeleteEntry("1") },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d unexpected error: %v", i, err)
		}
	}
	want := []ChangeKind{Loaded, EntryAdded, EntryReplaced, AccountAdded, AccountDeleted, PeriodChanged, EntryDeleted}
	if diff := cmp.Diff(want, kinds(*changes)); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
	doc, err := DecodeDocument([]byte(cache.values[DefaultCacheKey]))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Entries) != 0 {
		t.Errorf("cache still holds %v", ids(doc.Entries))
	}
}

func TestTracker_FailedMutationsEmitNothing(t *testing.T) {
	tr, _, changes := newTestTracker(t, nil, "")
	if err := tr.DeleteEntry("nope"); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("DeleteEntry(nope) = %v, want ErrUnknownEntry", err)
	}
	if err := tr.DeleteAccount("nope"); !errors.Is(err, ErrUnknownAccount) {
		t.Errorf("DeleteAccount(nope) = %v, want ErrUnknownAccount", err)
	}
	if err := tr.AddAccount("  "); err == nil {
		t.Errorf("AddAccount(blank) should fail")
	}
	if _, err := tr.AddMoneyToGoal("nope", D("1")); !errors.Is(err, ErrUnknownGoal) {
		t.Errorf("AddMoneyToGoal(nope) = %v, want ErrUnknownGoal", err)
	}
	if len(*changes) != 0 {
		t.Errorf("failed mutations emitted %v", kinds(*changes))
	}
}

func TestTracker_CacheFailureKeepsMutation(t *testing.T) {
	tr, cache, changes := newTestTracker(t, nil, "")
	cache.err = errOffline
	err := tr.AddOrReplaceEntry(entry("1", "2025-01-02", Expense, "10", "Fuel"))
	if !errors.Is(err, errOffline) {
		t.Fatalf("AddOrReplaceEntry() = %v, want the cache error", err)
	}
	if _, ok := tr.Entry("1"); !ok {
		t.Errorf("the entry was not kept in memory")
	}
	if len(*changes) != 1 || !errors.Is((*changes)[0].Err, errOffline) {
		t.Errorf("changes = %v, want one change carrying the error", *changes)
	}
}

func TestTracker_PeriodViews(t *testing.T) {
	tr, _, _ := newTestTracker(t, nil, "")
	for _, e := range []Entry{
		entry("1", "2024-12-31", Income, "5000", "Salary"),
		entry("2", "2025-01-02", Expense, "1200", "Groceries"),
		entry("3", "2025-01-03", DebtLent, "300", "Sam"),
	} {
		if err := tr.AddOrReplaceEntry(e); err != nil {
			t.Fatal(err)
		}
	}
	if got := tr.Totals().Wallet(); !got.Equal(D("3500")) {
		t.Errorf("all time Wallet() = %v, want 3500", got)
	}
	tr.SetPeriodFilter(MonthFilter(2025, 1))
	if got := ids(tr.Entries()); !cmp.Equal(got, []ID{"3", "2"}) {
		t.Errorf("January entries = %v, want [3 2]", got)
	}
	if got := tr.Totals().Wallet(); !got.Equal(D("-1500")) {
		t.Errorf("January Wallet() = %v, want -1500", got)
	}
	// debts and account balances ignore the period.
	if sam, _ := FindDebt(tr.Debts(), "Sam"); !sam.Balance.Equal(D("300")) {
		t.Errorf("Sam = %v, want 300", sam.Balance)
	}
	if lines := tr.AccountBalances(); !lines[0].Balance.Equal(D("3500")) {
		t.Errorf("Cash = %v, want 3500", lines[0].Balance)
	}
}

func TestTracker_Settle(t *testing.T) {
	tr, _, changes := newTestTracker(t, nil, "")
	tr.AddOrReplaceEntry(entry("1", "2025-01-03", DebtLent, "300", "Sam"))
	before := Tally(tr.AllEntries()).Wallet()

	e, err := tr.Settle("Sam", "")
	if err != nil {
		t.Fatalf("Settle() unexpected error: %v", err)
	}
	if e.Kind != DebtBorrowed || e.Date != tr.Today() || e.Account != "Cash" {
		t.Errorf("Settle() = %+v", e)
	}
	if sam, _ := FindDebt(tr.Debts(), "Sam"); !sam.Settled() {
		t.Errorf("Sam not settled: %v", sam.Balance)
	}
	if after := Tally(tr.AllEntries()).Wallet(); !after.Sub(before).Equal(D("300")) {
		t.Errorf("wallet moved by %v, want 300", after.Sub(before))
	}
	if _, err := tr.Settle("Sam", ""); err == nil {
		t.Errorf("Settle() of a settled debt should fail")
	}
	if _, err := tr.Settle("Nobody", ""); err == nil {
		t.Errorf("Settle() of an unknown counterparty should fail")
	}
	if len(*changes) != 2 {
		t.Errorf("changes = %v, want 2", kinds(*changes))
	}
}

func TestTracker_BillsAndGoals(t *testing.T) {
	tr, _, changes := newTestTracker(t, nil, "")
	b, err := tr.AddBill(Bill{Name: "Rent", Amount: D("900"), DueDay: 5})
	if err != nil {
		t.Fatal(err)
	}
	if b.ID == "" {
		t.Errorf("AddBill() did not assign an id")
	}
	if _, err := tr.AddBill(Bill{Name: "Rent", Amount: D("900"), DueDay: 40}); err == nil {
		t.Errorf("AddBill(dueDay 40) should fail")
	}
	g, err := tr.AddGoal(Goal{Name: "Bike", Target: D("1000")})
	if err != nil {
		t.Fatal(err)
	}
	g, err = tr.AddMoneyToGoal(g.ID, D("250"))
	if err != nil {
		t.Fatal(err)
	}
	if !g.Progress().Equal(D("25")) || !tr.Goals()[0].Saved.Equal(D("250")) {
		t.Errorf("goal = %+v, want 250 saved", tr.Goals()[0])
	}
	if s := tr.BillStatuses(); len(s) != 1 || s[0].Paid || !s[0].Overdue {
		t.Errorf("BillStatuses() = %+v, want Rent overdue on the 15th", s)
	}
	if err := tr.DeleteBill(b.ID); err != nil {
		t.Fatal(err)
	}
	if err := tr.DeleteGoal(g.ID); err != nil {
		t.Fatal(err)
	}
	want := []ChangeKind{BillAdded, GoalAdded, GoalFunded, BillDeleted, GoalDeleted}
	if diff := cmp.Diff(want, kinds(*changes)); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestTracker_Reset(t *testing.T) {
	remote := newMemRemote()
	tr, cache, changes := newTestTracker(t, remote, "alice")
	ed := tr.NewEditor()
	tr.AddOrReplaceEntry(entry("1", "2025-01-03", Income, "300", "Gift"))
	tr.AddAccount("Wallet")
	tr.AddGoal(Goal{Name: "Bike", Target: D("1000")})

	if err := tr.Reset(); err != nil {
		t.Fatalf("Reset() unexpected error: %v", err)
	}
	tr.Syncer().Wait()
	if len(tr.AllEntries()) != 0 || len(tr.Goals()) != 0 {
		t.Errorf("Reset() kept %d entries and %d goals", len(tr.AllEntries()), len(tr.Goals()))
	}
	if diff := cmp.Diff([]string{"Cash"}, tr.Accounts()); diff != "" {
		t.Errorf("accounts mismatch (-want +got):\n%s", diff)
	}
	if got := (*changes)[len(*changes)-1].Kind; got != ResetDone {
		t.Errorf("last change = %v, want %v", got, ResetDone)
	}
	if _, ok := cache.values[DefaultCacheKey]; !ok {
		t.Errorf("Reset() did not save the empty state")
	}
	if doc := remote.docs["alice"]; len(doc.Entries) != 0 || len(doc.Accounts) != 1 {
		t.Errorf("remote after Reset() = %+v", doc)
	}

	// an editor created before the reset offers the new accounts.
	ed.Open(tr.Today())
	if d, _ := ed.Draft(); d.Account != "Cash" {
		t.Errorf("editor account = %q, want Cash", d.Account)
	}
}

func TestTracker_LoadFromRemote(t *testing.T) {
	remote := newMemRemote()
	remote.docs["alice"] = &Document{
		Entries: []Entry{entry("1", "2025-01-03", Income, "300", "Gift")},
		Bills:   []Bill{{Name: "Rent", Amount: D("900"), DueDay: 5}},
	}
	tr, _, changes := newTestTracker(t, remote, "alice")
	if err := tr.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	tr.Syncer().Wait()
	if len(tr.AllEntries()) != 1 || len(tr.Bills()) != 1 || tr.Bills()[0].ID == "" {
		t.Errorf("Load() = %v entries, bills %+v", ids(tr.AllEntries()), tr.Bills())
	}
	if len(*changes) != 1 || (*changes)[0].Kind != Loaded {
		t.Errorf("Load() changes = %v, want one loaded", kinds(*changes))
	}
}

func TestTracker_FindEntry(t *testing.T) {
	tr, _, _ := newTestTracker(t, nil, "")
	tr.AddOrReplaceEntry(entry("abc1", "2025-01-03", Income, "1", "Gift"))
	tr.AddOrReplaceEntry(entry("abc2", "2025-01-03", Income, "1", "Gift"))
	if e, err := tr.FindEntry("abc1"); err != nil || e.ID != "abc1" {
		t.Errorf("FindEntry(abc1) = %v, %v", e.ID, err)
	}
	if _, err := tr.FindEntry("abc"); err == nil {
		t.Errorf("FindEntry(abc) should be ambiguous")
	}
	if _, err := tr.FindEntry("x"); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("FindEntry(x) = %v, want ErrUnknownEntry", err)
	}
	var verr *ValidationError
	if _, err := tr.FindEntry(""); !errors.As(err, &verr) {
		t.Errorf("FindEntry(\"\") = %v, want a ValidationError", err)
	}
}
