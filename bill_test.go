package budget

import (
	"testing"

	"github.com/etnz/budget/date"
)

func TestBill_DueIn(t *testing.T) {
	b := Bill{Name: "Rent", Amount: D("900"), DueDay: 31}
	if got := b.DueIn(date.MustParse("2025-02-10")); got != date.MustParse("2025-02-28") {
		t.Errorf("DueIn(February) = %v, want the last day", got)
	}
	if got := b.DueIn(date.MustParse("2025-03-10")); got != date.MustParse("2025-03-31") {
		t.Errorf("DueIn(March) = %v, want 2025-03-31", got)
	}
}

func TestBillStatuses(t *testing.T) {
	today := date.MustParse("2025-03-10")
	bills := []Bill{
		{ID: "a", Name: "Rent", Amount: D("900"), DueDay: 5},
		{ID: "b", Name: "Netflix", Amount: D("10"), DueDay: 20},
		{ID: "c", Name: "Power", Amount: D("60"), DueDay: 1},
	}
	entries := []Entry{
		entry("1", "2025-03-04", Expense, "900", "Bills (rent march)"),
		entry("2", "2025-02-20", Expense, "10", "Entertainment (netflix)"),
		entry("3", "2025-03-01", Income, "60", "Other (power refund)"),
	}
	got := BillStatuses(bills, entries, today)
	tests := []struct {
		paid, overdue bool
		daysTo        int
	}{
		{true, false, -5},
		{false, false, 10}, // paid last month only
		{false, true, -9},  // an income does not pay
	}
	for i, tt := range tests {
		s := got[i]
		if s.Paid != tt.paid || s.Overdue != tt.overdue || s.DaysTo != tt.daysTo {
			t.Errorf("%s: paid %v overdue %v days %d, want %v %v %d", s.Name, s.Paid, s.Overdue, s.DaysTo, tt.paid, tt.overdue, tt.daysTo)
		}
	}

	// substring matching marks a short name paid by an unrelated expense.
	net := Bill{Name: "Net", Amount: D("5"), DueDay: 1}
	if !net.PaidIn([]Entry{entry("9", "2025-03-02", Expense, "10", "Entertainment (Netflix)")}, today) {
		t.Errorf("PaidIn() no longer matches substrings")
	}
}

func TestBill_Validate(t *testing.T) {
	for _, b := range []Bill{
		{Name: "", Amount: D("1"), DueDay: 1},
		{Name: "Rent", Amount: D("0"), DueDay: 1},
		{Name: "Rent", Amount: D("1"), DueDay: 0},
		{Name: "Rent", Amount: D("1"), DueDay: 32},
	} {
		if err := b.Validate(); err == nil {
			t.Errorf("Validate(%+v) should fail", b)
		}
	}
}
