package budget

import (
	"slices"
	"strings"

	"github.com/etnz/budget/date"
	"github.com/shopspring/decimal"
)

// Totals are the sums of a set of entries per kind.
type Totals struct {
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Lent     decimal.Decimal
	Borrowed decimal.Decimal
}

// Tally sums the entries per kind.
func Tally(entries []Entry) Totals {
	var t Totals
	for _, e := range entries {
		switch e.Kind {
		case Income:
			t.Income = t.Income.Add(e.Amount)
		case Expense:
			t.Expense = t.Expense.Add(e.Amount)
		case DebtLent:
			t.Lent = t.Lent.Add(e.Amount)
		case DebtBorrowed:
			t.Borrowed = t.Borrowed.Add(e.Amount)
		}
	}
	return t
}

// CashIn is the money that entered the wallet: income and borrowed money.
func (t Totals) CashIn() decimal.Decimal { return t.Income.Add(t.Borrowed) }

// CashOut is the money that left the wallet: expenses and lent money.
func (t Totals) CashOut() decimal.Decimal { return t.Expense.Add(t.Lent) }

// Wallet is CashIn - CashOut.
func (t Totals) Wallet() decimal.Decimal { return t.CashIn().Sub(t.CashOut()) }

// NetOutstanding is what others owe (positive) or what is owed to others (negative).
func (t Totals) NetOutstanding() decimal.Decimal { return t.Lent.Sub(t.Borrowed) }

// SavingsRate is the share of income not spent, in percent. 0 without income.
func (t Totals) SavingsRate() decimal.Decimal {
	return percent(t.Income.Sub(t.Expense), t.Income)
}

// AccountBalance folds the entries recorded on the account: income and borrowed money are
// credited, expenses and lent money debited.
//
// Account balances are always computed on the full history, never on a filtered view.
func AccountBalance(entries []Entry, account string) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		if e.Account == account {
			balance = balance.Add(e.Signed())
		}
	}
	return balance
}

// AccountLine is the balance of one account.
type AccountLine struct {
	Account string
	Balance decimal.Decimal
	Entries int
	Listed  bool // false when the account is used by entries but missing from the catalog
}

// AccountBalances computes the balance of every catalog account, followed by the accounts used
// in entries that are not in the catalog, sorted by name.
func AccountBalances(entries []Entry, catalog *Catalog) []AccountLine {
	lines := make(map[string]*AccountLine)
	var order []string
	for _, name := range catalog.Names() {
		lines[name] = &AccountLine{Account: name, Balance: decimal.Zero, Listed: true}
		order = append(order, name)
	}
	var unlisted []string
	for _, e := range entries {
		line, ok := lines[e.Account]
		if !ok {
			line = &AccountLine{Account: e.Account, Balance: decimal.Zero}
			lines[e.Account] = line
			unlisted = append(unlisted, e.Account)
		}
		line.Balance = line.Balance.Add(e.Signed())
		line.Entries++
	}
	slices.Sort(unlisted)
	order = append(order, unlisted...)

	out := make([]AccountLine, 0, len(order))
	for _, name := range order {
		out = append(out, *lines[name])
	}
	return out
}

// Debt is the net position with one counterparty.
type Debt struct {
	Name string
	// Balance is positive when the counterparty owes money, negative when money is owed to them.
	Balance  decimal.Decimal
	Lent     decimal.Decimal
	Borrowed decimal.Decimal
	// Entries contributing to the balance, newest first.
	Entries []Entry
	// Last is the date of the most recent entry.
	Last date.Date
}

// Settled reports whether nothing is owed either way.
func (d Debt) Settled() bool { return d.Balance.IsZero() }

// Owed reports whether the counterparty owes money.
func (d Debt) Owed() bool { return d.Balance.IsPositive() }

// Settlement returns the entry that brings the balance back to zero: money received back when
// the counterparty owes, money given back otherwise. The returned entry has no id.
func (d Debt) Settlement(on date.Date, account string) (Entry, bool) {
	if d.Balance.IsZero() {
		return Entry{}, false
	}
	kind := DebtLent
	if d.Balance.IsPositive() {
		kind = DebtBorrowed
	}
	return Entry{
		Date:        on,
		Description: d.Name,
		Amount:      d.Balance.Abs(),
		Kind:        kind,
		Account:     account,
		Note:        SettlementNote,
	}, true
}

// SettlementNote is the note set on entries that settle a debt.
const SettlementNote = "Settlement"

// Debts groups debt entries by counterparty and nets them: lent money adds, borrowed money
// subtracts. Counterparties are sorted by name, settled ones included.
func Debts(entries []Entry) []Debt {
	book := make(map[string]*Debt)
	for _, e := range Chronological(entries) {
		if !e.Kind.IsDebt() {
			continue
		}
		d, ok := book[e.Description]
		if !ok {
			d = &Debt{Name: e.Description, Balance: decimal.Zero, Lent: decimal.Zero, Borrowed: decimal.Zero, Last: e.Date}
			book[e.Description] = d
		}
		if e.Kind == DebtLent {
			d.Lent = d.Lent.Add(e.Amount)
		} else {
			d.Borrowed = d.Borrowed.Add(e.Amount)
		}
		d.Balance = d.Lent.Sub(d.Borrowed)
		d.Entries = append(d.Entries, e)
	}

	out := make([]Debt, 0, len(book))
	for _, d := range book {
		out = append(out, *d)
	}
	slices.SortFunc(out, func(a, b Debt) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// NetOutstanding sums the balances of all counterparties.
func NetOutstanding(debts []Debt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.Balance)
	}
	return total
}

// FindDebt returns the debt with the given counterparty.
func FindDebt(debts []Debt, name string) (Debt, bool) {
	i := slices.IndexFunc(debts, func(d Debt) bool { return d.Name == name })
	if i < 0 {
		return Debt{}, false
	}
	return debts[i], true
}
