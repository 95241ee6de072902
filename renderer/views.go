package renderer

import (
	"fmt"

	"github.com/etnz/budget"
)

// Summary is the view of the totals of a period.
type Summary struct {
	Title       string
	Income      string
	Expense     string
	Lent        string
	Borrowed    string
	Wallet      string
	SavingsRate string
	Outstanding string
	Categories  []CategoryRow
	Entries     EntryList
}

// CategoryRow is one line of the top spending table.
type CategoryRow struct {
	Category string
	Amount   string
	Share    string
}

// EntryList is a titled list of entries.
type EntryList struct {
	Period string
	Rows   []EntryRow
}

// EntryRow is one entry.
type EntryRow struct {
	ID          string
	Date        string
	Kind        string
	Description string
	Account     string
	Amount      string
}

// Debts is the view of the debt book.
type Debts struct {
	Rows        []DebtRow
	Outstanding string
}

// DebtRow is the position with one counterparty.
type DebtRow struct {
	Name    string
	Balance string
	Status  string
	Last    string
}

// Accounts is the view of the account balances.
type Accounts struct {
	Rows []AccountRow
}

// AccountRow is the balance of one account.
type AccountRow struct {
	Account string
	Balance string
	Listed  bool
}

// Bills is the view of the bills of a month.
type Bills struct {
	Month string
	Rows  []BillRow
}

// BillRow is the status of one bill.
type BillRow struct {
	ID     string
	Name   string
	Amount string
	Due    string
	Status string
}

// Goals is the view of the goals.
type Goals struct {
	Rows []GoalRow
}

// GoalRow is the progress of one goal.
type GoalRow struct {
	ID       string
	Name     string
	Saved    string
	Target   string
	Progress string
}

// shortID keeps the first characters of an id, enough to designate it on the command line.
func shortID(id budget.ID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// NewSummary builds the summary of the tracker active period, with at most topN spending
// categories.
func NewSummary(tr *budget.Tracker, topN int) *Summary {
	totals := tr.Totals()
	label := tr.Filter().Label(tr.Today())
	s := &Summary{
		Title:       "Summary: " + label,
		Income:      tr.Money(totals.Income).String(),
		Expense:     tr.Money(totals.Expense).String(),
		Lent:        tr.Money(totals.Lent).String(),
		Borrowed:    tr.Money(totals.Borrowed).String(),
		Wallet:      tr.Money(totals.Wallet()).String(),
		SavingsRate: totals.SavingsRate().String(),
		Outstanding: tr.Money(totals.NetOutstanding()).String(),
		Entries:     *NewEntryList(tr, tr.Entries()),
	}
	for _, c := range budget.ExpenseByCategory(tr.Entries(), topN) {
		s.Categories = append(s.Categories, CategoryRow{
			Category: c.Category,
			Amount:   tr.Money(c.Amount).String(),
			Share:    c.Share.String(),
		})
	}
	return s
}

// NewEntryList builds the view of the entries, labelled with the tracker active period.
func NewEntryList(tr *budget.Tracker, entries []budget.Entry) *EntryList {
	l := &EntryList{Period: tr.Filter().Label(tr.Today())}
	for _, e := range entries {
		l.Rows = append(l.Rows, EntryRow{
			ID:          shortID(e.ID),
			Date:        e.Date.String(),
			Kind:        e.Kind.Label(),
			Description: e.Description,
			Account:     e.Account,
			Amount:      tr.Money(e.Amount).String(),
		})
	}
	return l
}

// NewDebts builds the debt book view. Settled counterparties are skipped unless all is set.
func NewDebts(tr *budget.Tracker, all bool) *Debts {
	debts := tr.Debts()
	d := &Debts{Outstanding: tr.Money(budget.NetOutstanding(debts)).String()}
	for _, debt := range debts {
		if debt.Settled() && !all {
			continue
		}
		status := "settled"
		switch {
		case debt.Balance.IsPositive():
			status = "owes you"
		case debt.Balance.IsNegative():
			status = "you owe"
		}
		d.Rows = append(d.Rows, DebtRow{
			Name:    debt.Name,
			Balance: tr.Money(debt.Balance.Abs()).String(),
			Status:  status,
			Last:    debt.Last.String(),
		})
	}
	return d
}

// NewAccounts builds the account balances view.
func NewAccounts(tr *budget.Tracker) *Accounts {
	a := &Accounts{}
	for _, l := range tr.AccountBalances() {
		a.Rows = append(a.Rows, AccountRow{
			Account: l.Account,
			Balance: tr.Money(l.Balance).String(),
			Listed:  l.Listed,
		})
	}
	return a
}

// NewBills builds the view of the bills for the current month.
func NewBills(tr *budget.Tracker) *Bills {
	b := &Bills{Month: tr.Today().Format("January 2006")}
	for _, s := range tr.BillStatuses() {
		name := s.Name
		if s.Icon != "" {
			name = s.Icon + " " + name
		}
		b.Rows = append(b.Rows, BillRow{
			ID:     shortID(s.ID),
			Name:   name,
			Amount: tr.Money(s.Amount).String(),
			Due:    s.Due.String(),
			Status: billStatus(s),
		})
	}
	return b
}

func billStatus(s budget.BillStatus) string {
	switch {
	case s.Paid:
		return "paid"
	case s.DaysTo == 0:
		return "due today"
	case s.Overdue:
		return fmt.Sprintf("overdue by %d %s", -s.DaysTo, days(-s.DaysTo))
	}
	return fmt.Sprintf("due in %d %s", s.DaysTo, days(s.DaysTo))
}

func days(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}

// NewGoals builds the goals view.
func NewGoals(tr *budget.Tracker) *Goals {
	g := &Goals{}
	for _, goal := range tr.Goals() {
		g.Rows = append(g.Rows, GoalRow{
			ID:       shortID(goal.ID),
			Name:     goal.Name,
			Saved:    tr.Money(goal.Saved).String(),
			Target:   tr.Money(goal.Target).String(),
			Progress: goal.Progress().String(),
		})
	}
	return g
}
