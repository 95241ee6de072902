package budget

import (
	"strings"

	"github.com/etnz/budget/date"
	"github.com/shopspring/decimal"
)

// Bill is a recurring monthly payment.
type Bill struct {
	ID     ID              `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	DueDay int             `json:"dueDay"`
	Icon   string          `json:"icon,omitempty"`
}

// Validate checks the bill fields.
func (b Bill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return invalid("name", "empty")
	}
	if !b.Amount.IsPositive() {
		return invalid("amount", "%s is not positive", b.Amount)
	}
	if b.DueDay < 1 || b.DueDay > 31 {
		return invalid("dueDay", "%d is not in [1, 31]", b.DueDay)
	}
	return nil
}

// PaidIn reports whether an expense dated in the month of on mentions the bill name, ignoring
// case.
//
// This is a known weakness: any expense whose description contains the name counts, so a
// "Net" bill is marked paid by a "Netflix" expense.
func (b Bill) PaidIn(entries []Entry, on date.Date) bool {
	month := date.NewRange(on, date.Monthly)
	name := strings.ToLower(b.Name)
	for _, e := range entries {
		if e.Kind != Expense || !month.Contains(e.Date) {
			continue
		}
		if strings.Contains(strings.ToLower(e.Description), name) {
			return true
		}
	}
	return false
}

// DueIn returns the due date of the bill in the month of on.
func (b Bill) DueIn(on date.Date) date.Date { return on.InMonth(b.DueDay) }

// BillStatus is the state of a bill for the month of a given day.
type BillStatus struct {
	Bill
	Due     date.Date
	DaysTo  int // days from the given day to the due date, negative when overdue
	Paid    bool
	Overdue bool
}

// BillStatuses computes the status of each bill for the month of today.
func BillStatuses(bills []Bill, entries []Entry, today date.Date) []BillStatus {
	out := make([]BillStatus, 0, len(bills))
	for _, b := range bills {
		due := b.DueIn(today)
		s := BillStatus{
			Bill:   b,
			Due:    due,
			DaysTo: due.Sub(today),
			Paid:   b.PaidIn(entries, today),
		}
		s.Overdue = !s.Paid && s.DaysTo < 0
		out = append(out, s)
	}
	return out
}
