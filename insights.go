package budget

import (
	"slices"
	"strings"

	"github.com/etnz/budget/date"
	"github.com/shopspring/decimal"
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
	Share    decimal.Decimal // percent of the total expense
}

// ExpenseByCategory sums the expenses per category, largest first, ties by name. limit > 0
// keeps only the first limit categories.
func ExpenseByCategory(entries []Entry, limit int) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, e := range entries {
		if e.Kind != Expense {
			continue
		}
		c := e.Category()
		sums[c] = sums[c].Add(e.Amount)
		total = total.Add(e.Amount)
	}
	out := make([]CategoryTotal, 0, len(sums))
	for c, v := range sums {
		out = append(out, CategoryTotal{Category: c, Amount: v, Share: percent(v, total)})
	}
	slices.SortFunc(out, func(a, b CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return strings.Compare(a.Category, b.Category)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DayTotal is the amount spent on one day.
type DayTotal struct {
	Date   date.Date
	Amount decimal.Decimal
}

// DailyExpense sums the expenses per day, oldest first.
func DailyExpense(entries []Entry) []DayTotal {
	sums := make(map[date.Date]decimal.Decimal)
	for _, e := range entries {
		if e.Kind == Expense {
			sums[e.Date] = sums[e.Date].Add(e.Amount)
		}
	}
	out := make([]DayTotal, 0, len(sums))
	for d, v := range sums {
		out = append(out, DayTotal{Date: d, Amount: v})
	}
	slices.SortFunc(out, func(a, b DayTotal) int { return a.Date.Compare(b.Date) })
	return out
}
