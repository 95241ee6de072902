package budget

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Goal is a savings target.
//
// Saved money is a figure of its own, it is not backed by entries.
type Goal struct {
	ID     ID              `json:"id"`
	Name   string          `json:"name"`
	Target decimal.Decimal `json:"target"`
	Saved  decimal.Decimal `json:"saved"`
}

// Validate checks the goal fields.
func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return invalid("name", "empty")
	}
	if g.Target.IsNegative() {
		return invalid("target", "%s is negative", g.Target)
	}
	return nil
}

// AddMoney increases the saved amount.
func (g *Goal) AddMoney(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalid("amount", "%s is not positive", amount)
	}
	g.Saved = g.Saved.Add(amount)
	return nil
}

// Progress returns saved/target in percent, capped at 100. 0 when the target is 0.
func (g Goal) Progress() decimal.Decimal {
	p := percent(g.Saved, g.Target)
	if p.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return p
}

// Remaining is what is left to save, never negative.
func (g Goal) Remaining() decimal.Decimal {
	r := g.Target.Sub(g.Saved)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
