package budget

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the unit of account used when none is configured.
const DefaultCurrency = "INR"

// Money is an amount in the ledger unit of account, bound to a currency for display.
//
// The ledger has a single unit of account, the currency is a display symbol only.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M builds a Money from a decimal amount and a currency code.
func M(value decimal.Decimal, currency string) Money {
	return Money{value: value, cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	cur := m.cur
	if cur == "" {
		cur = DefaultCurrency
	}
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, cur).Currency()
}

// String returns the string representation of the money value, e.g. "₹1,250.50".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string       { return m.cur }
func (m Money) Value() decimal.Decimal { return m.value }
func (m Money) IsZero() bool           { return m.value.IsZero() }
func (m Money) IsPositive() bool       { return m.value.IsPositive() }
func (m Money) IsNegative() bool       { return m.value.IsNegative() }
func (m Money) Abs() Money             { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) Neg() Money             { return Money{value: m.value.Neg(), cur: m.cur} }

// Add returns m+n in m's currency.
func (m Money) Add(n decimal.Decimal) Money { return Money{value: m.value.Add(n), cur: m.cur} }

// roundAmount rounds an amount to the two decimals kept by the ledger.
func roundAmount(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// percent returns part/whole*100 rounded to one decimal, 0 when whole is zero.
func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(1)
}
