package budget

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/etnz/budget/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// amounts are persisted as JSON numbers, like the documents written by older clients.
	decimal.MarshalJSONWithoutQuotes = true
}

// ID identifies an entry. It is opaque, immutable and unique within a ledger.
type ID string

// NewID returns a fresh random ID.
func NewID() ID { return ID(uuid.NewString()) }

// UnmarshalJSON accepts both strings and numbers: older documents used epoch milliseconds.
func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

// Kind is the nature of an entry.
type Kind string

const (
	Income       Kind = "income"
	Expense      Kind = "expense"
	DebtLent     Kind = "debt_lent"
	DebtBorrowed Kind = "debt_borrowed"
)

// Kinds lists all valid kinds.
var Kinds = []Kind{Income, Expense, DebtLent, DebtBorrowed}

// ParseKind parses a kind from its wire value or a friendly alias.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "in":
		return Income, nil
	case "expense", "out":
		return Expense, nil
	case "debt_lent", "lent", "lend":
		return DebtLent, nil
	case "debt_borrowed", "borrowed", "borrow":
		return DebtBorrowed, nil
	default:
		return "", invalid("kind", "unknown kind %q", s)
	}
}

// Valid reports whether k is one of the four kinds.
func (k Kind) Valid() bool {
	switch k {
	case Income, Expense, DebtLent, DebtBorrowed:
		return true
	}
	return false
}

// IsDebt reports whether k is a debt kind.
func (k Kind) IsDebt() bool { return k == DebtLent || k == DebtBorrowed }

// Inflow reports whether the entry brings money into the wallet.
func (k Kind) Inflow() bool { return k == Income || k == DebtBorrowed }

// Opposite returns the debt kind that cancels k. Non debt kinds are returned unchanged.
func (k Kind) Opposite() Kind {
	switch k {
	case DebtLent:
		return DebtBorrowed
	case DebtBorrowed:
		return DebtLent
	}
	return k
}

// Label is the human name of the kind.
func (k Kind) Label() string {
	switch k {
	case Income:
		return "Income"
	case Expense:
		return "Expense"
	case DebtLent:
		return "Lent"
	case DebtBorrowed:
		return "Borrowed"
	}
	return string(k)
}

// Entry is one dated movement of money.
//
// For income and expense entries the description is "<category>" or "<category> (<note>)". For
// debt entries it is the counterparty name.
type Entry struct {
	ID          ID
	Date        date.Date
	Description string
	Amount      decimal.Decimal
	Kind        Kind
	Account     string
	Note        string
}

// Validate checks the entry invariants.
func (e Entry) Validate() error {
	if e.ID == "" {
		return invalid("id", "empty")
	}
	if e.Date.IsZero() {
		return invalid("date", "missing")
	}
	if !e.Amount.IsPositive() {
		return invalid("amount", "%s is not positive", e.Amount)
	}
	if !e.Kind.Valid() {
		return invalid("kind", "unknown kind %q", e.Kind)
	}
	if e.Kind.IsDebt() && strings.TrimSpace(e.Description) == "" {
		return invalid("counterparty", "empty")
	}
	return nil
}

// Signed returns the amount signed by its effect on the wallet.
func (e Entry) Signed() decimal.Decimal {
	if e.Kind.Inflow() {
		return e.Amount
	}
	return e.Amount.Neg()
}

// Category returns the description text before the first "(".
func (e Entry) Category() string {
	category, _ := SplitDescription(e.Description)
	return category
}

// ComposeDescription builds an income or expense description.
func ComposeDescription(category, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return category
	}
	return fmt.Sprintf("%s (%s)", category, note)
}

// SplitDescription is the reverse of ComposeDescription: category is the text before the first
// "(", note the text inside the first pair of parentheses.
func SplitDescription(desc string) (category, note string) {
	open := strings.Index(desc, "(")
	if open < 0 {
		return strings.TrimSpace(desc), ""
	}
	category = strings.TrimSpace(desc[:open])
	rest := desc[open+1:]
	if end := strings.Index(rest, ")"); end >= 0 {
		note = rest[:end]
	}
	return category, note
}

// wireEntry is the persisted shape of an entry.
type wireEntry struct {
	ID          ID              `json:"id"`
	Date        date.Date       `json:"date"`
	Description string          `json:"desc"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        Kind            `json:"type"`
	Account     string          `json:"method"`
	Note        string          `json:"note"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Append("date", e.Date)
	w.Append("desc", e.Description)
	w.Append("amount", e.Amount)
	w.Append("type", e.Kind)
	w.Append("method", e.Account)
	w.Optional("note", e.Note)
	return w.MarshalJSON()
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var w wireEntry
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = Entry(w)
	return nil
}
