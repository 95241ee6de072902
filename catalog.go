package budget

import (
	"slices"
	"strings"
)

// DefaultAccounts seeds every catalog.
var DefaultAccounts = []string{"Cash", "UPI", "GPay", "PhonePe", "Paytm", "Card", "Credit Card", "NetBanking"}

// ExpenseCategories are the categories offered for expense entries.
var ExpenseCategories = []string{
	"Groceries", "Dining Out", "Fuel", "Transport", "Utilities", "Shopping",
	"Entertainment", "Health", "Bills", "Education", "Other",
}

// IncomeCategories are the categories offered for income entries.
var IncomeCategories = []string{"Salary", "Bonus", "Investment", "Gift", "Sale", "Lottery", "Other"}

// Categories returns the categories offered for the kind, none for debt kinds.
func Categories(k Kind) []string {
	switch k {
	case Expense:
		return ExpenseCategories
	case Income:
		return IncomeCategories
	}
	return nil
}

// Catalog is the ordered set of account labels.
//
// Labels are matched by exact string equality. Deleting an account does not touch the entries
// recorded on it.
type Catalog struct {
	names []string
}

// NewCatalog returns a catalog holding the given labels, duplicates and blanks dropped.
func NewCatalog(names ...string) *Catalog {
	c := &Catalog{}
	for _, n := range names {
		c.Add(n)
	}
	return c
}

// DefaultCatalog returns a catalog seeded with DefaultAccounts.
func DefaultCatalog() *Catalog { return NewCatalog(DefaultAccounts...) }

// Names returns a copy of the labels in order.
func (c *Catalog) Names() []string { return slices.Clone(c.names) }

// Len returns the number of labels.
func (c *Catalog) Len() int { return len(c.names) }

// Has reports whether the label is in the catalog.
func (c *Catalog) Has(name string) bool { return slices.Contains(c.names, name) }

// Add appends a label. It reports false if the label is blank or already present.
func (c *Catalog) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || c.Has(name) {
		return false
	}
	c.names = append(c.names, name)
	return true
}

// Delete removes a label. It reports false if the label was not present.
func (c *Catalog) Delete(name string) bool {
	i := slices.Index(c.names, name)
	if i < 0 {
		return false
	}
	c.names = slices.Delete(c.names, i, i+1)
	return true
}

// Union appends the labels not already present, keeping the current order first.
func (c *Catalog) Union(names ...string) {
	for _, n := range names {
		c.Add(n)
	}
}

// First returns the first label, "Cash" for an empty catalog.
func (c *Catalog) First() string {
	if len(c.names) == 0 {
		return "Cash"
	}
	return c.names[0]
}
