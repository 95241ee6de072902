package budget

import (
	"fmt"
	"strings"

	"github.com/etnz/budget/date"
)

// Draft holds the fields of the entry being edited.
type Draft struct {
	Kind         Kind
	Date         date.Date
	Category     string // income and expense only
	Counterparty string // debt only
	Note         string
	Account      string
	Amount       Expression
}

// Editor is the entry form. It is either closed, or open on a draft.
//
// An editor opened on an existing entry commits a replacement with the same id.
type Editor struct {
	catalog *Catalog
	open    bool
	editing ID
	draft   Draft
}

// NewEditor returns a closed editor offering the accounts of the catalog.
func NewEditor(catalog *Catalog) *Editor {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Editor{catalog: catalog}
}

// IsOpen reports whether a draft is being edited.
func (ed *Editor) IsOpen() bool { return ed.open }

// Editing returns the id of the entry being edited, if any.
func (ed *Editor) Editing() (ID, bool) { return ed.editing, ed.open && ed.editing != "" }

// Draft returns a copy of the current draft.
func (ed *Editor) Draft() (Draft, bool) { return ed.draft, ed.open }

// Open starts a new expense dated today.
func (ed *Editor) Open(today date.Date) {
	ed.open = true
	ed.editing = ""
	ed.draft = Draft{
		Kind:     Expense,
		Date:     today,
		Category: ExpenseCategories[0],
		Account:  ed.catalog.First(),
		Amount:   NewExpression(""),
	}
}

// OpenEdit starts editing an existing entry, every field prefilled from it.
func (ed *Editor) OpenEdit(e Entry) {
	ed.open = true
	ed.editing = e.ID
	ed.draft = Draft{
		Kind:    e.Kind,
		Date:    e.Date,
		Note:    e.Note,
		Account: e.Account,
		Amount:  NewExpression(e.Amount.String()),
	}
	if e.Kind.IsDebt() {
		ed.draft.Counterparty = e.Description
		return
	}
	ed.draft.Category, ed.draft.Note = SplitDescription(e.Description)
}

// OpenSettlement starts a new debt entry that settles the debt.
func (ed *Editor) OpenSettlement(d Debt, today date.Date) error {
	e, ok := d.Settlement(today, ed.catalog.First())
	if !ok {
		return fmt.Errorf("%s: nothing to settle", d.Name)
	}
	ed.OpenEdit(e)
	ed.editing = ""
	return nil
}

// SetKind switches the draft kind. Moving between debt and non debt kinds swaps the field set:
// the category is reset to the first one of the new kind, and the amount is cleared. Switching
// the direction of a debt keeps the other fields.
func (ed *Editor) SetKind(k Kind) error {
	if !ed.open {
		return ErrEditorClosed
	}
	if !k.Valid() {
		return invalid("kind", "unknown kind %q", k)
	}
	prev := ed.draft.Kind
	ed.draft.Kind = k
	if prev.IsDebt() && k.IsDebt() {
		return nil
	}
	ed.draft.Amount = NewExpression("")
	if cats := Categories(k); len(cats) > 0 {
		ed.draft.Category = cats[0]
	} else {
		ed.draft.Category = ""
	}
	return nil
}

// Update applies a change to the draft fields.
func (ed *Editor) Update(change func(*Draft)) error {
	if !ed.open {
		return ErrEditorClosed
	}
	kind, amount := ed.draft.Kind, ed.draft.Amount
	change(&ed.draft)
	// kind and amount have their own transitions.
	ed.draft.Kind, ed.draft.Amount = kind, amount
	return nil
}

// Input forwards a key press to the amount keypad.
func (ed *Editor) Input(key string) error {
	if !ed.open {
		return ErrEditorClosed
	}
	return ed.draft.Amount.Input(key)
}

// Evaluate replaces the amount expression by its value.
func (ed *Editor) Evaluate() error {
	if !ed.open {
		return ErrEditorClosed
	}
	v, err := ed.draft.Amount.Evaluate()
	if err != nil {
		return err
	}
	ed.draft.Amount = NewExpression(v.String())
	return nil
}

// Commit validates the draft and returns the entry it describes. On success the editor is
// closed. On failure it returns a *ValidationError and stays open.
func (ed *Editor) Commit() (Entry, error) {
	if !ed.open {
		return Entry{}, ErrEditorClosed
	}
	d := ed.draft
	amount, err := d.Amount.Evaluate()
	if err != nil {
		return Entry{}, invalid("amount", "%q: %v", d.Amount, err)
	}
	if !amount.IsPositive() {
		return Entry{}, invalid("amount", "%s is not positive", amount)
	}
	if d.Date.IsZero() {
		return Entry{}, invalid("date", "missing")
	}

	e := Entry{
		ID:      ed.editing,
		Date:    d.Date,
		Amount:  amount,
		Kind:    d.Kind,
		Account: d.Account,
		Note:    strings.TrimSpace(d.Note),
	}
	if e.ID == "" {
		e.ID = NewID()
	}
	if d.Kind.IsDebt() {
		e.Description = strings.TrimSpace(d.Counterparty)
		if e.Description == "" {
			return Entry{}, invalid("counterparty", "enter the person name")
		}
	} else {
		e.Description = ComposeDescription(d.Category, e.Note)
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	ed.Close()
	return e, nil
}

// Close discards the draft.
func (ed *Editor) Close() {
	ed.open = false
	ed.editing = ""
	ed.draft = Draft{}
}
