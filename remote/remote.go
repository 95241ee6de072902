// Package remote provides the remote document stores of the budget ledger. Each store holds one
// document per user and implements budget.RemoteStore: Get returns the whole document and
// MergeWrite replaces only the named top-level fields.
package remote

import (
	"encoding/json"
	"fmt"

	"github.com/etnz/budget"
)

var (
	_ budget.RemoteStore = (*Memory)(nil)
	_ budget.RemoteStore = (*Postgres)(nil)
	_ budget.RemoteStore = (*Client)(nil)
)

// Patch is a partial document: top-level field names to their raw JSON value.
type Patch map[string]json.RawMessage

// patchOf extracts the named fields of doc.
func patchOf(doc *budget.Document, fields []string) (Patch, error) {
	raw, err := doc.Fields(fields...)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return Patch(raw), nil
}

// decode validates and decodes a stored document.
func decode(p Patch) (*budget.Document, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return budget.DecodeDocument(b)
}

// Validate checks every field of the patch against the document schema.
func (p Patch) Validate() error {
	for name := range p {
		if !isField(name) {
			return fmt.Errorf("%w: unknown field %q", budget.ErrInvalidDocument, name)
		}
	}
	_, err := decode(p)
	return err
}

func isField(name string) bool {
	for _, f := range budget.DocumentFields {
		if f == name {
			return true
		}
	}
	return false
}
