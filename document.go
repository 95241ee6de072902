package budget

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Document field names, as used by merge-writes.
const (
	FieldEntries     = "transactions"
	FieldAccounts    = "accounts"
	FieldBills       = "bills"
	FieldGoals       = "goals"
	FieldLastUpdated = "lastUpdated"
)

// DocumentFields lists every field written by a save.
var DocumentFields = []string{FieldEntries, FieldAccounts, FieldBills, FieldGoals, FieldLastUpdated}

// Document is the persisted state of a ledger, shared by the local cache and the remote store.
type Document struct {
	Entries     []Entry   `json:"transactions"`
	Accounts    []string  `json:"accounts"`
	Bills       []Bill    `json:"bills"`
	Goals       []Goal    `json:"goals"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Clone returns a deep enough copy of d: slices are copied, elements are values.
func (d *Document) Clone() *Document {
	return &Document{
		Entries:     slices.Clone(d.Entries),
		Accounts:    slices.Clone(d.Accounts),
		Bills:       slices.Clone(d.Bills),
		Goals:       slices.Clone(d.Goals),
		LastUpdated: d.LastUpdated,
	}
}

func (d Document) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.List(FieldEntries, d.Entries)
	w.List(FieldAccounts, d.Accounts)
	w.List(FieldBills, d.Bills)
	w.List(FieldGoals, d.Goals)
	if !d.LastUpdated.IsZero() {
		w.Append(FieldLastUpdated, d.LastUpdated.UTC().Format(time.RFC3339Nano))
	}
	return w.MarshalJSON()
}

// Fields marshals the named top-level fields of the document, for merge-writes.
func (d *Document) Fields(names ...string) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(names))
	for _, name := range names {
		if v, ok := all[name]; ok {
			out[name] = v
		}
	}
	return out, nil
}

//go:embed document.schema.json
var documentSchemaJSON []byte

var documentSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("document.schema.json", bytes.NewReader(documentSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("document.schema.json")
})

// ValidateDocument checks raw JSON against the document schema.
func ValidateDocument(data []byte) error {
	schema, err := documentSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// DecodeDocument validates and decodes a document.
func DecodeDocument(data []byte) (*Document, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}
	doc := new(Document)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	for _, e := range doc.Entries {
		if !e.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: entry %s amount %s is not positive", ErrInvalidDocument, e.ID, e.Amount)
		}
	}
	return doc, nil
}

// Query evaluates a JSONPath expression against the JSON form of the document, for instance
// `$.transactions[?(@.type=="debt_lent")].desc`.
func (d *Document) Query(path string) (any, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(b, &jobj); err != nil {
		return nil, err
	}
	v, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	return v, nil
}
