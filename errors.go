package budget

import (
	"errors"
	"fmt"
)

// Ledger errors.
var (
	ErrDuplicateID  = errors.New("duplicate entry id")
	ErrUnknownEntry = errors.New("unknown entry id")
)

// Store errors.
var (
	// ErrNotFound is returned by a RemoteStore when the user has no document yet.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidDocument is returned when a document does not match the document schema.
	ErrInvalidDocument = errors.New("invalid document")
)

// Editor errors.
var (
	ErrEditorClosed      = errors.New("editor is closed")
	ErrInvalidExpression = errors.New("invalid expression")
	ErrDivisionByZero    = errors.New("division by zero")
)

// Collection errors.
var (
	ErrUnknownAccount = errors.New("unknown account")
	ErrUnknownBill    = errors.New("unknown bill")
	ErrUnknownGoal    = errors.New("unknown goal")
)

// ValidationError reports a field that does not satisfy a ledger invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
