package ar

import (
	"errors"
	"fmt"
)

var (
	// ErrThinVariant indicates that a thin archive was requested for a variant other than GNU, which
	// is the only variant of the format with a thin mode.
	ErrThinVariant = errors.New("ar: thin archives are only supported by the GNU variant")

	// ErrWriterClosed indicates that a member was added to, or Close was called on, a Writer that has
	// already been closed.
	ErrWriterClosed = errors.New("ar: writer closed")

	errEmptyName   = errors.New("zero-length file name")
	errSlashInName = errors.New("file name ends with '/'")
	errCtrlInName  = errors.New("file name contains a newline or NUL byte")
)

// NameEncodingError indicates that an archive member's name cannot be represented in the header of
// the selected variant.
type NameEncodingError struct {
	Index int
	Name  string
	Err   error
}

func (e *NameEncodingError) Error() string {
	return fmt.Sprintf("ar: archive member %d '%s': %s", e.Index, e.Name, e.Err)
}

func (e *NameEncodingError) Unwrap() error {
	return e.Err
}

// FieldOverflowError indicates that a value does not fit in the fixed-width field that must hold
// it, either a header field or an offset or count inside a symbol table.
type FieldOverflowError struct {
	// Field names the field that overflowed, e.g. "size" or "symbol table offset".
	Field string
	Value string
	// Member is the index of the offending archive member, or -1 if the value does not belong to a
	// single member.
	Member int
	Name   string
}

func (e *FieldOverflowError) Error() string {
	if e.Member < 0 {
		return fmt.Sprintf("ar: %s %s does not fit in its field", e.Field, e.Value)
	}
	return fmt.Sprintf("ar: archive member %d '%s': %s %s does not fit in its field", e.Member, e.Name, e.Field, e.Value)
}

// DuplicateSymbolError indicates that the same symbol is defined by more than one archive member.
// First and Second are the indices of the members in the order they were given.
type DuplicateSymbolError struct {
	Symbol string
	First  int
	Second int
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("ar: symbol '%s' defined by archive members %d and %d", e.Symbol, e.First, e.Second)
}
