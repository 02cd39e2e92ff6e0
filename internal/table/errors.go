package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned by Parse when there is no header line.
var ErrEmptyInput = errors.New("table: empty input")

// ErrNilTransformer is returned by Where and AddColumn when fn is nil.
var ErrNilTransformer = errors.New("nil transformer")

// HeaderNotFoundError indicates an operation referenced a column that does not exist.
type HeaderNotFoundError struct {
	Op     string
	Header string
}

func (e HeaderNotFoundError) Error() string {
	return fmt.Sprintf("table: %s: header %q not found", e.Op, e.Header)
}

// MalformedRowError indicates a data line whose cell count differs from the header count.
// Line is 1-based and counts the header line.
type MalformedRowError struct {
	Line int
	Got  int
	Want int
}

func (e MalformedRowError) Error() string {
	return fmt.Sprintf("table: parse: line %d has %d cells, want %d", e.Line, e.Got, e.Want)
}

// DuplicateHeaderError indicates AddColumn was asked to create a column that already exists.
type DuplicateHeaderError struct {
	Header string
}

func (e DuplicateHeaderError) Error() string {
	return fmt.Sprintf("table: add column: header %q already exists", e.Header)
}

// TypeMismatchError indicates a sort column mixes numeric and text cells.
// Row is the 0-based index of the first cell whose kind disagrees with the first row.
type TypeMismatchError struct {
	Op     string
	Header string
	Row    int
	Kinds  []Kind
}

func (e TypeMismatchError) Error() string {
	names := make([]string, 0, len(e.Kinds))
	for _, k := range e.Kinds {
		names = append(names, k.String())
	}
	return fmt.Sprintf("table: %s: header %q mixes %s values (row %d)", e.Op, e.Header, strings.Join(names, " and "), e.Row)
}

// TransformError wraps a transformer failure.
type TransformError struct {
	Op     string
	Header string
	Row    int
	Err    error
}

func (e TransformError) Error() string {
	return fmt.Sprintf("table: %s: header %q row %d: %v", e.Op, e.Header, e.Row, e.Err)
}

func (e TransformError) Unwrap() error { return e.Err }
