// Package table holds a small in-memory table parsed from delimited text and
// the chainable operations that reshape and render it.
//
// A Table is not safe for concurrent use. Operations mutate the receiver and
// return it so calls can be chained; the first failing call records its error
// and turns every later call in the chain into a no-op, so a chain is checked
// once with Err.
package table

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultDelimiter separates cells when ParseOptions.Delimiter is empty.
const DefaultDelimiter = ","

// Transformer maps one cell to another. It may change the cell's kind.
type Transformer func(Value) (Value, error)

// Table owns parsed headers and rows plus the last formatted rendering.
type Table struct {
	raw           string
	headers       []string
	rows          [][]Value
	formattedRows []string

	layout Layout
	out    io.Writer
	logger *slog.Logger
	err    error
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger used for debug tracing of table operations.
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithOutput sets the writer used by Print. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(t *Table) {
		if w != nil {
			t.out = w
		}
	}
}

// WithLayout sets the column layout used by Format.
func WithLayout(l Layout) Option {
	return func(t *Table) {
		t.layout = l.normalized()
	}
}

// New creates a Table over raw and parses it with opts.
// The returned Table is never nil; a parse failure is reported by Err.
func New(raw string, parse ParseOptions, opts ...Option) *Table {
	t := &Table{
		raw:    raw,
		layout: DefaultLayout(),
		out:    os.Stdout,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t.Parse(parse)
}

// Err returns the first error recorded by a chained call, if any.
func (t *Table) Err() error {
	return t.err
}

// Headers returns a copy of the column names in order.
func (t *Table) Headers() []string {
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// Rows returns a deep copy of the rows.
func (t *Table) Rows() [][]Value {
	out := make([][]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = append([]Value(nil), row...)
	}
	return out
}

// Clone returns an independent copy of t that shares its layout, writer,
// logger and error state. Operations on the copy never touch t.
func (t *Table) Clone() *Table {
	c := *t
	c.headers = t.Headers()
	c.rows = t.Rows()
	c.formattedRows = append([]string(nil), t.formattedRows...)
	return &c
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Raw returns the unparsed input the Table was created from.
func (t *Table) Raw() string {
	return t.raw
}

// FormattedRows returns the rendering produced by the last Format call.
// The header line comes first.
func (t *Table) FormattedRows() []string {
	out := make([]string, len(t.formattedRows))
	copy(out, t.formattedRows)
	return out
}

// StringRows returns every row with cells rendered as text.
func (t *Table) StringRows() [][]string {
	out := make([][]string, 0, len(t.rows))
	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		out = append(out, cells)
	}
	return out
}

// ParseOptions controls how raw text is split into cells.
type ParseOptions struct {
	// Delimiter separates cells on a line. Empty means DefaultDelimiter.
	Delimiter string
}

// Parse (re)builds headers and rows from the raw input.
//
// The first line holds the headers. Each later line is split on the
// delimiter and every cell is trimmed. A trailing carriage return is dropped
// from each line and a single trailing newline does not produce a row. Any
// other empty line is a row with one empty cell, which only fits a table with
// exactly one header. On failure the previously parsed state is kept.
// Parse starts a new chain: a successful parse clears any recorded error.
func (t *Table) Parse(opts ParseOptions) *Table {
	delim := opts.Delimiter
	if delim == "" {
		delim = DefaultDelimiter
	}

	if strings.TrimSpace(t.raw) == "" {
		return t.fail(ErrEmptyInput)
	}

	lines := strings.Split(t.raw, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	headerCells := strings.Split(strings.TrimSuffix(lines[0], "\r"), delim)
	headers := make([]string, len(headerCells))
	for i, h := range headerCells {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([][]Value, 0, len(lines)-1)
	for i, line := range lines[1:] {
		cells := strings.Split(strings.TrimSuffix(line, "\r"), delim)
		if len(cells) != len(headers) {
			return t.fail(MalformedRowError{Line: i + 2, Got: len(cells), Want: len(headers)})
		}
		row := make([]Value, len(cells))
		for j, c := range cells {
			row[j] = Text(strings.TrimSpace(c))
		}
		rows = append(rows, row)
	}

	t.headers = headers
	t.rows = rows
	t.err = nil
	t.logger.Debug("parsed table", "headers", len(headers), "rows", len(rows), "delimiter", delim)
	return t
}

// Where replaces every cell of header with fn applied to it.
// If fn fails on any row the table is left unchanged.
func (t *Table) Where(header string, fn Transformer) *Table {
	if t.err != nil {
		return t
	}

	idx, err := t.index("where", header)
	if err != nil {
		return t.fail(err)
	}
	if fn == nil {
		return t.fail(fmt.Errorf("table: where: header %q: %w", header, ErrNilTransformer))
	}

	staged := make([]Value, len(t.rows))
	for i, row := range t.rows {
		v, err := fn(row[idx])
		if err != nil {
			return t.fail(TransformError{Op: "where", Header: header, Row: i, Err: err})
		}
		staged[i] = v
	}
	changed := 0
	for i, row := range t.rows {
		if !row[idx].Equal(staged[i]) {
			changed++
		}
		row[idx] = staged[i]
	}

	t.logger.Debug("transformed column", "header", header, "rows", len(t.rows), "changed", changed)
	return t
}

// AddColumn appends a column named name whose cells are fn applied to the
// cells of source. The name must not already exist.
func (t *Table) AddColumn(name, source string, fn Transformer) *Table {
	if t.err != nil {
		return t
	}

	idx, err := t.index("add column", source)
	if err != nil {
		return t.fail(err)
	}
	if _, ok := t.lookup(name); ok {
		return t.fail(DuplicateHeaderError{Header: name})
	}
	if fn == nil {
		return t.fail(fmt.Errorf("table: add column: header %q: %w", name, ErrNilTransformer))
	}

	staged := make([]Value, len(t.rows))
	for i, row := range t.rows {
		v, err := fn(row[idx])
		if err != nil {
			return t.fail(TransformError{Op: "add column", Header: source, Row: i, Err: err})
		}
		staged[i] = v
	}

	t.headers = append(t.headers, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], staged[i])
	}

	t.logger.Debug("added column", "header", name, "source", source)
	return t
}

// Head keeps only the first n rows. A non-positive n keeps every row.
func (t *Table) Head(n int) *Table {
	if t.err != nil {
		return t
	}
	if n > 0 && n < len(t.rows) {
		t.rows = t.rows[:n]
		t.logger.Debug("truncated rows", "rows", n)
	}
	return t
}

// GetColumn returns the cells of header in row order.
// The result does not alias the table.
func (t *Table) GetColumn(header string) ([]Value, error) {
	if t.err != nil {
		return nil, t.err
	}
	idx, err := t.index("get column", header)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out, nil
}

func (t *Table) index(op, header string) (int, error) {
	if i, ok := t.lookup(header); ok {
		return i, nil
	}
	return -1, HeaderNotFoundError{Op: op, Header: header}
}

func (t *Table) lookup(header string) (int, bool) {
	for i, h := range t.headers {
		if h == header {
			return i, true
		}
	}
	return -1, false
}

func (t *Table) fail(err error) *Table {
	t.err = err
	t.logger.Debug("table operation failed", "error", err)
	return t
}
