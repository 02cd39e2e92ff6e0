package output

import "github.com/salmonumbrella/tabkit/internal/table"

// Table represents a pre-rendered table for table output formatting.
type Table struct {
	Headers []string   `json:"headers,omitempty" yaml:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// FromTable renders every cell of t as text.
func FromTable(t *table.Table) Table {
	return Table{Headers: t.Headers(), Rows: t.StringRows()}
}
