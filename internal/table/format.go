package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Layout controls the fixed-width rendering produced by Format.
type Layout struct {
	// FirstColumnWidth is the left-justified width of the first column.
	FirstColumnWidth int
	// Padding is added to the computed width of every other column.
	Padding int
}

// DefaultLayout returns the standard layout: an 18 wide first column and
// two spaces of padding before right-justified columns.
func DefaultLayout() Layout {
	return Layout{FirstColumnWidth: 18, Padding: 2}
}

func (l Layout) normalized() Layout {
	if l.FirstColumnWidth < 0 {
		l.FirstColumnWidth = 0
	}
	if l.Padding < 0 {
		l.Padding = 0
	}
	return l
}

// ColumnWidths returns, per column, the widest display width among the
// header label and every rendered cell.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, v := range row {
			if w := runewidth.StringWidth(v.String()); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// Format renders the header and every row into fixed-width lines.
// The result replaces FormattedRows and is not refreshed by later mutations.
func (t *Table) Format() *Table {
	if t.err != nil {
		return t
	}

	widths := t.ColumnWidths()
	formatted := make([]string, 0, len(t.rows)+1)

	cells := make([]string, len(t.headers))
	copy(cells, t.headers)
	formatted = append(formatted, t.formatLine(cells, widths))

	for _, row := range t.rows {
		for i, v := range row {
			cells[i] = v.String()
		}
		formatted = append(formatted, t.formatLine(cells, widths))
	}

	t.formattedRows = formatted
	t.logger.Debug("formatted table", "lines", len(formatted))
	return t
}

func (t *Table) formatLine(cells []string, widths []int) string {
	var b strings.Builder
	for i, c := range cells {
		if i == 0 {
			b.WriteString(runewidth.FillRight(c, t.layout.FirstColumnWidth))
			continue
		}
		b.WriteString(runewidth.FillLeft(c, widths[i]+t.layout.Padding))
	}
	return b.String()
}

// PrintOption configures Print.
type PrintOption func(*printConfig)

type printConfig struct {
	headers bool
}

// PrintHeaders controls whether the header line is written. Headers are
// written by default.
func PrintHeaders(show bool) PrintOption {
	return func(c *printConfig) {
		c.headers = show
	}
}

// Print writes the lines produced by the last Format call, one per line.
// It returns the chain error if one is recorded, or the first write error.
func (t *Table) Print(opts ...PrintOption) error {
	if t.err != nil {
		return t.err
	}
	return t.PrintTo(t.out, opts...)
}

// PrintTo is Print with an explicit writer.
func (t *Table) PrintTo(w io.Writer, opts ...PrintOption) error {
	if t.err != nil {
		return t.err
	}

	cfg := printConfig{headers: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	lines := t.formattedRows
	if !cfg.headers && len(lines) > 0 {
		lines = lines[1:]
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("table: print: %w", err)
		}
	}
	return nil
}
