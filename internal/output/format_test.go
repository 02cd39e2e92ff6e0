package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/tabkit/internal/table"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New("city,pop\nA,10\nB,20\n", table.ParseOptions{}).
		Where("pop", func(v table.Value) (table.Value, error) {
			s, _ := v.AsText()
			if s == "10" {
				return table.Int(10), nil
			}
			return table.Int(20), nil
		})
	if err := tbl.Err(); err != nil {
		t.Fatalf("build table: %v", err)
	}
	return tbl
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{" json ", FormatJSON, false},
		{"ndjson", FormatNDJSON, false},
		{"table", FormatTable, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrintTableText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatText)

	if err := p.PrintTable(context.Background(), sampleTable(t)); err != nil {
		t.Fatalf("PrintTable: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[1] != "A"+strings.Repeat(" ", 17)+"   10" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}

func TestPrintTableTextWithoutHeaders(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatText)
	ctx := WithHeaders(context.Background(), false)

	if err := p.PrintTable(ctx, sampleTable(t)); err != nil {
		t.Fatalf("PrintTable: %v", err)
	}
	if strings.Contains(buf.String(), "city") {
		t.Fatalf("expected header to be skipped: %q", buf.String())
	}
}

func TestPrintTableJSONKeepsColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)

	if err := p.PrintTable(context.Background(), sampleTable(t)); err != nil {
		t.Fatalf("PrintTable: %v", err)
	}

	out := buf.String()
	if strings.Index(out, `"city"`) > strings.Index(out, `"pop"`) {
		t.Fatalf("expected city before pop: %s", out)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("parse output: %v\n%s", err, out)
	}
	if len(records) != 2 || records[1]["pop"] != float64(20) || records[0]["city"] != "A" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestPrintTableNDJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatNDJSON)

	if err := p.PrintTable(context.Background(), sampleTable(t)); err != nil {
		t.Fatalf("PrintTable: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if lines[0] != `{"city":"A","pop":10}` {
		t.Fatalf("unexpected line: %s", lines[0])
	}
}

func TestPrintTableYAML(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatYAML)

	if err := p.PrintTable(context.Background(), sampleTable(t)); err != nil {
		t.Fatalf("PrintTable: %v", err)
	}

	var records []map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 2 || records[0]["pop"] != 10 {
		t.Fatalf("unexpected yaml records: %+v", records)
	}
	if !strings.HasPrefix(buf.String(), "- city: A\n") {
		t.Fatalf("expected ordered keys, got %q", buf.String())
	}
}

func TestPrintTableTabwriter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable)

	if err := p.PrintTable(context.Background(), sampleTable(t)); err != nil {
		t.Fatalf("PrintTable: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "city  pop\n") {
		t.Fatalf("unexpected table output: %q", buf.String())
	}
}

func TestPrintTableQuery(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)
	ctx := WithQuery(context.Background(), `.[] | select(.pop > 15) | .city`)

	if err := p.PrintTable(ctx, sampleTable(t)); err != nil {
		t.Fatalf("PrintTable: %v", err)
	}
	if strings.TrimSpace(buf.String()) != `"B"` {
		t.Fatalf("unexpected query output: %q", buf.String())
	}
}

func TestPrintTableInvalidQuery(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)
	ctx := WithQuery(context.Background(), `.[`)

	err := p.PrintTable(ctx, sampleTable(t))
	if err == nil || !strings.Contains(err.Error(), "invalid --query") {
		t.Fatalf("expected invalid query error, got %v", err)
	}
}

func TestPrintTableLimit(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatNDJSON)
	ctx := WithLimit(context.Background(), 1)

	if err := p.PrintTable(ctx, sampleTable(t)); err != nil {
		t.Fatalf("PrintTable: %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Fatalf("expected 1 record, got %d", n)
	}
}

func TestPrintTableLimitLeavesTable(t *testing.T) {
	tbl := sampleTable(t)
	p := NewPrinter(&bytes.Buffer{}, FormatText)
	ctx := WithLimit(context.Background(), 1)

	if err := p.PrintTable(ctx, tbl); err != nil {
		t.Fatalf("PrintTable: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected caller table to keep 2 rows, got %d", tbl.Len())
	}
	if rows := tbl.FormattedRows(); len(rows) != 0 {
		t.Fatalf("expected caller table unformatted, got %v", rows)
	}
}

func TestPrintTableChainError(t *testing.T) {
	tbl := table.New("a\n1", table.ParseOptions{}).Sort("missing", table.Asc)
	p := NewPrinter(&bytes.Buffer{}, FormatText)
	if err := p.PrintTable(context.Background(), tbl); err == nil {
		t.Fatal("expected chain error")
	}
}

func TestPrintGenericList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatText)
	ctx := WithLimit(context.Background(), 2)

	if err := p.Print(ctx, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if buf.String() != "a\nb\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestPrintGenericQuery(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)
	ctx := WithQuery(context.Background(), `length`)

	if err := p.Print(ctx, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "3" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestPrintMapText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatText)

	if err := p.Print(context.Background(), map[string]string{"b": "2", "a": "1"}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if buf.String() != "a: 1\nb: 2\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestPrintTableFormatGeneric(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable)

	if err := p.Print(context.Background(), map[string]interface{}{"rows": 2, "path": "out.csv"}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if buf.String() != "key   value\npath  out.csv\nrows  2\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	if err := p.Print(context.Background(), []string{"city", "pop"}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if buf.String() != "value\ncity\npop\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}

	if err := p.Print(context.Background(), 42); err == nil {
		t.Fatal("expected error for scalar table output")
	}
}
