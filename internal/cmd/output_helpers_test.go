package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/tabkit/internal/output"
	"github.com/salmonumbrella/tabkit/internal/table"
)

func TestStructuredOutputRequested(t *testing.T) {
	tests := []struct {
		format output.Format
		want   bool
	}{
		{output.FormatText, false},
		{output.FormatJSON, true},
		{output.FormatNDJSON, true},
		{output.FormatYAML, true},
		{output.FormatTable, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			_, _, _, cleanup := withTestContext(t, tt.format)
			defer cleanup()

			if got := structuredOutputRequested(); got != tt.want {
				t.Errorf("structuredOutputRequested() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrintStructuredJSON(t *testing.T) {
	ctx, out, _, cleanup := withTestContext(t, output.FormatJSON)
	defer cleanup()

	if err := printData(ctx, map[string]string{"key": "value"}); err != nil {
		t.Fatalf("printData() error = %v", err)
	}

	var result map[string]string
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput was: %s", err, out.String())
	}
	if result["key"] != "value" {
		t.Errorf("expected key='value', got key=%q", result["key"])
	}
}

func TestPrintStructuredYAML(t *testing.T) {
	ctx, out, _, cleanup := withTestContext(t, output.FormatYAML)
	defer cleanup()

	if err := printData(ctx, []string{"city", "pop"}); err != nil {
		t.Fatalf("printData() error = %v", err)
	}

	var result []string
	if err := yaml.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse YAML output: %v\nOutput was: %s", err, out.String())
	}
	if len(result) != 2 || result[1] != "pop" {
		t.Errorf("unexpected yaml result %v", result)
	}
}

func TestPrintTableText(t *testing.T) {
	ctx, out, _, cleanup := withTestContext(t, output.FormatText)
	defer cleanup()

	tbl := table.New("k,v\nA,1", table.ParseOptions{})
	if err := printTable(ctx, tbl); err != nil {
		t.Fatalf("printTable() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", out.String())
	}
	if lines[1] != "A"+strings.Repeat(" ", 17)+"  1" {
		t.Errorf("unexpected row %q", lines[1])
	}
}

func TestOrBackground(t *testing.T) {
	ctx, _, _, cleanup := withTestContext(t, output.FormatText)
	defer cleanup()

	if orBackground(nil) != ctx { //nolint:staticcheck // testing nil context behavior
		t.Error("expected root command context for nil")
	}

	own := context.WithValue(context.Background(), ioKey{}, ioState{})
	if orBackground(own) != own {
		t.Error("expected the given context to be returned")
	}
}
