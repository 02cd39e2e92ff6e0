package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/tabkit/internal/table"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is the fixed-width table rendering (default).
	FormatText Format = "text"
	// FormatJSON is pretty-printed JSON format.
	FormatJSON Format = "json"
	// FormatNDJSON is newline-delimited JSON format.
	FormatNDJSON Format = "ndjson"
	// FormatTable is tab-aligned columns.
	FormatTable Format = "table"
	// FormatYAML is YAML format.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format type.
// Empty string defaults to FormatText.
// Returns error if the format is invalid.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatNDJSON:
		return FormatNDJSON, nil
	case FormatTable:
		return FormatTable, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", errors.New("invalid --output format (expected text|json|ndjson|table|yaml)")
	}
}

// IsStructured reports whether the format is machine-readable structured output.
func IsStructured(format Format) bool {
	switch format {
	case FormatJSON, FormatNDJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// Printer handles output formatting across different formats.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a new Printer that writes to w in the given format.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{
		w:      w,
		format: format,
	}
}

// PrintTable renders t in the configured format.
// Text output is the fixed-width Format rendering; structured formats emit
// one record per row with keys in column order.
// The limit and formatting are applied to a copy, so t is left as given.
func (p *Printer) PrintTable(ctx context.Context, t *table.Table) error {
	if err := t.Err(); err != nil {
		return err
	}
	t = t.Clone().Head(LimitFromContext(ctx))

	switch p.format {
	case FormatText:
		if err := t.Format().Err(); err != nil {
			return err
		}
		return t.PrintTo(p.w, table.PrintHeaders(HeadersFromContext(ctx)))
	case FormatTable:
		data := FromTable(t)
		if !HeadersFromContext(ctx) {
			data.Headers = nil
		}
		return p.printTableData(data.Headers, data.Rows)
	default:
		return p.Print(ctx, Records(t))
	}
}

// Print outputs data in the configured format.
// For single objects: JSON or text key-value display.
// For slices: JSON array or table with headers.
func (p *Printer) Print(ctx context.Context, data interface{}) error {
	if data == nil {
		return nil
	}

	data = ApplyLimit(ctx, data)

	switch p.format {
	case FormatJSON:
		return p.printJSON(ctx, data)
	case FormatNDJSON:
		return p.printNDJSON(ctx, data)
	case FormatYAML:
		return p.printYAML(data)
	case FormatTable:
		return p.printTable(data)
	case FormatText:
		return p.printText(data)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// printJSON outputs data as pretty-printed JSON.
// If a jq query is present in the context, it filters the output.
func (p *Printer) printJSON(ctx context.Context, data interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)

	if query := QueryFromContext(ctx); query != "" {
		return runQuery(query, data, enc)
	}

	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// printNDJSON outputs data as newline-delimited JSON.
// If a jq query is present in the context, it filters the output.
func (p *Printer) printNDJSON(ctx context.Context, data interface{}) error {
	query := QueryFromContext(ctx)
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)

	if query != "" {
		return runQuery(query, data, enc)
	}

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		for i := 0; i < v.Len(); i++ {
			if err := enc.Encode(v.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}

	return enc.Encode(data)
}

func runQuery(query string, data interface{}, enc *json.Encoder) error {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}

	code, err := gojq.Compile(parsed)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}

	input, err := queryInput(data)
	if err != nil {
		return err
	}

	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("query error: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}

	return nil
}

// queryInput converts data into the plain maps, slices and scalars gojq accepts.
func queryInput(data interface{}) (interface{}, error) {
	switch v := data.(type) {
	case []Record:
		return jqRecords(v), nil
	case Record:
		return v.jqValue(), nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode query input: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode query input: %w", err)
	}
	return out, nil
}

// printYAML outputs data as YAML.
func (p *Printer) printYAML(data interface{}) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

// printText writes lists one item per line, maps as sorted "key: value"
// lines and tables through tabwriter.
func (p *Printer) printText(data interface{}) error {
	if headers, rows, ok := tabular(data); ok {
		return p.printTableData(headers, rows)
	}
	if keys, values, ok := mapEntries(data); ok {
		for i, key := range keys {
			if _, err := fmt.Fprintf(p.w, "%s: %v\n", key, values[i]); err != nil {
				return err
			}
		}
		return nil
	}
	if items, ok := listItems(data); ok {
		for _, item := range items {
			if _, err := fmt.Fprintln(p.w, item); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintln(p.w, data)
	return err
}

func (p *Printer) printTable(data interface{}) error {
	if headers, rows, ok := tabular(data); ok {
		return p.printTableData(headers, rows)
	}
	if keys, values, ok := mapEntries(data); ok {
		rows := make([][]string, len(keys))
		for i, key := range keys {
			rows[i] = []string{key, fmt.Sprint(values[i])}
		}
		return p.printTableData([]string{"key", "value"}, rows)
	}
	if items, ok := listItems(data); ok {
		rows := make([][]string, len(items))
		for i, item := range items {
			rows[i] = []string{fmt.Sprint(item)}
		}
		return p.printTableData([]string{"value"}, rows)
	}
	return fmt.Errorf("table format requires a list of items, got %T", data)
}

func tabular(data interface{}) ([]string, [][]string, bool) {
	switch v := data.(type) {
	case Table:
		return v.Headers, v.Rows, true
	case []Record:
		if len(v) == 0 {
			return nil, nil, true
		}
		rows := make([][]string, len(v))
		for i, r := range v {
			rows[i] = make([]string, len(r.Values))
			for j, cell := range r.Values {
				rows[i][j] = cell.String()
			}
		}
		return v[0].Headers, rows, true
	}
	return nil, nil, false
}

func mapEntries(data interface{}) ([]string, []interface{}, bool) {
	var m map[string]interface{}
	switch v := data.(type) {
	case map[string]interface{}:
		m = v
	case map[string]string:
		m = make(map[string]interface{}, len(v))
		for k, val := range v {
			m[k] = val
		}
	default:
		return nil, nil, false
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]interface{}, len(keys))
	for i, k := range keys {
		values[i] = m[k]
	}
	return keys, values, true
}

func listItems(data interface{}) ([]interface{}, bool) {
	switch v := data.(type) {
	case []interface{}:
		return v, true
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	}
	return nil, false
}

func (p *Printer) printTableData(headers []string, rows [][]string) error {
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)

	if len(headers) > 0 {
		fmt.Fprintln(w, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return w.Flush()
}
