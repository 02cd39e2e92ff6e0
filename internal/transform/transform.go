// Package transform builds table.Transformer values from names and jq
// expressions.
package transform

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/salmonumbrella/tabkit/internal/table"
)

var builtins = map[string]table.Transformer{
	"int":    toInt,
	"float":  toFloat,
	"number": toNumber,
	"text":   toText,
	"upper":  textFunc(strings.ToUpper),
	"lower":  textFunc(strings.ToLower),
	"trim":   textFunc(strings.TrimSpace),
	"round":  round,
	"abs":    abs,
}

// Names returns the built-in transformer names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the built-in transformer called name.
func Lookup(name string) (table.Transformer, bool) {
	fn, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	return fn, ok
}

// Parse resolves name to a transformer. A built-in name wins; anything else
// is compiled as a jq expression evaluated against the cell.
func Parse(name string) (table.Transformer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty transformer")
	}
	if fn, ok := Lookup(name); ok {
		return fn, nil
	}
	return Jq(name)
}

// Jq compiles expr into a transformer. The cell is the jq input (a string or
// a number) and the expression must produce exactly one string, number,
// boolean or null.
func Jq(expr string) (table.Transformer, error) {
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}

	return func(v table.Value) (table.Value, error) {
		iter := code.Run(jqInput(v))
		out, ok := iter.Next()
		if !ok {
			return table.Value{}, fmt.Errorf("jq expression %q produced no value", expr)
		}
		if err, isErr := out.(error); isErr {
			return table.Value{}, fmt.Errorf("jq error: %w", err)
		}
		if _, more := iter.Next(); more {
			return table.Value{}, fmt.Errorf("jq expression %q produced more than one value", expr)
		}
		return table.FromInterface(out)
	}, nil
}

// gojq only accepts int, float64 and string scalars.
func jqInput(v table.Value) interface{} {
	switch v.Kind() {
	case table.KindInt:
		i, _ := v.AsInt()
		if i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		return float64(i)
	case table.KindFloat:
		f, _ := v.AsFloat()
		return f
	default:
		return v.String()
	}
}

func toInt(v table.Value) (table.Value, error) {
	switch v.Kind() {
	case table.KindInt:
		return v, nil
	case table.KindFloat:
		f, _ := v.AsFloat()
		i, err := floatToInt(math.Trunc(f))
		if err != nil {
			return table.Value{}, err
		}
		return table.Int(i), nil
	}
	s := strings.TrimSpace(v.String())
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return table.Value{}, fmt.Errorf("not an integer: %q", s)
	}
	return table.Int(i), nil
}

func toFloat(v table.Value) (table.Value, error) {
	if f, ok := v.AsFloat(); ok {
		return table.Float(f), nil
	}
	s := strings.TrimSpace(v.String())
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return table.Value{}, fmt.Errorf("not a number: %q", s)
	}
	return table.Float(f), nil
}

// toNumber prefers an integer and falls back to a float.
func toNumber(v table.Value) (table.Value, error) {
	if v.IsNumeric() {
		return v, nil
	}
	if i, err := toInt(v); err == nil {
		return i, nil
	}
	return toFloat(v)
}

func toText(v table.Value) (table.Value, error) {
	return table.Text(v.String()), nil
}

func textFunc(fn func(string) string) table.Transformer {
	return func(v table.Value) (table.Value, error) {
		s, ok := v.AsText()
		if !ok {
			return v, nil
		}
		return table.Text(fn(s)), nil
	}
}

func round(v table.Value) (table.Value, error) {
	n, err := toNumber(v)
	if err != nil {
		return table.Value{}, err
	}
	if _, ok := n.AsInt(); ok {
		return n, nil
	}
	f, _ := n.AsFloat()
	i, err := floatToInt(math.Round(f))
	if err != nil {
		return table.Value{}, err
	}
	return table.Int(i), nil
}

func abs(v table.Value) (table.Value, error) {
	n, err := toNumber(v)
	if err != nil {
		return table.Value{}, err
	}
	if i, ok := n.AsInt(); ok {
		if i == math.MinInt64 {
			return table.Value{}, fmt.Errorf("out of int64 range: abs(%d)", i)
		}
		if i < 0 {
			i = -i
		}
		return table.Int(i), nil
	}
	f, _ := n.AsFloat()
	return table.Float(math.Abs(f)), nil
}

// floatToInt converts a whole float to int64, rejecting NaN, infinities and
// values outside the int64 range.
func floatToInt(f float64) (int64, error) {
	// -2^63 is exact as a float64; 2^63 is the first value past MaxInt64.
	if math.IsNaN(f) || f < -(1<<63) || f >= 1<<63 {
		return 0, fmt.Errorf("out of int64 range: %v", f)
	}
	return int64(f), nil
}
