package table

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindText is a string cell. Freshly parsed cells are always text.
	KindText Kind = iota
	// KindInt is a 64-bit integer cell.
	KindInt
	// KindFloat is a 64-bit floating point cell.
	KindFloat
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a single table cell.
// The zero Value is an empty text cell.
type Value struct {
	kind Kind
	text string
	i    int64
	f    float64
}

// Text returns a text cell.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Int returns an integer cell.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point cell.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNumeric reports whether v is an Int or a Float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// AsText returns the text payload and whether v is a text cell.
func (v Value) AsText() (string, bool) { return v.text, v.kind == KindText }

// AsInt returns the integer payload and whether v is an integer cell.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns v as a float64 when it is numeric.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// String renders the cell the way Format displays it.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return v.text
	}
}

// Interface returns the plain Go value (string, int64 or float64).
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	default:
		return v.text
	}
}

// Equal reports whether v and o hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	default:
		return v.text == o.text
	}
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// MarshalYAML encodes the plain payload.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}

// FromInterface converts a plain Go value into a Value.
// Whole float64 values (as produced by JSON decoders and jq) become Int.
func FromInterface(x interface{}) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case string:
		return Text(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case int32:
		return Int(int64(t)), nil
	case float32:
		return fromFloat(float64(t)), nil
	case float64:
		return fromFloat(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Float(f), nil
	case bool:
		return Text(strconv.FormatBool(t)), nil
	case nil:
		return Text(""), nil
	default:
		return Value{}, fmt.Errorf("unsupported cell type %T", x)
	}
}

func fromFloat(f float64) Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1<<53 {
		return Int(int64(f))
	}
	return Float(f)
}
