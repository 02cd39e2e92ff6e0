package output

import (
	"bytes"
	"math"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/tabkit/internal/table"
)

// Record is one table row keyed by header. It encodes as a JSON object or
// YAML mapping with keys in column order.
type Record struct {
	Headers []string
	Values  []table.Value
}

// Records converts every row of t into a Record.
func Records(t *table.Table) []Record {
	headers := t.Headers()
	rows := t.Rows()
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, Record{Headers: headers, Values: row})
	}
	return out
}

// MarshalJSON encodes r as an object whose keys follow column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range r.Headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes r as a mapping whose keys follow column order.
func (r Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, h := range r.Headers {
		var key, val yaml.Node
		if err := key.Encode(h); err != nil {
			return nil, err
		}
		if err := val.Encode(r.Values[i].Interface()); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &val)
	}
	return node, nil
}

// jqValue converts r into the plain map form gojq accepts.
func (r Record) jqValue() map[string]interface{} {
	m := make(map[string]interface{}, len(r.Headers))
	for i, h := range r.Headers {
		m[h] = jqScalar(r.Values[i])
	}
	return m
}

func jqScalar(v table.Value) interface{} {
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

func jqRecords(records []Record) []interface{} {
	out := make([]interface{}, len(records))
	for i, r := range records {
		out[i] = r.jqValue()
	}
	return out
}
