package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salmonumbrella/tabkit/internal/table"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name    string
		in      table.Value
		want    table.Value
		wantErr bool
	}{
		{"int", table.Text(" 42 "), table.Int(42), false},
		{"int", table.Float(3.9), table.Int(3), false},
		{"int", table.Text("4.5"), table.Value{}, true},
		{"float", table.Text("4.5"), table.Float(4.5), false},
		{"float", table.Int(2), table.Float(2), false},
		{"number", table.Text("7"), table.Int(7), false},
		{"number", table.Text("7.25"), table.Float(7.25), false},
		{"number", table.Text("seven"), table.Value{}, true},
		{"text", table.Int(9), table.Text("9"), false},
		{"upper", table.Text("tokyo"), table.Text("TOKYO"), false},
		{"lower", table.Text("TOKYO"), table.Text("tokyo"), false},
		{"upper", table.Int(1), table.Int(1), false},
		{"trim", table.Text("  x "), table.Text("x"), false},
		{"round", table.Text("2.5"), table.Int(3), false},
		{"round", table.Float(-1.4), table.Int(-1), false},
		{"abs", table.Int(-5), table.Int(5), false},
		{"abs", table.Text("-1.5"), table.Float(1.5), false},
		{"int", table.Float(9.3e18), table.Value{}, true},
		{"int", table.Float(math.Inf(-1)), table.Value{}, true},
		{"int", table.Float(math.NaN()), table.Value{}, true},
		{"int", table.Float(-9223372036854775808), table.Int(math.MinInt64), false},
		{"round", table.Text("1e20"), table.Value{}, true},
		{"round", table.Text("-1e19"), table.Value{}, true},
		{"round", table.Text("NaN"), table.Value{}, true},
		{"abs", table.Text("-9223372036854775808"), table.Value{}, true},
		{"abs", table.Text("-9223372036854775807"), table.Int(math.MaxInt64), false},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.in.String(), func(t *testing.T) {
			fn, ok := Lookup(tt.name)
			require.True(t, ok)

			got, err := fn(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "int")
	assert.Contains(t, names, "upper")
	assert.IsIncreasing(t, names)
}

func TestParsePrefersBuiltin(t *testing.T) {
	fn, err := Parse(" INT ")
	require.NoError(t, err)
	got, err := fn(table.Text("12"))
	require.NoError(t, err)
	assert.Equal(t, table.Int(12), got)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse("  ")
	assert.Error(t, err)
}

func TestJq(t *testing.T) {
	tests := []struct {
		expr string
		in   table.Value
		want table.Value
	}{
		{"tonumber", table.Text("11313"), table.Int(11313)},
		{". * 100 / 20 | round", table.Int(10), table.Int(50)},
		{". / 4", table.Int(10), table.Float(2.5)},
		{"ascii_downcase", table.Text("Lagos"), table.Text("lagos")},
		{`. + " (city)"`, table.Text("Delhi"), table.Text("Delhi (city)")},
		{"length > 5", table.Text("Istanbul"), table.Text("true")},
		{"null", table.Text("x"), table.Text("")},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			fn, err := Jq(tt.expr)
			require.NoError(t, err)
			got, err := fn(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJqErrors(t *testing.T) {
	_, err := Jq("tonumber |")
	assert.Error(t, err)

	fn, err := Jq("empty")
	require.NoError(t, err)
	_, err = fn(table.Text("x"))
	assert.ErrorContains(t, err, "no value")

	fn, err = Jq(".[]")
	require.NoError(t, err)
	_, err = fn(table.Text("x"))
	assert.ErrorContains(t, err, "jq error")

	fn, err = Jq("., .")
	require.NoError(t, err)
	_, err = fn(table.Int(1))
	assert.ErrorContains(t, err, "more than one value")

	fn, err = Jq("[.]")
	require.NoError(t, err)
	_, err = fn(table.Int(1))
	assert.Error(t, err)
}

func TestTransformerInTable(t *testing.T) {
	density, err := Parse("int")
	require.NoError(t, err)
	pct, err := Parse(". * 100 / 20 | round")
	require.NoError(t, err)

	tbl := table.New("city,pop\nA,10\nB,20\n", table.ParseOptions{}).
		Where("pop", density).
		Sort("pop", table.Desc).
		AddColumn("pct", "pop", pct)
	require.NoError(t, tbl.Err())

	col, err := tbl.GetColumn("pct")
	require.NoError(t, err)
	assert.Equal(t, []table.Value{table.Int(100), table.Int(50)}, col)
}

func TestOutOfRangeLeavesTableUnchanged(t *testing.T) {
	round, err := Parse("round")
	require.NoError(t, err)

	tbl := table.New("v\n1.5\n1e20\n", table.ParseOptions{})
	before := tbl.Rows()

	tbl.Where("v", round)
	var terr table.TransformError
	require.ErrorAs(t, tbl.Err(), &terr)
	assert.Equal(t, 1, terr.Row)
	assert.ErrorContains(t, terr, "out of int64 range")
	assert.Equal(t, before, tbl.Rows())
}
