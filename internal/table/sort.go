package table

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort order.
type Direction string

const (
	// Asc sorts smallest first.
	Asc Direction = "ASC"
	// Desc sorts largest first.
	Desc Direction = "DESC"
)

// ParseDirection converts "asc" or "desc" (any case) to a Direction.
// Empty defaults to Asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	default:
		return "", fmt.Errorf("invalid sort direction %q (expected asc|desc)", s)
	}
}

// Sort stably reorders rows by the cells of header.
//
// Numeric cells compare by value. Text cells compare with root-locale
// collation, falling back to byte order when collation ties. A column that
// mixes numeric and text cells is rejected with TypeMismatchError and the
// rows are left as they were.
func (t *Table) Sort(header string, dir Direction) *Table {
	if t.err != nil {
		return t
	}

	idx, err := t.index("sort", header)
	if err != nil {
		return t.fail(err)
	}
	if dir != Asc && dir != Desc {
		return t.fail(fmt.Errorf("table: sort: header %q: invalid direction %q", header, dir))
	}
	if err := checkComparable(t.rows, idx, header); err != nil {
		return t.fail(err)
	}

	col := collate.New(language.Und)
	sort.SliceStable(t.rows, func(i, j int) bool {
		c := compareCells(col, t.rows[i][idx], t.rows[j][idx])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})

	t.logger.Debug("sorted rows", "header", header, "direction", string(dir))
	return t
}

func checkComparable(rows [][]Value, idx int, header string) error {
	if len(rows) == 0 {
		return nil
	}
	numeric := rows[0][idx].IsNumeric()
	for i, row := range rows[1:] {
		if row[idx].IsNumeric() != numeric {
			return TypeMismatchError{
				Op:     "sort",
				Header: header,
				Row:    i + 1,
				Kinds:  []Kind{rows[0][idx].Kind(), row[idx].Kind()},
			}
		}
	}
	return nil
}

func compareCells(col *collate.Collator, a, b Value) int {
	if a.IsNumeric() && b.IsNumeric() {
		ai, aInt := a.AsInt()
		bi, bInt := b.AsInt()
		if aInt && bInt {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			default:
				return 0
			}
		}
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	as, bs := a.String(), b.String()
	if c := col.CompareString(as, bs); c != 0 {
		return c
	}
	return strings.Compare(as, bs)
}
