package join

import (
	"maps"

	"github.com/vk/flowgridgo/internal/chart"
)

// Type selects which unmatched rows survive a join.
type Type string

const (
	Inner Type = "inner"
	Left  Type = "left"
	Full  Type = "full"
)

// Types lists the accepted join types.
var Types = []string{string(Inner), string(Left), string(Full)}

// KeyFunc computes the join key of the row at index i.
type KeyFunc func(row chart.Row, i int) string

// lookup indexes rows by key. A repeated key keeps its first position and
// its last row.
type lookup struct {
	order []string
	rows  map[string]chart.Row
}

func newLookup(rows []chart.Row, key KeyFunc) *lookup {
	l := &lookup{rows: make(map[string]chart.Row, len(rows))}
	for i, row := range rows {
		k := key(row, i)
		if _, seen := l.rows[k]; !seen {
			l.order = append(l.order, k)
		}
		l.rows[k] = row
	}
	return l
}

// merge returns a new row holding left's fields overridden by right's.
func merge(left, right chart.Row) chart.Row {
	out := make(chart.Row, len(left)+len(right))
	maps.Copy(out, left)
	maps.Copy(out, right)
	return out
}

// Rows joins left and right. Left order is always preserved.
func Rows(t Type, left, right []chart.Row, keyLeft, keyRight KeyFunc) []chart.Row {
	index := newLookup(right, keyRight)
	out := make([]chart.Row, 0, len(left))

	for i, row := range left {
		k := keyLeft(row, i)
		match, ok := index.rows[k]
		switch {
		case ok:
			out = append(out, merge(row, match))
			if t == Full {
				delete(index.rows, k)
			}
		case t != Inner:
			out = append(out, row)
		}
	}

	if t == Full {
		for _, k := range index.order {
			if row, ok := index.rows[k]; ok {
				out = append(out, row)
			}
		}
	}
	return out
}
