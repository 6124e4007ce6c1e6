package chart

import (
	"fmt"
	"sort"
)

// GroupKey holds the nested rows of a grouped row.
const GroupKey = "$group"

// Row is one record flowing between nodes.
type Row = map[string]any

// RowsOf accepts the shapes rows arrive in: typed slices from other
// processors or generic slices decoded from graph files.
func RowsOf(v any) ([]Row, error) {
	switch rows := v.(type) {
	case nil:
		return []Row{}, nil
	case []Row:
		return rows, nil
	case []any:
		out := make([]Row, 0, len(rows))
		for i, item := range rows {
			r, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("row %d is %T, not an object", i, item)
			}
			out = append(out, r)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected rows, got %T", v)
	}
}

// Children returns the nested rows of a grouped row.
func Children(row Row) []Row {
	rows, _ := RowsOf(row[GroupKey])
	return rows
}

// Columns lists the keys of rows in first-seen order. Keys inside one row
// are taken in sorted order; the group key is skipped.
func Columns(rows []Row) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			if k != GroupKey && !seen[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			seen[k] = true
			cols = append(cols, k)
		}
	}
	return cols
}
