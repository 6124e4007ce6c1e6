package groupby

import (
	"maps"

	"github.com/vk/flowgridgo/internal/chart"
)

// KeyFunc computes the group key of the row at index i. An empty key drops the row.
type KeyFunc func(row chart.Row, i int) string

// Rows buckets rows by key under synthetic rows carrying alias. Rows that
// already hold children are grouped one level deeper, per parent, and each
// bucket keeps the parent's own fields. Buckets are in first-seen order.
func Rows(rows []chart.Row, alias string, key KeyFunc) []chart.Row {
	var out []chart.Row
	top := make(map[string]chart.Row)

	for i, row := range rows {
		if _, grouped := row[chart.GroupKey]; grouped {
			out = appendBuckets(out, chart.Children(row), key, func(k string) chart.Row {
				bucket := make(chart.Row, len(row)+1)
				maps.Copy(bucket, row)
				bucket[alias] = k
				bucket[chart.GroupKey] = []chart.Row{}
				return bucket
			})
			continue
		}

		k := key(row, i)
		if k == "" {
			continue
		}
		bucket, ok := top[k]
		if !ok {
			bucket = chart.Row{alias: k, chart.GroupKey: []chart.Row{}}
			top[k] = bucket
			out = append(out, bucket)
		}
		bucket[chart.GroupKey] = append(bucket[chart.GroupKey].([]chart.Row), row)
	}

	if out == nil {
		return []chart.Row{}
	}
	return out
}

func appendBuckets(out []chart.Row, children []chart.Row, key KeyFunc, newBucket func(string) chart.Row) []chart.Row {
	buckets := make(map[string]chart.Row)
	for j, child := range children {
		k := key(child, j)
		if k == "" {
			continue
		}
		bucket, ok := buckets[k]
		if !ok {
			bucket = newBucket(k)
			buckets[k] = bucket
			out = append(out, bucket)
		}
		bucket[chart.GroupKey] = append(bucket[chart.GroupKey].([]chart.Row), child)
	}
	return out
}
