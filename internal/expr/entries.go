package expr

import (
	"context"
	"fmt"
)

// Entry is one key/value pair of a multi-entry field.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

// EntriesMapper evaluates every entry of a multi-entry field.
type EntriesMapper func(ctx Context) []Entry

// ParseEntries reads a multi-entry field value: a list of objects with "key"
// and "value" attributes. A nil value is an empty list.
func ParseEntries(v any) ([]Entry, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []Entry:
		return t, nil
	case []any:
		entries := make([]Entry, 0, len(t))
		for i, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("entry %d: expected an object, got %T", i, item)
			}
			key, _ := m["key"].(string)
			entries = append(entries, Entry{Key: key, Value: m["value"]})
		}
		return entries, nil
	}
	return nil, fmt.Errorf("expected a list of entries, got %T", v)
}

// CompileEntries compiles each entry value. Keys are kept verbatim.
func CompileEntries(ctx context.Context, entries []Entry) EntriesMapper {
	mappers := make([]Mapper, len(entries))
	for i, e := range entries {
		mappers[i] = Compile(ctx, e.Value)
	}

	return func(c Context) []Entry {
		out := make([]Entry, len(entries))
		for i, e := range entries {
			out[i] = Entry{Key: e.Key, Value: mappers[i](c)}
		}
		return out
	}
}
