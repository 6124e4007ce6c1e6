package nodetype

import (
	"strings"

	"github.com/vk/flowgridgo/internal/expr"
	"github.com/vk/flowgridgo/internal/graph"
)

// String reads a text field. Non-string values are formatted.
func String(node *graph.Node, name string) string {
	return strings.TrimSpace(expr.AsString(node.Field(name)))
}

// Bool reads a check field. Strings are auto-converted first, so "true" counts.
func Bool(node *graph.Node, name string) bool {
	v := node.Field(name)
	if s, ok := v.(string); ok {
		v = expr.AutoConvert(s)
	}
	b, _ := v.(bool)
	return b
}

// Int reads a number field, returning fallback when it is not numeric.
func Int(node *graph.Node, name string, fallback int) int {
	v := node.Field(name)
	if s, ok := v.(string); ok {
		v = expr.AutoConvert(s)
	}
	f, ok := expr.ToFloat(v)
	if !ok {
		return fallback
	}
	return int(f)
}

// Strings reads a list field of strings. A single string is a one-item list.
func Strings(node *graph.Node, name string) []string {
	switch v := node.Field(name).(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{strings.TrimSpace(v)}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, expr.AsString(item))
		}
		return out
	}
	return nil
}
