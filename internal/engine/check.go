package engine

import (
	"strings"

	"github.com/vk/flowgridgo/internal/expr"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/nodetype"
)

// ColumnSet is implemented by contexts that know their column names.
type ColumnSet interface {
	ColumnNames() []string
}

// VariableSet is implemented by params that carry named variables.
type VariableSet interface {
	VariableNames() []string
}

// Diagnostic is a name a field reads that nothing in scope provides.
type Diagnostic struct {
	NodeID  string
	Field   string
	Name    string
	Message string
}

var reserved = []string{expr.KeyRow, expr.KeyRowIndex, expr.KeyColumnKey}

// Check reports formula and column references that resolve to neither a
// context column, a variable, nor a reserved key. Contexts that do not
// implement ColumnSet are not checked.
func (e *Engine[C, P]) Check(g *graph.Graph, contexts map[string]C, params P) []Diagnostic {
	known := make(map[string]bool)
	for _, k := range reserved {
		known[k] = true
	}
	if vs, ok := any(params).(VariableSet); ok {
		for _, v := range vs.VariableNames() {
			known[v] = true
		}
	}

	var out []Diagnostic
	for _, id := range g.NodeIDs() {
		cs, ok := any(contexts[id]).(ColumnSet)
		if !ok {
			continue
		}
		cfg, ok := e.catalog.Registry.Lookup(g.Nodes[id].Type)
		if !ok {
			continue
		}
		node := cfg.WithDefaults(g.Nodes[id])

		scope := make(map[string]bool, len(known))
		for k := range known {
			scope[k] = true
		}
		for _, c := range cs.ColumnNames() {
			scope[c] = true
		}

		for _, f := range cfg.Fields {
			for _, name := range fieldReads(f.Kind, node.Field(f.Name)) {
				if !scope[name] {
					out = append(out, Diagnostic{
						NodeID:  id,
						Field:   f.Name,
						Name:    name,
						Message: "'" + name + "' is not a column, variable or reserved name",
					})
				}
			}
		}
	}
	return out
}

// fieldReads lists the root names a field value reads.
func fieldReads(kind nodetype.FieldKind, value any) []string {
	switch kind {
	case nodetype.FieldFormula:
		return formulaReads(value)
	case nodetype.FieldColumnMapper:
		switch v := value.(type) {
		case string:
			if expr.IsFormula(v) {
				return formulaReads(v)
			}
			if c := strings.TrimSpace(v); c != "" {
				return []string{c}
			}
		case map[string]any:
			if c, ok := v["column"].(string); ok && strings.TrimSpace(c) != "" {
				return []string{strings.TrimSpace(c)}
			}
			if s, ok := v["expression"].(string); ok {
				if !expr.IsFormula(s) {
					s = "=" + s
				}
				return formulaReads(s)
			}
		}
	case nodetype.FieldEntries:
		entries, err := expr.ParseEntries(value)
		if err != nil {
			return nil
		}
		var names []string
		for _, en := range entries {
			names = append(names, formulaReads(en.Value)...)
		}
		return names
	}
	return nil
}

func formulaReads(value any) []string {
	refs, err := expr.Analyze(value)
	if err != nil {
		// Compile errors are reported when the field is compiled.
		return nil
	}
	return refs.Variables
}
