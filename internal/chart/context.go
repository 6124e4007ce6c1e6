package chart

import (
	"slices"
	"sort"

	"github.com/vk/flowgridgo/internal/expr"
	"github.com/vk/flowgridgo/internal/nodetype"
)

// Context is what a node sees of its upstream: the column names of the rows
// it will receive. Inside a group, GroupColumns lists the columns of the
// nested rows; it is nil outside any group.
type Context struct {
	Columns      []string `json:"columns" yaml:"columns"`
	GroupColumns []string `json:"groupColumns,omitempty" yaml:"groupColumns,omitempty"`
}

// Grouped reports whether the context describes grouped rows.
func (c Context) Grouped() bool {
	return c.GroupColumns != nil
}

// ColumnNames lists every column a formula may reference.
func (c Context) ColumnNames() []string {
	return appendDistinct(slices.Clone(c.Columns), c.GroupColumns...)
}

// MergeContexts unions the columns of two inherited contexts, keeping first-seen order.
func MergeContexts(a, b Context) Context {
	out := Context{Columns: appendDistinct(slices.Clone(a.Columns), b.Columns...)}
	if a.GroupColumns != nil || b.GroupColumns != nil {
		out.GroupColumns = appendDistinct(slices.Clone(a.GroupColumns), b.GroupColumns...)
		if out.GroupColumns == nil {
			out.GroupColumns = []string{}
		}
	}
	return out
}

func appendDistinct(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

// RenderFunc receives every view a sink renders.
type RenderFunc func(viewID string, view View)

// Params is shared by every node of one run.
type Params struct {
	Variables  map[string]any
	RenderView RenderFunc
}

// VariableNames lists the variable names, sorted.
func (p Params) VariableNames() []string {
	names := make([]string, 0, len(p.Variables))
	for k := range p.Variables {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// EvalContext builds the evaluation context of one row.
func (p Params) EvalContext(row Row, index int, key string) expr.Context {
	return expr.NewContext(row, index, key, p.Variables)
}

// Render hands a view to the run's callback, if one is set.
func (p Params) Render(viewID string, view View) {
	if p.RenderView != nil {
		p.RenderView(viewID, view)
	}
}

// Aliases binding the generic runtime to this node family.
type (
	Config   = nodetype.Config[Context, Params]
	Registry = nodetype.Registry[Context, Params]
	Catalog  = nodetype.Catalog[Context, Params]
	Module   = nodetype.Module[Context, Params]
)

// NewCatalog registers modules into a catalog with an empty base context.
func NewCatalog(params Params, modules ...Module) *Catalog {
	return nodetype.NewCatalog(Context{Columns: []string{}}, params, MergeContexts, modules...)
}
