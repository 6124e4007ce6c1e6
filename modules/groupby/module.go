// Package groupby provides the group-by node, which nests rows under a
// computed key.
package groupby

import (
	"context"
	"fmt"

	"github.com/vk/flowgridgo/internal/chart"
	"github.com/vk/flowgridgo/internal/expr"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/nodetype"
	"github.com/vk/flowgridgo/internal/processor"
)

const (
	PortRows   = "rows"
	PortGroups = "groups"

	FieldGroup = "group"
	FieldAlias = "alias"
)

// Module implements the chart.Module interface for this package.
type Module struct{}

// Processor regroups every batch of rows it receives.
type Processor struct {
	processor.Base
	params   chart.Params
	alias    string
	mapGroup expr.Mapper
}

// RegisterProcessor implements processor.Processor.
func (p *Processor) RegisterProcessor(inPort, outPort string, upstream processor.Processor) error {
	if inPort != PortRows {
		return fmt.Errorf("register input '%s' on %s: %w", inPort, p.Type(), processor.ErrUnknownPort)
	}
	return upstream.Subscribe(outPort, p.onNext)
}

func (p *Processor) onNext(value any) error {
	if !p.HasSubscribers(PortGroups) {
		return nil
	}
	rows, err := chart.RowsOf(value)
	if err != nil {
		return fmt.Errorf("group-by input: %w", err)
	}
	groups := Rows(rows, p.alias, func(row chart.Row, i int) string {
		return expr.AsString(p.mapGroup(p.params.EvalContext(row, i, "")))
	})
	return p.Emit(PortGroups, groups)
}

// mapContext nests the inherited columns under the alias. Grouping an
// already grouped context appends the alias and keeps the nested columns.
func mapContext(node *graph.Node, inherited chart.Context, _ chart.Params) chart.Context {
	alias := nodetype.String(node, FieldAlias)
	if inherited.Grouped() {
		return chart.Context{
			Columns:      appendDistinct(inherited.Columns, alias),
			GroupColumns: inherited.GroupColumns,
		}
	}
	return chart.Context{
		Columns:      []string{alias},
		GroupColumns: append([]string{}, inherited.Columns...),
	}
}

func appendDistinct(columns []string, c string) []string {
	out := append([]string{}, columns...)
	for _, existing := range out {
		if existing == c {
			return out
		}
	}
	return append(out, c)
}

func createProcessor(ctx context.Context, node *graph.Node, _ chart.Context, params chart.Params) (processor.Processor, error) {
	return &Processor{
		Base:     processor.NewBase(chart.TypeGroupBy, PortGroups),
		params:   params,
		alias:    nodetype.String(node, FieldAlias),
		mapGroup: expr.CompileColumnMapper(ctx, node.Field(FieldGroup)),
	}, nil
}

// Register registers the node type.
func (m *Module) Register(r *chart.Registry) {
	r.Register(chart.TypeGroupBy, &chart.Config{
		Title:       "Group-By",
		Description: "Groups the rows by a key.",
		In:          []nodetype.PortConfig{{Name: PortRows, Type: "row[]"}},
		Out:         []nodetype.PortConfig{{Name: PortGroups, Type: "row[]"}},
		Fields: []nodetype.FieldConfig{
			{Name: FieldGroup, Label: "Map Group", Kind: nodetype.FieldColumnMapper, Initial: ""},
			{Name: FieldAlias, Label: "Alias", Kind: nodetype.FieldText, Initial: ""},
		},
		MapContext:      mapContext,
		CreateProcessor: createProcessor,
	})
}
