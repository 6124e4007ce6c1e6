// Package gridcolumn provides the grid column node, a zero-input node that
// describes one column of a grid view.
package gridcolumn

import (
	"context"
	"strings"

	"github.com/vk/flowgridgo/internal/chart"
	"github.com/vk/flowgridgo/internal/expr"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/nodetype"
	"github.com/vk/flowgridgo/internal/processor"
)

const (
	PortColumn = "column"

	FieldName  = "name"
	FieldWidth = "width"
	FieldValue = "value"
)

// Module implements the chart.Module interface for this package.
type Module struct{}

// columnName picks the header: the name field, else the referenced column,
// else one derived from the node id.
func columnName(node *graph.Node) string {
	if name := nodetype.String(node, FieldName); name != "" {
		return name
	}
	switch v := node.Field(FieldValue).(type) {
	case string:
		if c := strings.TrimSpace(v); c != "" && !expr.IsFormula(c) {
			return c
		}
	case map[string]any:
		if c, ok := v["column"].(string); ok && strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return "column-" + node.ID
}

func createProcessor(ctx context.Context, node *graph.Node, _ chart.Context, _ chart.Params) (processor.Processor, error) {
	cfg := chart.ColumnConfig{
		Name:   columnName(node),
		Width:  nodetype.Int(node, FieldWidth, 0),
		Mapper: expr.CompileColumnMapper(ctx, node.Field(FieldValue)),
	}
	return processor.NewSource(chart.TypeGridColumn, PortColumn, cfg), nil
}

// Register registers the node type.
func (m *Module) Register(r *chart.Registry) {
	r.Register(chart.TypeGridColumn, &chart.Config{
		Title:       "Grid Column",
		Description: "Describes one column of a grid view.",
		Out:         []nodetype.PortConfig{{Name: PortColumn, Type: "column"}},
		Fields: []nodetype.FieldConfig{
			{Name: FieldName, Label: "Name", Kind: nodetype.FieldText, Initial: ""},
			{Name: FieldWidth, Label: "Width", Kind: nodetype.FieldNumber, Initial: 0},
			{Name: FieldValue, Label: "Value", Kind: nodetype.FieldColumnMapper, Initial: ""},
		},
		CreateProcessor: createProcessor,
	})
}
