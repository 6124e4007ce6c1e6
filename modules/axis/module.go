// Package axis provides the chart axis node. It has no inputs and emits an
// axis configuration built from its fields when the network starts.
package axis

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/flowgridgo/internal/chart"
	"github.com/vk/flowgridgo/internal/expr"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/nodetype"
	"github.com/vk/flowgridgo/internal/processor"
)

const (
	PortAxis = "axis"

	FieldType        = "type"
	FieldLabel       = "label"
	FieldBeginAtZero = "beginAtZero"
	FieldStacked     = "stacked"
	FieldParams      = "params"
)

// Module implements the chart.Module interface for this package.
type Module struct{}

// Build evaluates the axis fields of node. Params entries are evaluated once
// against the run variables.
func Build(ctx context.Context, node *graph.Node, params chart.Params) (chart.AxisConfig, error) {
	axisType := nodetype.String(node, FieldType)
	if !slices.Contains(chart.AxisTypes, axisType) {
		return chart.AxisConfig{}, fmt.Errorf("unsupported axis type '%s'", axisType)
	}

	entries, err := expr.ParseEntries(node.Field(FieldParams))
	if err != nil {
		return chart.AxisConfig{}, fmt.Errorf("field '%s': %w", FieldParams, err)
	}
	var evaluated map[string]any
	if len(entries) > 0 {
		evaluated = make(map[string]any, len(entries))
		for _, e := range expr.CompileEntries(ctx, entries)(expr.VarsContext(params.Variables)) {
			if e.Key != "" {
				evaluated[e.Key] = e.Value
			}
		}
	}

	return chart.AxisConfig{
		Type:        chart.AxisType(axisType),
		Label:       nodetype.String(node, FieldLabel),
		BeginAtZero: nodetype.Bool(node, FieldBeginAtZero),
		Stacked:     nodetype.Bool(node, FieldStacked),
		Params:      evaluated,
	}, nil
}

func createProcessor(ctx context.Context, node *graph.Node, _ chart.Context, params chart.Params) (processor.Processor, error) {
	cfg, err := Build(ctx, node, params)
	if err != nil {
		return nil, err
	}
	return processor.NewSource(chart.TypeAxis, PortAxis, cfg), nil
}

// Register registers the node type.
func (m *Module) Register(r *chart.Registry) {
	r.Register(chart.TypeAxis, &chart.Config{
		Title:       "Chart Axis",
		Description: "Constructs an axis for the chart.",
		Out:         []nodetype.PortConfig{{Name: PortAxis, Type: "axis"}},
		Fields: []nodetype.FieldConfig{
			{Name: FieldType, Label: "Type", Kind: nodetype.FieldSelect, Initial: string(chart.AxisLinear), Options: chart.AxisTypes},
			{Name: FieldLabel, Label: "Label", Kind: nodetype.FieldText, Initial: ""},
			{Name: FieldBeginAtZero, Label: "Begin at Zero", Kind: nodetype.FieldCheck, Initial: false},
			{Name: FieldStacked, Label: "Stacked", Kind: nodetype.FieldCheck, Initial: false},
			{Name: FieldParams, Label: "Params", Kind: nodetype.FieldEntries, Initial: []any{}},
		},
		CreateProcessor: createProcessor,
	})
}
