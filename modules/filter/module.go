// Package filter provides the row filter node.
package filter

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
	PortRows       = "rows"
	FieldCondition = "condition"
)

// Module implements the chart.Module interface for this package.
type Module struct{}

// Rows keeps the rows for which keep is true, in order.
func Rows(rows []chart.Row, keep func(row chart.Row, i int) bool) []chart.Row {
	out := make([]chart.Row, 0, len(rows))
	for i, row := range rows {
		if keep(row, i) {
			out = append(out, row)
		}
	}
	return out
}

type handler struct {
	out       *processor.Adapter
	params    chart.Params
	condition expr.Mapper
}

func (h *handler) Process(_ string, values []any) error {
	var kept []chart.Row
	for _, v := range values {
		rows, err := chart.RowsOf(v)
		if err != nil {
			return fmt.Errorf("filter input: %w", err)
		}
		kept = append(kept, Rows(rows, func(row chart.Row, i int) bool {
			return expr.Truthy(h.condition(h.params.EvalContext(row, i, "")))
		})...)
	}
	if kept == nil {
		kept = []chart.Row{}
	}
	return h.out.Emit(PortRows, kept)
}

func createProcessor(ctx context.Context, node *graph.Node, _ chart.Context, params chart.Params) (processor.Processor, error) {
	a := processor.NewAdapter(chart.TypeFilter, []string{PortRows}, []string{PortRows})
	a.SetHandler(&handler{
		out:       a,
		params:    params,
		condition: expr.Compile(ctx, node.Field(FieldCondition)),
	})
	return a, nil
}

// Register registers the node type.
func (m *Module) Register(r *chart.Registry) {
	r.Register(chart.TypeFilter, &chart.Config{
		Title:       "Filter",
		Description: "Keeps the rows matching a condition. Several inputs are concatenated.",
		In:          []nodetype.PortConfig{{Name: PortRows, Type: "row[]", Multi: true}},
		Out:         []nodetype.PortConfig{{Name: PortRows, Type: "row[]"}},
		Fields: []nodetype.FieldConfig{
			{Name: FieldCondition, Label: "Condition", Kind: nodetype.FieldFormula, Initial: "true"},
		},
		CreateProcessor: createProcessor,
	})
}
