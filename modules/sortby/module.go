// Package sortby provides the sort-by node.
package sortby

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
	PortRows = "rows"

	FieldColumn = "column"
	FieldDesc   = "desc"
)

// Module implements the chart.Module interface for this package.
type Module struct{}

// KeyFunc computes the sort key of a row.
type KeyFunc func(row chart.Row) any

// Rows returns a stably sorted copy of rows. Equal keys keep input order in
// both directions.
func Rows(rows []chart.Row, key KeyFunc, descending bool) []chart.Row {
	type keyed struct {
		row chart.Row
		key any
	}
	items := make([]keyed, len(rows))
	for i, row := range rows {
		items[i] = keyed{row: row, key: key(row)}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		c := expr.Compare(a.key, b.key)
		if descending {
			return -c
		}
		return c
	})

	out := make([]chart.Row, len(items))
	for i, it := range items {
		out[i] = it.row
	}
	return out
}

// Processor re-sorts every batch of rows it receives.
type Processor struct {
	processor.Base
	params     chart.Params
	descending bool
	mapKey     expr.Mapper
}

// RegisterProcessor implements processor.Processor.
func (p *Processor) RegisterProcessor(inPort, outPort string, upstream processor.Processor) error {
	if inPort != PortRows {
		return fmt.Errorf("register input '%s' on %s: %w", inPort, p.Type(), processor.ErrUnknownPort)
	}
	return upstream.Subscribe(outPort, p.onNext)
}

func (p *Processor) onNext(value any) error {
	if !p.HasSubscribers(PortRows) {
		return nil
	}
	rows, err := chart.RowsOf(value)
	if err != nil {
		return fmt.Errorf("sort-by input: %w", err)
	}
	// Sort keys are evaluated without a row index.
	sorted := Rows(rows, func(row chart.Row) any {
		return p.mapKey(p.params.EvalContext(row, -1, ""))
	}, p.descending)
	return p.Emit(PortRows, sorted)
}

func createProcessor(ctx context.Context, node *graph.Node, _ chart.Context, params chart.Params) (processor.Processor, error) {
	return &Processor{
		Base:       processor.NewBase(chart.TypeSortBy, PortRows),
		params:     params,
		descending: nodetype.Bool(node, FieldDesc),
		mapKey:     expr.CompileColumnMapper(ctx, node.Field(FieldColumn)),
	}, nil
}

// Register registers the node type.
func (m *Module) Register(r *chart.Registry) {
	r.Register(chart.TypeSortBy, &chart.Config{
		Title:       "Sort By",
		Description: "Sorts the rows by a key.",
		In:          []nodetype.PortConfig{{Name: PortRows, Type: "row[]"}},
		Out:         []nodetype.PortConfig{{Name: PortRows, Type: "row[]"}},
		Fields: []nodetype.FieldConfig{
			{Name: FieldColumn, Label: "Map Column Key", Kind: nodetype.FieldColumnMapper, Initial: ""},
			{Name: FieldDesc, Label: "Descending", Kind: nodetype.FieldCheck, Initial: false},
		},
		CreateProcessor: createProcessor,
	})
}
