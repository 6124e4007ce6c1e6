// Package datasource provides the literal row source node.
package datasource

import (
	"context"
	"fmt"

	"github.com/vk/flowgridgo/internal/chart"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/nodetype"
	"github.com/vk/flowgridgo/internal/processor"
)

const (
	PortRows  = "rows"
	FieldData = "data"
)

// Module implements the chart.Module interface for this package.
type Module struct{}

// Processor emits the configured rows on start and accepts replacement rows
// through Push.
type Processor struct {
	*processor.Source
}

// Push validates rows and re-emits them.
func (p *Processor) Push(value any) error {
	rows, err := chart.RowsOf(value)
	if err != nil {
		return fmt.Errorf("datasource push: %w", err)
	}
	return p.Source.Push(rows)
}

func rowsField(node *graph.Node) ([]chart.Row, error) {
	rows, err := chart.RowsOf(node.Field(FieldData))
	if err != nil {
		return nil, fmt.Errorf("field '%s': %w", FieldData, err)
	}
	return rows, nil
}

func mapContext(node *graph.Node, inherited chart.Context, _ chart.Params) chart.Context {
	rows, err := rowsField(node)
	if err != nil {
		return inherited
	}
	return chart.MergeContexts(inherited, chart.Context{Columns: chart.Columns(rows)})
}

func createProcessor(_ context.Context, node *graph.Node, _ chart.Context, _ chart.Params) (processor.Processor, error) {
	rows, err := rowsField(node)
	if err != nil {
		return nil, err
	}
	return &Processor{Source: processor.NewSource(chart.TypeDataSource, PortRows, rows)}, nil
}

// Register registers the node type.
func (m *Module) Register(r *chart.Registry) {
	r.Register(chart.TypeDataSource, &chart.Config{
		Title:       "Data Source",
		Description: "Emits a literal table of rows.",
		Out:         []nodetype.PortConfig{{Name: PortRows, Type: "row[]"}},
		Fields: []nodetype.FieldConfig{
			{Name: FieldData, Label: "Data", Kind: nodetype.FieldRows, Initial: []any{}},
		},
		MapContext:      mapContext,
		CreateProcessor: createProcessor,
	})
}
