// Package gridview provides the grid view sink. It renders its input rows
// through the run's view callback and has no data output.
package gridview

import (
	"context"
	"fmt"

	"github.com/vk/flowgridgo/internal/chart"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/nodetype"
	"github.com/vk/flowgridgo/internal/processor"
)

const (
	PortRows    = "rows"
	PortColumns = "columns"

	FieldName = "name"
)

// Module implements the chart.Module interface for this package.
type Module struct{}

// ViewName returns the view id a grid view node renders under.
func ViewName(node *graph.Node) string {
	if name := nodetype.String(node, FieldName); name != "" {
		return name
	}
	return "grid-" + node.ID
}

// Build lays rows out as a grid. With explicit columns every cell is
// computed by its column mapper; without, every key seen across the rows
// becomes a column.
func Build(rows []chart.Row, columns []chart.ColumnConfig, params chart.Params) chart.View {
	view := chart.View{Type: chart.ViewGrid}

	if len(columns) == 0 {
		for _, k := range chart.Columns(rows) {
			view.Columns = append(view.Columns, chart.Column{Key: k, Name: k})
		}
		view.Data = rows
		return view
	}

	for _, c := range columns {
		view.Columns = append(view.Columns, chart.Column{Key: c.Name, Name: c.Name, Width: c.Width})
	}
	view.Data = make([]chart.Row, len(rows))
	for i, row := range rows {
		cells := make(chart.Row, len(columns))
		for _, c := range columns {
			if c.Mapper == nil {
				cells[c.Name] = nil
				continue
			}
			cells[c.Name] = c.Mapper(params.EvalContext(row, i, c.Name))
		}
		view.Data[i] = cells
	}
	return view
}

type handler struct {
	in       *processor.Adapter
	ctx      context.Context
	viewName string
	params   chart.Params

	rows    []chart.Row
	hasRows bool
	columns []chart.ColumnConfig
}

func (h *handler) Process(port string, values []any) error {
	switch port {
	case PortRows:
		var rows []chart.Row
		for _, v := range values {
			r, err := chart.RowsOf(v)
			if err != nil {
				return fmt.Errorf("grid view rows: %w", err)
			}
			rows = append(rows, r...)
		}
		h.rows, h.hasRows = rows, true
	case PortColumns:
		columns := make([]chart.ColumnConfig, 0, len(values))
		for i, v := range values {
			c, ok := v.(chart.ColumnConfig)
			if !ok {
				return fmt.Errorf("grid view column %d: expected a column config, got %T", i, v)
			}
			columns = append(columns, c)
		}
		h.columns = columns
	}

	if !h.hasRows {
		return nil
	}
	if h.in.Wired(PortColumns) > 0 && !h.in.Ready(PortColumns) {
		return nil
	}

	view := Build(h.rows, h.columns, h.params)
	ctxlog.FromContext(h.ctx).Debug("Rendering view.", "view", h.viewName, "rows", len(view.Data), "columns", len(view.Columns))
	h.params.Render(h.viewName, view)
	return nil
}

func createProcessor(ctx context.Context, node *graph.Node, _ chart.Context, params chart.Params) (processor.Processor, error) {
	a := processor.NewAdapter(chart.TypeGridView, []string{PortRows, PortColumns}, nil)
	a.SetHandler(&handler{
		in:       a,
		ctx:      ctx,
		viewName: ViewName(node),
		params:   params,
	})
	return a, nil
}

// Register registers the node type.
func (m *Module) Register(r *chart.Registry) {
	r.Register(chart.TypeGridView, &chart.Config{
		Title:       "Grid View",
		Description: "Displays the data as a grid view.",
		In: []nodetype.PortConfig{
			{Name: PortRows, Type: "row[]"},
			{Name: PortColumns, Type: "column", Multi: true},
		},
		Fields: []nodetype.FieldConfig{
			{Name: FieldName, Label: "Name", Kind: nodetype.FieldText, Initial: ""},
		},
		CreateProcessor: createProcessor,
	})
}
