// Package join provides the two-input join node.
package join

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
	PortLeft  = "left"
	PortRight = "right"
	PortRows  = "rows"

	FieldJoinType = "joinType"
	FieldKeyLeft  = "joinKeyLeft"
	FieldKeyRight = "joinKeyRight"
)

// Module implements the chart.Module interface for this package.
type Module struct{}

// Processor buffers the latest rows of both sides and re-joins whenever
// either side fires, once both have fired.
type Processor struct {
	processor.Base
	params   chart.Params
	joinType Type
	keyLeft  expr.Mapper
	keyRight expr.Mapper

	left, right       []chart.Row
	hasLeft, hasRight bool
}

// RegisterProcessor implements processor.Processor.
func (p *Processor) RegisterProcessor(inPort, outPort string, upstream processor.Processor) error {
	switch inPort {
	case PortLeft:
		return upstream.Subscribe(outPort, p.onLeft)
	case PortRight:
		return upstream.Subscribe(outPort, p.onRight)
	}
	return fmt.Errorf("register input '%s' on %s: %w", inPort, p.Type(), processor.ErrUnknownPort)
}

func (p *Processor) onLeft(value any) error {
	rows, err := chart.RowsOf(value)
	if err != nil {
		return fmt.Errorf("join left input: %w", err)
	}
	p.left, p.hasLeft = rows, true
	return p.update()
}

func (p *Processor) onRight(value any) error {
	rows, err := chart.RowsOf(value)
	if err != nil {
		return fmt.Errorf("join right input: %w", err)
	}
	p.right, p.hasRight = rows, true
	return p.update()
}

func (p *Processor) update() error {
	if !p.hasLeft || !p.hasRight || !p.HasSubscribers(PortRows) {
		return nil
	}
	rows := Rows(p.joinType, p.left, p.right, p.keyFunc(p.keyLeft), p.keyFunc(p.keyRight))
	return p.Emit(PortRows, rows)
}

func (p *Processor) keyFunc(m expr.Mapper) KeyFunc {
	return func(row chart.Row, i int) string {
		return expr.AsString(m(p.params.EvalContext(row, i, "")))
	}
}

func createProcessor(ctx context.Context, node *graph.Node, _ chart.Context, params chart.Params) (processor.Processor, error) {
	joinType := Type(nodetype.String(node, FieldJoinType))
	if !slices.Contains(Types, string(joinType)) {
		return nil, fmt.Errorf("unsupported join type '%s'", joinType)
	}
	return &Processor{
		Base:     processor.NewBase(chart.TypeJoin, PortRows),
		params:   params,
		joinType: joinType,
		keyLeft:  expr.CompileColumnMapper(ctx, node.Field(FieldKeyLeft)),
		keyRight: expr.CompileColumnMapper(ctx, node.Field(FieldKeyRight)),
	}, nil
}

// Register registers the node type.
func (m *Module) Register(r *chart.Registry) {
	r.Register(chart.TypeJoin, &chart.Config{
		Title:       "Join",
		Description: "Joins two tables together based on a key.",
		In: []nodetype.PortConfig{
			{Name: PortLeft, Type: "row[]"},
			{Name: PortRight, Type: "row[]"},
		},
		Out: []nodetype.PortConfig{{Name: PortRows, Type: "row[]"}},
		Fields: []nodetype.FieldConfig{
			{Name: FieldJoinType, Label: "Join Type", Kind: nodetype.FieldSelect, Initial: string(Left), Options: Types},
			{Name: FieldKeyLeft, Label: "Map Key Left", Kind: nodetype.FieldColumnMapper, Initial: ""},
			{Name: FieldKeyRight, Label: "Map Key Right", Kind: nodetype.FieldColumnMapper, Initial: ""},
		},
		CreateProcessor: createProcessor,
	})
}
