// Package gradient provides the gradient sampler node. It has no inputs and
// emits evenly spaced samples of a colour scale when the network starts.
package gradient

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
	PortGradient = "gradient"

	FieldScale       = "scale"
	FieldColors      = "colors"
	FieldBreakpoints = "breakpoints"
	FieldSamples     = "samples"

	DefaultSamples = 100
)

// Module implements the chart.Module interface for this package.
type Module struct{}

// FromNode builds the scale a node describes. Explicit colours win over the
// named preset.
func FromNode(node *graph.Node) (*Scale, error) {
	colors := nodetype.Strings(node, FieldColors)
	if len(colors) == 0 {
		name := nodetype.String(node, FieldScale)
		preset, ok := Presets[name]
		if !ok {
			return nil, fmt.Errorf("unknown colour scale '%s'", name)
		}
		colors = preset
	}

	var positions []float64
	if raw := nodetype.Strings(node, FieldBreakpoints); len(raw) > 0 {
		positions = make([]float64, len(raw))
		for i, s := range raw {
			f, ok := expr.ToFloat(expr.AutoConvert(s))
			if !ok {
				return nil, fmt.Errorf("breakpoint %d (%q) is not a number", i, s)
			}
			positions[i] = f
		}
	}
	return NewScale(colors, positions)
}

func createProcessor(_ context.Context, node *graph.Node, _ chart.Context, _ chart.Params) (processor.Processor, error) {
	scale, err := FromNode(node)
	if err != nil {
		return nil, err
	}
	n := nodetype.Int(node, FieldSamples, DefaultSamples)
	if n <= 0 {
		return nil, fmt.Errorf("samples must be positive, got %d", n)
	}
	return processor.NewSource(chart.TypeGradient, PortGradient, chart.Gradient{Colors: scale.Sample(n)}), nil
}

// Register registers the node type.
func (m *Module) Register(r *chart.Registry) {
	r.Register(chart.TypeGradient, &chart.Config{
		Title:       "Gradient",
		Description: "Samples a colour scale for rendering.",
		Out:         []nodetype.PortConfig{{Name: PortGradient, Type: "gradient"}},
		Fields: []nodetype.FieldConfig{
			{Name: FieldScale, Label: "Scale", Kind: nodetype.FieldSelect, Initial: "greys", Options: PresetNames()},
			{Name: FieldColors, Label: "Colors", Kind: nodetype.FieldList},
			{Name: FieldBreakpoints, Label: "Breakpoints", Kind: nodetype.FieldList},
			{Name: FieldSamples, Label: "Samples", Kind: nodetype.FieldNumber, Initial: DefaultSamples},
		},
		CreateProcessor: createProcessor,
	})
}
