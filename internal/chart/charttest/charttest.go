// Package charttest provides helpers for exercising chart node types inside
// a real network.
package charttest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/flowgridgo/internal/chart"
	"github.com/vk/flowgridgo/internal/engine"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/network"
	"github.com/vk/flowgridgo/internal/nodetype"
	"github.com/vk/flowgridgo/internal/processor"
)

const (
	// TypeCapture records every value it receives.
	TypeCapture = "capture"
	PortIn      = "in"
)

// Recorder collects values delivered to capture nodes, keyed by node id.
type Recorder struct {
	Values map[string][]any
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Values: make(map[string][]any)}
}

// Last returns the last value a capture node received, or nil.
func (r *Recorder) Last(id string) any {
	vals := r.Values[id]
	if len(vals) == 0 {
		return nil
	}
	return vals[len(vals)-1]
}

// Rows returns the last value of a capture node as rows.
func (r *Recorder) Rows(id string) []chart.Row {
	rows, _ := chart.RowsOf(r.Last(id))
	return rows
}

type capture struct {
	id  string
	rec *Recorder
}

func (c *capture) Process(_ string, values []any) error {
	c.rec.Values[c.id] = append(c.rec.Values[c.id], values[0])
	return nil
}

// Module registers the capture node type.
type Module struct {
	Recorder *Recorder
}

// Register implements chart.Module.
func (m *Module) Register(r *chart.Registry) {
	r.Register(TypeCapture, &chart.Config{
		Title: "Capture",
		In:    []nodetype.PortConfig{{Name: PortIn}},
		CreateProcessor: func(_ context.Context, node *graph.Node, _ chart.Context, _ chart.Params) (processor.Processor, error) {
			a := processor.NewAdapter(TypeCapture, []string{PortIn}, nil)
			a.SetHandler(&capture{id: node.ID, rec: m.Recorder})
			return a, nil
		},
	})
}

// Source adds a datasource-like node emitting rows. It is a thin alias so
// tests read as graph descriptions.
func Source(g *graph.Graph, id string, rows []chart.Row) *graph.Node {
	data := make([]any, len(rows))
	for i, r := range rows {
		data[i] = r
	}
	return g.AddNode(id, chart.TypeDataSource, map[string]any{"data": data})
}

// Run builds and starts g with the given modules plus the capture type. The
// network is stopped when the test ends.
func Run(t testing.TB, g *graph.Graph, params chart.Params, modules ...chart.Module) (*network.Network, *Recorder) {
	t.Helper()
	rec := NewRecorder()
	modules = append(modules, &Module{Recorder: rec})
	eng := engine.New(chart.NewCatalog(params, modules...))

	net, err := eng.Run(context.Background(), g, params)
	require.NoError(t, err)
	t.Cleanup(net.Stop)
	return net, rec
}
