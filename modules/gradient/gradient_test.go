package gradient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowgridgo/internal/chart"
	"github.com/vk/flowgridgo/internal/chart/charttest"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/network"
)

func TestScale_Sample(t *testing.T) {
	// --- Arrange ---
	s, err := NewScale([]string{"#ffffff", "#000000"}, nil)
	require.NoError(t, err)

	// --- Act ---
	got := s.Sample(2)

	// --- Assert ---
	// Samples sit at i/n, so the last stop itself is never sampled.
	assert.Equal(t, []string{"#ffffff", "#808080"}, got)
}

func TestScale_Breakpoints(t *testing.T) {
	s, err := NewScale([]string{"#ff0000", "#00ff00", "#0000ff"}, []float64{0, 0.25, 1})
	require.NoError(t, err)

	assert.Equal(t, "#00ff00", s.At(0.25).Hex())
	assert.Equal(t, "#ff0000", s.At(-1).Hex())
	assert.Equal(t, "#0000ff", s.At(2).Hex())
}

func TestNewScale_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		colors    []string
		positions []float64
	}{
		{name: "no colours"},
		{name: "bad hex", colors: []string{"nope"}},
		{name: "length mismatch", colors: []string{"#000000", "#ffffff"}, positions: []float64{0}},
		{name: "decreasing", colors: []string{"#000000", "#ffffff"}, positions: []float64{0.5, 0.1}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewScale(tc.colors, tc.positions)
			assert.Error(t, err)
		})
	}
}

func TestGradientNode(t *testing.T) {
	t.Run("default preset and sample count", func(t *testing.T) {
		// --- Arrange ---
		g := graph.New()
		g.AddNode("grad", chart.TypeGradient, nil)
		g.AddNode("out", charttest.TypeCapture, nil)
		require.NoError(t, g.Connect("grad", PortGradient, "out", charttest.PortIn))

		// --- Act ---
		_, rec := charttest.Run(t, g, chart.Params{}, &Module{})

		// --- Assert ---
		got, ok := rec.Last("out").(chart.Gradient)
		require.True(t, ok)
		assert.Len(t, got.Colors, DefaultSamples)
		assert.Equal(t, "#ffffff", got.Colors[0])
	})

	t.Run("explicit colours", func(t *testing.T) {
		g := graph.New()
		g.AddNode("grad", chart.TypeGradient, map[string]any{
			FieldColors:  []any{"#000000", "#ffffff"},
			FieldSamples: 4.0,
		})
		g.AddNode("out", charttest.TypeCapture, nil)
		require.NoError(t, g.Connect("grad", PortGradient, "out", charttest.PortIn))

		_, rec := charttest.Run(t, g, chart.Params{}, &Module{})

		got := rec.Last("out").(chart.Gradient)
		assert.Equal(t, []string{"#000000", "#404040", "#808080", "#bfbfbf"}, got.Colors)
	})
}

func TestGradientNode_RejectsNonPositiveSamples(t *testing.T) {
	for _, samples := range []any{0.0, -3.0} {
		// --- Arrange ---
		g := graph.New()
		g.AddNode("grad", chart.TypeGradient, map[string]any{FieldSamples: samples})
		cat := chart.NewCatalog(chart.Params{}, &Module{})

		// --- Act ---
		_, err := network.Build(context.Background(), g, cat, nil, chart.Params{})

		// --- Assert ---
		var buildErr *network.ProcessorConstructionError
		require.ErrorAs(t, err, &buildErr, "samples=%v", samples)
		assert.ErrorContains(t, err, "samples must be positive")
	}
}
