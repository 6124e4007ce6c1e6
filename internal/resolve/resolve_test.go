package resolve

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/nodetype"
	"github.com/vk/flowgridgo/internal/processor"
)

// columns is a minimal context: the set of column names visible to a node.
type columns []string

func union(a, b columns) columns {
	out := slices.Clone(a)
	for _, c := range b {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func noop(context.Context, *graph.Node, columns, struct{}) (processor.Processor, error) {
	return processor.NewSource("noop", "out", nil), nil
}

// testCatalog registers "source" (adds its "column" field), "pass" (two
// inputs, no mapping) and "count" (counts MapContext calls).
func testCatalog(mapCalls *int) *nodetype.Catalog[columns, struct{}] {
	cat := nodetype.NewCatalog[columns, struct{}](columns{"base"}, struct{}{}, union)
	addColumn := func(n *graph.Node, in columns, _ struct{}) columns {
		return union(in, columns{n.Field("column").(string)})
	}
	cat.Registry.Register("source", &nodetype.Config[columns, struct{}]{
		Out:             []nodetype.PortConfig{{Name: "out"}},
		MapContext:      addColumn,
		CreateProcessor: noop,
	})
	cat.Registry.Register("pass", &nodetype.Config[columns, struct{}]{
		In:              []nodetype.PortConfig{{Name: "left"}, {Name: "right"}},
		Out:             []nodetype.PortConfig{{Name: "out"}},
		CreateProcessor: noop,
	})
	cat.Registry.Register("count", &nodetype.Config[columns, struct{}]{
		In:  []nodetype.PortConfig{{Name: "in", Multi: true}},
		Out: []nodetype.PortConfig{{Name: "out"}},
		MapContext: func(n *graph.Node, in columns, _ struct{}) columns {
			*mapCalls++
			return union(in, columns{n.ID})
		},
		CreateProcessor: noop,
	})
	return cat
}

func TestResolve(t *testing.T) {
	t.Run("sources inherit the base context", func(t *testing.T) {
		// --- Arrange ---
		var calls int
		g := graph.New()
		g.AddNode("a", "source", map[string]any{"column": "x"})

		// --- Act ---
		got, err := Resolve(context.Background(), g, testCatalog(&calls), struct{}{})

		// --- Assert ---
		require.NoError(t, err)
		assert.Equal(t, columns{"base"}, got["a"])
	})

	t.Run("merge follows port declaration order", func(t *testing.T) {
		// --- Arrange ---
		var calls int
		g := graph.New()
		g.AddNode("l", "source", map[string]any{"column": "lcol"})
		g.AddNode("r", "source", map[string]any{"column": "rcol"})
		g.AddNode("j", "pass", nil)
		require.NoError(t, g.Connect("r", "out", "j", "right"))
		require.NoError(t, g.Connect("l", "out", "j", "left"))

		// --- Act ---
		nodes, err := ResolveNodes(context.Background(), g, testCatalog(&calls), struct{}{})

		// --- Assert ---
		require.NoError(t, err)
		assert.Equal(t, columns{"base", "lcol", "rcol"}, nodes["j"].Context)
		assert.Equal(t, []columns{{"base", "lcol"}}, nodes["j"].Parents["left"])
		assert.Equal(t, []columns{{"base", "rcol"}}, nodes["j"].Parents["right"])
	})

	t.Run("diamond resolves shared upstream once", func(t *testing.T) {
		// --- Arrange ---
		var calls int
		g := graph.New()
		g.AddNode("top", "source", map[string]any{"column": "x"})
		g.AddNode("mid1", "pass", nil)
		g.AddNode("mid2", "pass", nil)
		g.AddNode("sink", "pass", nil)
		require.NoError(t, g.Connect("top", "out", "mid1", "left"))
		require.NoError(t, g.Connect("top", "out", "mid2", "left"))
		require.NoError(t, g.Connect("mid1", "out", "sink", "left"))
		require.NoError(t, g.Connect("mid2", "out", "sink", "right"))

		// --- Act ---
		nodes, err := ResolveNodes(context.Background(), g, testCatalog(&calls), struct{}{})

		// --- Assert ---
		require.NoError(t, err)
		require.Len(t, nodes, 4)
		assert.Equal(t, columns{"base", "x"}, nodes["sink"].Context)
	})

	t.Run("diamond is independent of port and target order", func(t *testing.T) {
		// --- Arrange ---
		diamond := func(sinkType string, wire func(g *graph.Graph)) *graph.Graph {
			g := graph.New()
			g.AddNode("top", "source", map[string]any{"column": "x"})
			g.AddNode("m1", "count", nil)
			g.AddNode("m2", "count", nil)
			g.AddNode("sink", sinkType, nil)
			require.NoError(t, g.Connect("top", "out", "m1", "in"))
			require.NoError(t, g.Connect("top", "out", "m2", "in"))
			wire(g)
			return g
		}
		testCases := []struct {
			name   string
			first  *graph.Graph
			second *graph.Graph
		}{
			{
				name: "ports swapped",
				first: diamond("pass", func(g *graph.Graph) {
					require.NoError(t, g.Connect("m1", "out", "sink", "left"))
					require.NoError(t, g.Connect("m2", "out", "sink", "right"))
				}),
				second: diamond("pass", func(g *graph.Graph) {
					require.NoError(t, g.Connect("m2", "out", "sink", "left"))
					require.NoError(t, g.Connect("m1", "out", "sink", "right"))
				}),
			},
			{
				name: "targets swapped",
				first: diamond("count", func(g *graph.Graph) {
					require.NoError(t, g.Connect("m1", "out", "sink", "in"))
					require.NoError(t, g.Connect("m2", "out", "sink", "in"))
				}),
				second: diamond("count", func(g *graph.Graph) {
					require.NoError(t, g.Connect("m2", "out", "sink", "in"))
					require.NoError(t, g.Connect("m1", "out", "sink", "in"))
				}),
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				var calls int

				// --- Act ---
				a, errA := Resolve(context.Background(), tc.first, testCatalog(&calls), struct{}{})
				b, errB := Resolve(context.Background(), tc.second, testCatalog(&calls), struct{}{})

				// --- Assert ---
				require.NoError(t, errA)
				require.NoError(t, errB)
				assert.ElementsMatch(t, columns{"base", "x", "m1", "m2"}, a["sink"])
				assert.ElementsMatch(t, a["sink"], b["sink"])
			})
		}
	})

	t.Run("map context reapplied on every visit", func(t *testing.T) {
		// --- Arrange ---
		var calls int
		g := graph.New()
		g.AddNode("c", "count", nil)
		g.AddNode("d1", "pass", nil)
		g.AddNode("d2", "pass", nil)
		require.NoError(t, g.Connect("c", "out", "d1", "left"))
		require.NoError(t, g.Connect("c", "out", "d2", "left"))

		// --- Act ---
		got, err := Resolve(context.Background(), g, testCatalog(&calls), struct{}{})

		// --- Assert ---
		require.NoError(t, err)
		assert.Equal(t, columns{"base"}, got["c"], "stored context is pre-mapping")
		assert.Equal(t, columns{"base", "c"}, got["d1"])
		assert.Equal(t, columns{"base", "c"}, got["d2"])
		assert.Equal(t, 3, calls)
	})

	t.Run("missing upstream yields base context", func(t *testing.T) {
		// --- Arrange ---
		var calls int
		g := graph.New()
		g.AddNode("j", "pass", nil)
		require.NoError(t, g.Connect("ghost", "out", "j", "left"))

		// --- Act ---
		got, err := Resolve(context.Background(), g, testCatalog(&calls), struct{}{})

		// --- Assert ---
		require.NoError(t, err)
		assert.Equal(t, columns{"base"}, got["j"])
	})

	t.Run("cycle fails", func(t *testing.T) {
		// --- Arrange ---
		var calls int
		g := graph.New()
		g.AddNode("a", "pass", nil)
		g.AddNode("b", "pass", nil)
		require.NoError(t, g.Connect("a", "out", "b", "left"))
		require.NoError(t, g.Connect("b", "out", "a", "left"))

		// --- Act ---
		_, err := Resolve(context.Background(), g, testCatalog(&calls), struct{}{})

		// --- Assert ---
		var cycleErr *CyclicDependencyError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, []string{"a", "b", "a"}, cycleErr.Path)
		assert.Contains(t, err.Error(), "a -> b -> a")
	})

	t.Run("unknown type fails", func(t *testing.T) {
		var calls int
		g := graph.New()
		g.AddNode("x", "mystery", nil)

		_, err := Resolve(context.Background(), g, testCatalog(&calls), struct{}{})

		assert.ErrorIs(t, err, ErrUnknownNodeType)
	})
}
