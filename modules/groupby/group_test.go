package groupby

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowgridgo/internal/chart"
	"github.com/vk/flowgridgo/internal/chart/charttest"
	"github.com/vk/flowgridgo/internal/expr"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/resolve"
	"github.com/vk/flowgridgo/modules/datasource"
)

func byField(name string) KeyFunc {
	return func(row chart.Row, _ int) string { return expr.AsString(row[name]) }
}

func TestRows_Ungrouped(t *testing.T) {
	// --- Arrange ---
	rows := []chart.Row{
		{"k": "b", "n": 1},
		{"k": "", "n": 2},
		{"k": "a", "n": 3},
		{"k": "b", "n": 4},
	}

	// --- Act ---
	got := Rows(rows, "key", byField("k"))

	// --- Assert ---
	want := []chart.Row{
		{"key": "b", chart.GroupKey: []chart.Row{{"k": "b", "n": 1}, {"k": "b", "n": 4}}},
		{"key": "a", chart.GroupKey: []chart.Row{{"k": "a", "n": 3}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestRows_AlreadyGrouped(t *testing.T) {
	// --- Arrange ---
	rows := []chart.Row{
		{"region": "eu", chart.GroupKey: []chart.Row{{"c": "x"}, {"c": "y"}, {"c": "x"}}},
		{"region": "us", chart.GroupKey: []chart.Row{{"c": "x"}, {"c": ""}}},
	}

	// --- Act ---
	got := Rows(rows, "city", byField("c"))

	// --- Assert ---
	want := []chart.Row{
		{"region": "eu", "city": "x", chart.GroupKey: []chart.Row{{"c": "x"}, {"c": "x"}}},
		{"region": "eu", "city": "y", chart.GroupKey: []chart.Row{{"c": "y"}}},
		{"region": "us", "city": "x", chart.GroupKey: []chart.Row{{"c": "x"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestRows_Empty(t *testing.T) {
	assert.Equal(t, []chart.Row{}, Rows(nil, "k", byField("k")))
}

func TestMapContext(t *testing.T) {
	node := &graph.Node{Fields: map[string]any{FieldAlias: "g"}}

	t.Run("ungrouped input nests columns", func(t *testing.T) {
		got := mapContext(node, chart.Context{Columns: []string{"a", "b"}}, chart.Params{})
		assert.Equal(t, chart.Context{Columns: []string{"g"}, GroupColumns: []string{"a", "b"}}, got)
	})

	t.Run("grouped input appends alias", func(t *testing.T) {
		got := mapContext(node, chart.Context{Columns: []string{"r"}, GroupColumns: []string{"a"}}, chart.Params{})
		assert.Equal(t, chart.Context{Columns: []string{"r", "g"}, GroupColumns: []string{"a"}}, got)
	})
}

func TestGroupNode_InGraph(t *testing.T) {
	// --- Arrange ---
	g := graph.New()
	charttest.Source(g, "src", []chart.Row{{"k": "a"}, {"k": "b"}, {"k": "a"}})
	g.AddNode("group", chart.TypeGroupBy, map[string]any{FieldGroup: "=upper(row.k)", FieldAlias: "K"})
	g.AddNode("out", charttest.TypeCapture, nil)
	require.NoError(t, g.Connect("src", datasource.PortRows, "group", PortRows))
	require.NoError(t, g.Connect("group", PortGroups, "out", charttest.PortIn))

	// --- Act ---
	_, rec := charttest.Run(t, g, chart.Params{}, &datasource.Module{}, &Module{})

	// --- Assert ---
	groups := rec.Rows("out")
	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0]["K"])
	assert.Len(t, chart.Children(groups[0]), 2)
	assert.Equal(t, "B", groups[1]["K"])

	t.Run("downstream context sees the alias", func(t *testing.T) {
		cat := chart.NewCatalog(chart.Params{}, &datasource.Module{}, &Module{}, &charttest.Module{Recorder: charttest.NewRecorder()})
		contexts, err := resolve.Resolve(context.Background(), g, cat, chart.Params{})
		require.NoError(t, err)
		assert.Equal(t, []string{"K"}, contexts["out"].Columns)
		assert.Equal(t, []string{"k"}, contexts["out"].GroupColumns)
	})
}
