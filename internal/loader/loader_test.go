package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowgridgo/internal/graph"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func assertSortGraph(t *testing.T, g *graph.Graph) {
	t.Helper()
	require.Len(t, g.Nodes, 2)

	src := g.Nodes["orders"]
	require.NotNil(t, src)
	assert.Equal(t, "orders", src.ID)
	assert.Equal(t, "datasource", src.Type)
	assert.Equal(t, []any{map[string]any{"id": 1.0, "total": 30.0}}, src.Fields["data"])

	sort := g.Nodes["by_total"]
	require.NotNil(t, sort)
	assert.Equal(t, "total", sort.Fields["column"])
	assert.Equal(t, true, sort.Fields["desc"])
	assert.Equal(t, []graph.TargetPort{{Node: "orders", Port: "rows"}}, sort.Inputs("rows"))
	require.NoError(t, g.Validate())
}

func TestLoad_JSON(t *testing.T) {
	// --- Arrange ---
	path := writeFile(t, t.TempDir(), "graph.json", `{
  "nodes": {
    "orders": {"type": "datasource", "fields": {"data": [{"id": 1, "total": 30}]}},
    "by_total": {
      "id": "by_total",
      "type": "sort-by",
      "fields": {"column": "total", "desc": true},
      "ports": {"in": {"rows": [{"node": "orders", "port": "rows"}]}}
    }
  }
}`)

	// --- Act ---
	g, err := Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	assertSortGraph(t, g)
}

func TestLoad_HCL(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	writeFile(t, dir, "source.hcl", `
node "orders" {
  type   = "datasource"
  fields = {
    data = [{ id = 1, total = 30 }]
  }
}
`)
	writeFile(t, dir, "sort.hcl", `
node "by_total" {
  type   = "sort-by"
  fields = { column = "total", desc = true }
  input "rows" {
    from = ["orders.rows"]
  }
}
`)
	writeFile(t, dir, "README.md", "ignored")

	// --- Act ---
	g, err := Load(context.Background(), dir)

	// --- Assert ---
	require.NoError(t, err)
	assertSortGraph(t, g)
}

func TestDecode_YAML(t *testing.T) {
	// --- Arrange ---
	doc := `
nodes:
  orders:
    type: datasource
    fields:
      data:
        - id: 1.0
          total: 30.0
  by_total:
    type: sort-by
    fields:
      column: total
      desc: true
    ports:
      in:
        rows:
          - node: orders
            port: rows
`

	// --- Act ---
	g, err := Decode(FormatYAML, []byte(doc))

	// --- Assert ---
	require.NoError(t, err)
	assertSortGraph(t, g)
}

func TestDecode_HCLErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "bad target",
			src: `
node "a" {
  type = "sort-by"
  input "rows" {
    from = ["orders"]
  }
}`,
			want: "expected 'node.port'",
		},
		{
			name: "duplicate node",
			src: `
node "a" {
  type = "x"
}
node "a" {
  type = "x"
}`,
			want: "declared twice",
		},
		{
			name: "fields not an object",
			src: `
node "a" {
  type   = "x"
  fields = "nope"
}`,
			want: "expected an object",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(FormatHCL, []byte(tc.src))
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("g.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatOf("g.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncode_RoundTripsThroughJSON(t *testing.T) {
	g := graph.New()
	g.AddNode("a", "datasource", map[string]any{"data": []any{}})

	data, err := Encode(g)
	require.NoError(t, err)
	back, err := Decode(FormatJSON, data)

	require.NoError(t, err)
	assert.Equal(t, "datasource", back.Nodes["a"].Type)
}
