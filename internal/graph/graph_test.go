package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	g := New()
	g.AddNode("a", "source", nil)
	g.AddNode("b", "source", nil)
	g.AddNode("join", "join", map[string]any{"joinType": "inner"})

	require.NoError(t, g.Connect("a", "rows", "join", "left"))
	require.NoError(t, g.Connect("b", "rows", "join", "left"))
	require.NoError(t, g.Connect("b", "rows", "join", "right"))

	n, ok := g.Node("join")
	require.True(t, ok)
	assert.Equal(t, []TargetPort{{Node: "a", Port: "rows"}, {Node: "b", Port: "rows"}}, n.Inputs("left"))
	assert.Equal(t, []TargetPort{{Node: "b", Port: "rows"}}, n.Inputs("right"))
	assert.Nil(t, n.Inputs("missing"))
	assert.Equal(t, "inner", n.Field("joinType"))

	err := g.Connect("a", "rows", "dne", "left")
	assert.ErrorContains(t, err, "destination node not found")
}

func TestNodeIDs_AreSorted(t *testing.T) {
	g := New()
	for _, id := range []string{"c", "a", "b"} {
		g.AddNode(id, "t", nil)
	}
	assert.Equal(t, []string{"a", "b", "c"}, g.NodeIDs())
}

func TestValidate(t *testing.T) {
	t.Run("valid graph", func(t *testing.T) {
		g := New()
		g.AddNode("a", "source", nil)
		g.AddNode("b", "sink", nil)
		require.NoError(t, g.Connect("a", "rows", "b", "rows"))
		assert.NoError(t, g.Validate())
	})

	t.Run("missing type and incomplete target", func(t *testing.T) {
		g := New()
		g.AddNode("a", "", nil)
		g.AddNode("b", "sink", nil)
		require.NoError(t, g.Connect("", "rows", "b", "rows"))

		err := g.Validate()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Problems, 2)
		assert.ErrorContains(t, err, "Type")
		assert.ErrorContains(t, err, "Node")
	})

	t.Run("key and id disagree", func(t *testing.T) {
		g := New()
		n := g.AddNode("a", "source", nil)
		n.ID = "other"

		assert.ErrorContains(t, g.Validate(), "node keyed 'a' declares id 'other'")
	})
}
