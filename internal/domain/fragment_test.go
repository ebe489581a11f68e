package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentOf(t *testing.T) {
	g := NewGraph()
	_, _ = g.AddEdge("A", "B", 4, "")
	_, _ = g.AddEdge("A", "C", 2, "")

	f := FragmentOf(g)
	require.Len(t, f.Nodes, 3)
	assert.Equal(t, "node_0", f.Nodes[0].ID)
	assert.Nil(t, f.Nodes[0].Neighbors)
	require.Len(t, f.Edges, 2)

	nodes, err := f.NodeMap()
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), nodes)
}

func TestFragmentNodeMap(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		edges []Edge
	}{
		{"node without id", []Node{{Label: "A"}}, nil},
		{"duplicate node", []Node{{ID: "node_0", Label: "A"}, {ID: "node_0", Label: "B"}}, nil},
		{"unknown source", []Node{{ID: "node_0"}}, []Edge{NewEdge("node_7", "node_0", 1)}},
		{"unknown target", []Node{{ID: "node_0"}}, []Edge{NewEdge("node_0", "node_7", 1)}},
		{
			"duplicate edge",
			[]Node{{ID: "node_0"}, {ID: "node_1"}},
			[]Edge{NewEdge("node_0", "node_1", 1), NewEdge("node_0", "node_1", 5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewGraphFragment()
			for _, n := range tt.nodes {
				f.AddNode(n)
			}
			for _, e := range tt.edges {
				f.AddEdge(e)
			}
			_, err := f.NodeMap()
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}
