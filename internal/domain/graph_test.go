package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAddEdge(t *testing.T) {
	t.Run("reuses source by label and mints fresh targets", func(t *testing.T) {
		g := NewGraph()

		first, err := g.AddEdge("A", "B", 4, "")
		require.NoError(t, err)
		second, err := g.AddEdge("A", "C", 2, "")
		require.NoError(t, err)

		assert.Equal(t, first.SourceID, second.SourceID)
		assert.True(t, first.SourceCreated)
		assert.False(t, second.SourceCreated)
		assert.Equal(t, 3, g.Len())
		assert.Equal(t, 3, g.Counter())

		a, ok := g.Node(first.SourceID)
		require.True(t, ok)
		assert.Equal(t, "A", a.Label)
		assert.Equal(t, map[string]float64{first.TargetID: 4, second.TargetID: 2}, a.Neighbors)

		b, _ := g.Node(first.TargetID)
		c, _ := g.Node(second.TargetID)
		assert.Equal(t, "B", b.Label)
		assert.Equal(t, "C", c.Label)
		assert.Empty(t, b.Neighbors)
		assert.Empty(t, c.Neighbors)
	})

	t.Run("duplicate target labels stay distinct nodes", func(t *testing.T) {
		g := NewGraph()
		r1, err := g.AddEdge("A", "B", 1, "")
		require.NoError(t, err)
		r2, err := g.AddEdge("A", "B", 1, "")
		require.NoError(t, err)

		assert.NotEqual(t, r1.TargetID, r2.TargetID)
		assert.Equal(t, 3, g.Len())
	})

	t.Run("explicit source id wins over label", func(t *testing.T) {
		g := NewGraph()
		r1, _ := g.AddEdge("A", "B", 1, "")
		r2, _ := g.AddEdge("A", "B", 1, "")

		// r2.TargetID is the second "B"; the label would resolve to the first one
		r3, err := g.AddEdge("B", "D", 7, r2.TargetID)
		require.NoError(t, err)
		assert.Equal(t, r2.TargetID, r3.SourceID)

		first, _ := g.Node(r1.TargetID)
		assert.Empty(t, first.Neighbors)
	})

	t.Run("unknown explicit source falls back to label", func(t *testing.T) {
		g := NewGraph()
		r1, _ := g.AddEdge("A", "B", 1, "")
		r2, err := g.AddEdge("A", "C", 1, "node_99")
		require.NoError(t, err)
		assert.Equal(t, r1.SourceID, r2.SourceID)
	})

	t.Run("rejects invalid input without mutating", func(t *testing.T) {
		tests := []struct {
			name   string
			source string
			target string
			cost   float64
		}{
			{"empty source", "", "B", 1},
			{"blank target", "A", "   ", 1},
			{"NaN cost", "A", "B", math.NaN()},
			{"infinite cost", "A", "B", math.Inf(1)},
			{"negative cost", "A", "B", -1},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				g := NewGraph()
				_, _ = g.AddEdge("X", "Y", 1, "")
				before := g.Nodes()

				_, err := g.AddEdge(tt.source, tt.target, tt.cost, "")
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				assert.Equal(t, before, g.Nodes())
				assert.Equal(t, 2, g.Counter())
			})
		}
	})

	t.Run("no dangling edges after any sequence", func(t *testing.T) {
		g := NewGraph()
		labels := []string{"A", "B", "C", "A", "D", "B", "E"}
		for i := 0; i+1 < len(labels); i++ {
			_, err := g.AddEdge(labels[i], labels[i+1], float64(i), "")
			require.NoError(t, err)
		}
		_, err := g.AddEdge("ignored", "F", 3, "node_2")
		require.NoError(t, err)

		require.NoError(t, g.Validate())
		for _, n := range g.Nodes() {
			for target := range n.Neighbors {
				assert.True(t, g.Has(target), "dangling edge %s -> %s", n.ID, target)
			}
		}
	})
}

func TestGraphClear(t *testing.T) {
	g := NewGraph()
	_, _ = g.AddEdge("A", "B", 1, "")

	g.Clear()

	assert.Equal(t, 0, g.Len())
	assert.Equal(t, 0, g.Counter())

	r, err := g.AddEdge("A", "B", 1, "")
	require.NoError(t, err)
	assert.Equal(t, "node_0", r.SourceID)
}

func TestGraphClone(t *testing.T) {
	g := NewGraph()
	r, _ := g.AddEdge("A", "B", 1, "")

	c := g.Clone()
	_, _ = g.AddEdge("A", "C", 2, "")

	assert.Equal(t, 2, c.Len())
	n, _ := c.Node(r.SourceID)
	assert.Len(t, n.Neighbors, 1)
}

func TestGraphFromNodes(t *testing.T) {
	t.Run("rejects dangling neighbor", func(t *testing.T) {
		_, err := GraphFromNodes(map[string]Node{
			"node_0": {ID: "node_0", Label: "A", Neighbors: map[string]float64{"node_5": 1}},
		}, 1)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("rejects counter that would re-mint an id", func(t *testing.T) {
		_, err := GraphFromNodes(map[string]Node{
			"node_3": {ID: "node_3", Label: "A"},
		}, 2)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("rejects key and id mismatch", func(t *testing.T) {
		_, err := GraphFromNodes(map[string]Node{
			"node_0": {ID: "node_1", Label: "A"},
		}, 2)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("fills missing id from key", func(t *testing.T) {
		g, err := GraphFromNodes(map[string]Node{
			"node_0": {Label: "A"},
		}, 1)
		require.NoError(t, err)
		n, ok := g.Node("node_0")
		require.True(t, ok)
		assert.Equal(t, "node_0", n.ID)
		assert.NotNil(t, n.Neighbors)
	})
}

func TestCompareIDs(t *testing.T) {
	ids := []string{"node_10", "zeta", "node_2", "alpha", "node_0"}
	SortIDs(ids)
	assert.Equal(t, []string{"node_0", "node_2", "node_10", "alpha", "zeta"}, ids)
}

func TestGraphEdges(t *testing.T) {
	g := NewGraph()
	_, _ = g.AddEdge("A", "B", 4, "")
	_, _ = g.AddEdge("A", "C", 2, "")

	edges := g.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, "node_1", edges[0].ToID)
	assert.Equal(t, 4.0, edges[0].Cost)
	assert.NotEqual(t, edges[0].ID, edges[1].ID)
	assert.NotEqual(t, NewEdge("node_0", "node_1", 1).ID, NewEdge("node_1", "node_0", 1).ID)
}

func TestGraphCounterLimit(t *testing.T) {
	t.Run("counter that cannot mint is malformed", func(t *testing.T) {
		_, err := GraphFromNodes(map[string]Node{}, math.MaxInt)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("edge needing two ids is rejected with one left", func(t *testing.T) {
		g, err := GraphFromNodes(map[string]Node{}, math.MaxInt-1)
		require.NoError(t, err)

		_, err = g.AddEdge("A", "B", 1, "")
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, 0, g.Len())
		assert.Equal(t, math.MaxInt-1, g.Counter())
	})

	t.Run("reused source mints the last id", func(t *testing.T) {
		g, err := GraphFromNodes(map[string]Node{"root": {ID: "root", Label: "A"}}, math.MaxInt-1)
		require.NoError(t, err)

		res, err := g.AddEdge("A", "B", 1, "")
		require.NoError(t, err)
		assert.Equal(t, "root", res.SourceID)
		assert.Equal(t, math.MaxInt, g.Counter())

		_, err = g.AddEdge("A", "C", 1, "")
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, 2, g.Len())
	})
}
