package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	t.Run("empty graph projects to nothing", func(t *testing.T) {
		assert.Nil(t, Project(NewGraph()))
	})

	t.Run("single node projects to childless root", func(t *testing.T) {
		g, err := GraphFromNodes(map[string]Node{"node_0": {ID: "node_0", Label: "A"}}, 1)
		require.NoError(t, err)

		tree := Project(g)
		require.NotNil(t, tree)
		assert.Equal(t, "A", tree.Label)
		assert.Nil(t, tree.Cost)
		assert.Empty(t, tree.Children)
	})

	t.Run("root with two weighted children", func(t *testing.T) {
		g := NewGraph()
		_, _ = g.AddEdge("A", "B", 4, "")
		_, _ = g.AddEdge("A", "C", 2, "")

		tree := Project(g)
		require.NotNil(t, tree)
		assert.Equal(t, "A", tree.Label)
		require.Len(t, tree.Children, 2)

		assert.Equal(t, "B", tree.Children[0].Label)
		require.NotNil(t, tree.Children[0].Cost)
		assert.Equal(t, 4.0, *tree.Children[0].Cost)

		assert.Equal(t, "C", tree.Children[1].Label)
		require.NotNil(t, tree.Children[1].Cost)
		assert.Equal(t, 2.0, *tree.Children[1].Cost)
	})

	t.Run("cycle terminates and omits back edge", func(t *testing.T) {
		g, err := GraphFromNodes(map[string]Node{
			"node_0": {ID: "node_0", Label: "A", Neighbors: map[string]float64{"node_1": 1}},
			"node_1": {ID: "node_1", Label: "B", Neighbors: map[string]float64{"node_0": 1}},
		}, 2)
		require.NoError(t, err)

		tree := Project(g)
		require.NotNil(t, tree)
		assert.Equal(t, "node_0", tree.ID)
		require.Len(t, tree.Children, 1)
		assert.Equal(t, "node_1", tree.Children[0].ID)
		assert.Empty(t, tree.Children[0].Children)
		assert.Equal(t, 2, tree.Size())
	})

	t.Run("self loop is pruned", func(t *testing.T) {
		g, err := GraphFromNodes(map[string]Node{
			"node_0": {ID: "node_0", Label: "A", Neighbors: map[string]float64{"node_0": 1, "node_1": 2}},
			"node_1": {ID: "node_1", Label: "B"},
		}, 2)
		require.NoError(t, err)

		tree := Project(g)
		assert.Equal(t, "node_0", tree.ID)
		require.Len(t, tree.Children, 1)
		assert.Equal(t, "node_1", tree.Children[0].ID)
	})

	t.Run("shared target appears under each parent", func(t *testing.T) {
		// A -> B, A -> C, B -> D, C -> D, D -> E
		g, err := GraphFromNodes(map[string]Node{
			"node_0": {ID: "node_0", Label: "A", Neighbors: map[string]float64{"node_1": 1, "node_2": 1}},
			"node_1": {ID: "node_1", Label: "B", Neighbors: map[string]float64{"node_3": 1}},
			"node_2": {ID: "node_2", Label: "C", Neighbors: map[string]float64{"node_3": 5}},
			"node_3": {ID: "node_3", Label: "D", Neighbors: map[string]float64{"node_4": 1}},
			"node_4": {ID: "node_4", Label: "E"},
		}, 5)
		require.NoError(t, err)

		tree := Project(g)
		require.Len(t, tree.Children, 2)
		for _, branch := range tree.Children {
			require.Len(t, branch.Children, 1)
			d := branch.Children[0]
			assert.Equal(t, "node_3", d.ID)
			require.Len(t, d.Children, 1)
			assert.Equal(t, "node_4", d.Children[0].ID)
		}
		assert.Equal(t, 5.0, *tree.Children[1].Children[0].Cost)
		assert.Equal(t, 7, tree.Size())
	})

	t.Run("ancestor cut only on own branch", func(t *testing.T) {
		// A -> B, B -> C, C -> B, A -> C
		g, err := GraphFromNodes(map[string]Node{
			"node_0": {ID: "node_0", Label: "A", Neighbors: map[string]float64{"node_1": 1, "node_2": 1}},
			"node_1": {ID: "node_1", Label: "B", Neighbors: map[string]float64{"node_2": 1}},
			"node_2": {ID: "node_2", Label: "C", Neighbors: map[string]float64{"node_1": 1}},
		}, 3)
		require.NoError(t, err)

		tree := Project(g)
		var paths [][]string
		var walk func(n *TreeNode, prefix []string)
		walk = func(n *TreeNode, prefix []string) {
			path := append(append([]string{}, prefix...), n.Label)
			if len(n.Children) == 0 {
				paths = append(paths, path)
			}
			for _, c := range n.Children {
				walk(c, path)
			}
		}
		walk(tree, nil)

		assert.Equal(t, [][]string{{"A", "B", "C"}, {"A", "C", "B"}}, paths)
	})
}

func TestFindRoot(t *testing.T) {
	t.Run("smallest unreferenced id wins", func(t *testing.T) {
		g, err := GraphFromNodes(map[string]Node{
			"node_4": {ID: "node_4", Label: "X", Neighbors: map[string]float64{"node_1": 1}},
			"node_1": {ID: "node_1", Label: "Y"},
			"node_2": {ID: "node_2", Label: "Z"},
		}, 5)
		require.NoError(t, err)

		root, ok := FindRoot(g)
		require.True(t, ok)
		assert.Equal(t, "node_2", root)
	})

	t.Run("falls back to first id when all are referenced", func(t *testing.T) {
		g, err := GraphFromNodes(map[string]Node{
			"node_1": {ID: "node_1", Label: "B", Neighbors: map[string]float64{"node_2": 1}},
			"node_2": {ID: "node_2", Label: "C", Neighbors: map[string]float64{"node_1": 1}},
		}, 3)
		require.NoError(t, err)

		root, ok := FindRoot(g)
		require.True(t, ok)
		assert.Equal(t, "node_1", root)
	})
}

func TestDecorate(t *testing.T) {
	g := NewGraph()
	r1, _ := g.AddEdge("A", "B", 4, "")
	r2, _ := g.AddEdge("A", "C", 2, "")

	sel := NewSelection()
	sel.ToggleMode(ModeStart)
	sel.Click(r1.SourceID)
	sel.ToggleMode(ModeGoal)
	sel.Click(r2.TargetID)

	tree := Project(g)
	Decorate(tree, sel)

	assert.True(t, tree.Start)
	assert.False(t, tree.Goal)
	assert.False(t, tree.Children[0].Goal)
	assert.True(t, tree.Children[1].Goal)
}
