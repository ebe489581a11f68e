package domain

import "maps"

// TreeNode is one node of the rooted tree derived from a graph for display.
// Cost is the weight of the incoming edge and is nil at the root.
type TreeNode struct {
	ID       string      `json:"id"`
	Label    string      `json:"value"`
	Cost     *float64    `json:"cost,omitempty"`
	Start    bool        `json:"start,omitempty"`
	Goal     bool        `json:"goal,omitempty"`
	Selected bool        `json:"selected,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Size returns the number of tree nodes in the subtree rooted at t
func (t *TreeNode) Size() int {
	if t == nil {
		return 0
	}
	n := 1
	for _, c := range t.Children {
		n += c.Size()
	}
	return n
}

// Walk calls fn for every node of the subtree in depth-first preorder
func (t *TreeNode) Walk(fn func(node *TreeNode, depth int)) {
	t.walk(fn, 0)
}

func (t *TreeNode) walk(fn func(*TreeNode, int), depth int) {
	if t == nil {
		return
	}
	fn(t, depth)
	for _, c := range t.Children {
		c.walk(fn, depth+1)
	}
}

// FindRoot picks the tree root: the first node in mint order that no other
// node points to, or the first node in mint order when every node is
// referenced. ok is false for an empty graph.
func FindRoot(g *Graph) (string, bool) {
	ids := g.IDs()
	if len(ids) == 0 {
		return "", false
	}

	referenced := make(map[string]struct{}, len(ids))
	for _, n := range g.nodes {
		for target := range n.Neighbors {
			if target != n.ID {
				referenced[target] = struct{}{}
			}
		}
	}

	for _, id := range ids {
		if _, ok := referenced[id]; !ok {
			return id, true
		}
	}
	return ids[0], true
}

// Project derives a rooted tree from the graph. It returns nil for an empty graph.
//
// Expansion is depth-first from the root. Each branch carries its own set of
// ancestor ids: a node already on the current branch is pruned (cycle
// back-edge), while a node reached along a different branch is expanded again
// as a separate subtree.
func Project(g *Graph) *TreeNode {
	root, ok := FindRoot(g)
	if !ok {
		return nil
	}
	return g.expand(root, nil, map[string]struct{}{})
}

func (g *Graph) expand(id string, cost *float64, ancestors map[string]struct{}) *TreeNode {
	n := g.nodes[id]
	t := &TreeNode{ID: id, Label: n.Label, Cost: cost}

	branch := maps.Clone(ancestors)
	branch[id] = struct{}{}

	for _, childID := range n.NeighborIDs() {
		if _, onBranch := branch[childID]; onBranch {
			continue
		}
		c := n.Neighbors[childID]
		t.Children = append(t.Children, g.expand(childID, &c, branch))
	}
	return t
}

// Decorate marks start, goal and selected-source nodes of a projected tree
func Decorate(t *TreeNode, sel *Selection) {
	t.Walk(func(node *TreeNode, _ int) {
		node.Start = node.ID == sel.Start()
		node.Goal = sel.IsGoal(node.ID)
		node.Selected = node.ID == sel.Source()
	})
}
