package domain

import "fmt"

// GraphFragment is a flat nodes-plus-edges view of a graph, used by formats
// that list edges separately from nodes
type GraphFragment struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges,omitempty"`
}

// NewGraphFragment creates an empty graph fragment
func NewGraphFragment() *GraphFragment {
	return &GraphFragment{
		Nodes: make([]Node, 0),
		Edges: make([]Edge, 0),
	}
}

// FragmentOf flattens g. Nodes and edges are listed in mint order and nodes
// carry no neighbor mapping of their own.
func FragmentOf(g *Graph) *GraphFragment {
	f := NewGraphFragment()
	for _, id := range g.IDs() {
		n := g.nodes[id]
		f.AddNode(Node{ID: n.ID, Label: n.Label})
	}
	for _, e := range g.Edges() {
		f.AddEdge(e)
	}
	return f
}

// AddNode adds a node to the fragment
func (f *GraphFragment) AddNode(node Node) {
	f.Nodes = append(f.Nodes, node)
}

// AddEdge adds an edge to the fragment
func (f *GraphFragment) AddEdge(edge Edge) {
	f.Edges = append(f.Edges, edge)
}

// NodeMap rebuilds the node mapping. Nodes without an id, repeated node ids,
// edges with an unknown endpoint and repeated source/target pairs are
// ErrMalformedRecord.
func (f *GraphFragment) NodeMap() (map[string]Node, error) {
	nodes := make(map[string]Node, len(f.Nodes))
	for _, n := range f.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node without id", ErrMalformedRecord)
		}
		if _, dup := nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node %q", ErrMalformedRecord, n.ID)
		}
		nodes[n.ID] = *n.Clone()
	}

	for _, e := range f.Edges {
		from, ok := nodes[e.FromID]
		if !ok {
			return nil, fmt.Errorf("%w: edge from unknown node %q", ErrMalformedRecord, e.FromID)
		}
		if _, ok := nodes[e.ToID]; !ok {
			return nil, fmt.Errorf("%w: edge to unknown node %q", ErrMalformedRecord, e.ToID)
		}
		if _, dup := from.Neighbors[e.ToID]; dup {
			return nil, fmt.Errorf("%w: duplicate edge %s -> %s", ErrMalformedRecord, e.FromID, e.ToID)
		}
		from.Neighbors[e.ToID] = e.Cost
	}
	return nodes, nil
}
