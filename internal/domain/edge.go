package domain

import (
	"crypto/sha256"
	"fmt"
)

// Edge is a flattened view of one directed, weighted neighbor relation
type Edge struct {
	ID     string  `json:"id" yaml:"id,omitempty"`
	FromID string  `json:"from_id" yaml:"from_id"`
	ToID   string  `json:"to_id" yaml:"to_id"`
	Cost   float64 `json:"cost" yaml:"cost"`
}

// NewEdge creates an edge view with a deterministic ID
func NewEdge(fromID, toID string, cost float64) Edge {
	e := Edge{FromID: fromID, ToID: toID, Cost: cost}
	e.ID = e.GenerateID()
	return e
}

// GenerateID derives the edge ID from its endpoints. Direction matters:
// A->B and B->A are different edges.
func (e Edge) GenerateID() string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s->%s", e.FromID, e.ToID)))
	return fmt.Sprintf("%x", hash[:8])
}

// Edges lists every edge of the graph, sources and targets in mint order
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, id := range g.IDs() {
		n := g.nodes[id]
		for _, to := range n.NeighborIDs() {
			edges = append(edges, NewEdge(id, to, n.Neighbors[to]))
		}
	}
	if edges == nil {
		edges = []Edge{}
	}
	return edges
}
