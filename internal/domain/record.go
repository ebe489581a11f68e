package domain

import (
	"fmt"
	"maps"
	"slices"
)

// Record is the serialized workspace: nodes, identifier counter, start node
// and goal nodes. It is both the history entry and the persisted/exported form.
// GoalNodes is an ordered list because the serialization formats have no set type.
type Record struct {
	Nodes       map[string]Node `json:"nodes" yaml:"nodes"`
	NodeCounter int             `json:"nodeCounter" yaml:"nodeCounter"`
	StartNode   *string         `json:"startNode" yaml:"startNode"`
	GoalNodes   []string        `json:"goalNodes" yaml:"goalNodes"`
}

// Clone returns a deep copy that shares nothing with r
func (r Record) Clone() Record {
	c := Record{
		Nodes:       make(map[string]Node, len(r.Nodes)),
		NodeCounter: r.NodeCounter,
		GoalNodes:   slices.Clone(r.GoalNodes),
	}
	for id, n := range r.Nodes {
		c.Nodes[id] = *n.Clone()
	}
	if r.StartNode != nil {
		start := *r.StartNode
		c.StartNode = &start
	}
	if c.GoalNodes == nil {
		c.GoalNodes = []string{}
	}
	return c
}

// Start returns the start node identifier, or "" when none is set
func (r Record) Start() string {
	if r.StartNode == nil {
		return ""
	}
	return *r.StartNode
}

// Equal reports whether two records describe the same state
func (r Record) Equal(o Record) bool {
	if r.NodeCounter != o.NodeCounter || r.Start() != o.Start() || (r.StartNode == nil) != (o.StartNode == nil) {
		return false
	}
	if !slices.Equal(r.GoalNodes, o.GoalNodes) {
		return false
	}
	if len(r.Nodes) != len(o.Nodes) {
		return false
	}
	for id, n := range r.Nodes {
		m, ok := o.Nodes[id]
		if !ok || n.ID != m.ID || n.Label != m.Label || !maps.Equal(n.Neighbors, m.Neighbors) {
			return false
		}
	}
	return true
}

// Decode validates the record and turns it into a graph and a selection.
// It either succeeds completely or returns an ErrMalformedRecord error.
func (r Record) Decode() (*Graph, *Selection, error) {
	g, err := GraphFromNodes(r.Nodes, r.NodeCounter)
	if err != nil {
		return nil, nil, err
	}

	sel := NewSelection()
	if r.StartNode != nil {
		if !g.Has(*r.StartNode) {
			return nil, nil, fmt.Errorf("%w: start node %q is not in the graph", ErrMalformedRecord, *r.StartNode)
		}
		sel.start = *r.StartNode
	}
	for _, id := range r.GoalNodes {
		if !g.Has(id) {
			return nil, nil, fmt.Errorf("%w: goal node %q is not in the graph", ErrMalformedRecord, id)
		}
		sel.goals[id] = struct{}{}
	}

	return g, sel, nil
}

// Validate checks the record without keeping the decoded state
func (r Record) Validate() error {
	_, _, err := r.Decode()
	return err
}

// NewRecord serializes a graph and selection
func NewRecord(g *Graph, sel *Selection) Record {
	r := Record{
		Nodes:       g.Nodes(),
		NodeCounter: g.Counter(),
		GoalNodes:   sel.Goals(),
	}
	if sel.start != "" {
		start := sel.start
		r.StartNode = &start
	}
	return r
}
