package domain

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// Graph owns the nodes of a directed weighted graph and the counter used to
// mint fresh node identifiers. The counter only moves through AddEdge and Clear.
type Graph struct {
	nodes   map[string]*Node
	counter int
}

// EdgeResult reports which nodes an AddEdge call connected
type EdgeResult struct {
	SourceID      string  `json:"source_id"`
	TargetID      string  `json:"target_id"`
	Cost          float64 `json:"cost"`
	SourceCreated bool    `json:"source_created"`
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Counter returns the next counter value used for minting
func (g *Graph) Counter() int {
	return g.counter
}

// Node returns a copy of the node with the given id
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// Has reports whether a node with the given id exists
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// IDs returns all node identifiers in mint order
func (g *Graph) IDs() []string {
	ids := slices.Collect(maps.Keys(g.nodes))
	SortIDs(ids)
	return ids
}

// FindByLabel returns the first node in mint order carrying label
func (g *Graph) FindByLabel(label string) (string, bool) {
	for _, id := range g.IDs() {
		if g.nodes[id].Label == label {
			return id, true
		}
	}
	return "", false
}

// AddEdge adds a directed edge of the given cost.
//
// The source is sourceID when it names an existing node, otherwise the first
// node labelled sourceLabel, otherwise a freshly minted node. The target is
// always freshly minted so that equal labels can appear as distinct leaves.
// Invalid input leaves the graph untouched.
func (g *Graph) AddEdge(sourceLabel, targetLabel string, cost float64, sourceID string) (EdgeResult, error) {
	sourceLabel = strings.TrimSpace(sourceLabel)
	targetLabel = strings.TrimSpace(targetLabel)

	if err := ValidateEdgeInput(sourceLabel, targetLabel, cost); err != nil {
		return EdgeResult{}, err
	}

	res := EdgeResult{Cost: cost}

	if _, ok := g.nodes[sourceID]; sourceID != "" && ok {
		res.SourceID = sourceID
	} else if id, ok := g.FindByLabel(sourceLabel); ok {
		res.SourceID = id
	}

	mints := 1
	if res.SourceID == "" {
		mints = 2
	}
	if g.counter > math.MaxInt-mints {
		return EdgeResult{}, fmt.Errorf("%w: node counter %d is exhausted", ErrInvalidInput, g.counter)
	}

	if res.SourceID == "" {
		res.SourceID = g.mint(sourceLabel)
		res.SourceCreated = true
	}

	res.TargetID = g.mint(targetLabel)
	g.nodes[res.SourceID].Neighbors[res.TargetID] = cost

	return res, nil
}

// ValidateEdgeInput checks the user-supplied parts of an edge
func ValidateEdgeInput(sourceLabel, targetLabel string, cost float64) error {
	if sourceLabel == "" {
		return fmt.Errorf("%w: source label is required", ErrInvalidInput)
	}
	if targetLabel == "" {
		return fmt.Errorf("%w: target label is required", ErrInvalidInput)
	}
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return fmt.Errorf("%w: cost must be a finite number", ErrInvalidInput)
	}
	if cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrInvalidInput)
	}
	return nil
}

func (g *Graph) mint(label string) string {
	id := MintID(g.counter)
	g.counter++
	g.nodes[id] = NewNode(id, label)
	return id
}

// Clear discards all nodes and resets the identifier counter
func (g *Graph) Clear() {
	g.nodes = make(map[string]*Node)
	g.counter = 0
}

// Clone returns a deep copy of the graph
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:   make(map[string]*Node, len(g.nodes)),
		counter: g.counter,
	}
	for id, n := range g.nodes {
		c.nodes[id] = n.Clone()
	}
	return c
}

// Nodes returns a deep copy of the node mapping in its serialized form
func (g *Graph) Nodes() map[string]Node {
	out := make(map[string]Node, len(g.nodes))
	for id, n := range g.nodes {
		out[id] = *n.Clone()
	}
	return out
}

// Validate checks that every neighbor reference resolves to a node
func (g *Graph) Validate() error {
	return validateNodes(g.nodes)
}

// GraphFromNodes builds a graph from a serialized node mapping.
// The mapping is deep-copied; the result is validated before it is returned.
func GraphFromNodes(nodes map[string]Node, counter int) (*Graph, error) {
	g := &Graph{
		nodes:   make(map[string]*Node, len(nodes)),
		counter: counter,
	}
	for key, n := range nodes {
		if n.ID == "" {
			n.ID = key
		}
		if n.ID != key {
			return nil, fmt.Errorf("%w: node key %q does not match id %q", ErrMalformedRecord, key, n.ID)
		}
		g.nodes[key] = n.Clone()
	}

	if err := validateNodes(g.nodes); err != nil {
		return nil, err
	}

	for id := range g.nodes {
		if seq, ok := idSequence(id); ok && seq >= counter {
			return nil, fmt.Errorf("%w: node counter %d would re-mint existing id %q", ErrMalformedRecord, counter, id)
		}
	}
	if counter < 0 {
		return nil, fmt.Errorf("%w: node counter must not be negative", ErrMalformedRecord)
	}
	if counter == math.MaxInt {
		return nil, fmt.Errorf("%w: node counter %d cannot mint another id", ErrMalformedRecord, counter)
	}

	return g, nil
}

func validateNodes(nodes map[string]*Node) error {
	for _, id := range sortedKeys(nodes) {
		for target, cost := range nodes[id].Neighbors {
			if _, ok := nodes[target]; !ok {
				return fmt.Errorf("%w: node %q has an edge to unknown node %q", ErrMalformedRecord, id, target)
			}
			if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
				return fmt.Errorf("%w: edge %s -> %s has invalid cost %v", ErrMalformedRecord, id, target, cost)
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := slices.Collect(maps.Keys(m))
	SortIDs(keys)
	return keys
}
