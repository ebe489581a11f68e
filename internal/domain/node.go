package domain

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// idPrefix is prepended to the counter value when minting node identifiers
const idPrefix = "node_"

// Node is a labeled vertex with outgoing weighted edges.
// Labels are not unique: two nodes may display the same value.
type Node struct {
	ID        string             `json:"id" yaml:"id"`
	Label     string             `json:"value" yaml:"value"`
	Neighbors map[string]float64 `json:"neighbors" yaml:"neighbors,omitempty"`
}

// NewNode creates a node with an empty neighbor mapping
func NewNode(id, label string) *Node {
	return &Node{
		ID:        id,
		Label:     label,
		Neighbors: make(map[string]float64),
	}
}

// Clone returns a deep copy of the node
func (n *Node) Clone() *Node {
	c := &Node{ID: n.ID, Label: n.Label}
	if n.Neighbors == nil {
		c.Neighbors = make(map[string]float64)
	} else {
		c.Neighbors = maps.Clone(n.Neighbors)
	}
	return c
}

// NeighborIDs returns the neighbor identifiers in mint order
func (n *Node) NeighborIDs() []string {
	ids := slices.Collect(maps.Keys(n.Neighbors))
	SortIDs(ids)
	return ids
}

// MintID formats the identifier for counter value n
func MintID(n int) string {
	return fmt.Sprintf("%s%d", idPrefix, n)
}

// idSequence extracts the counter value from a minted identifier.
// ok is false for identifiers that were not minted by MintID.
func idSequence(id string) (int, bool) {
	rest, found := strings.CutPrefix(id, idPrefix)
	if !found || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// CompareIDs orders identifiers by mint order: minted identifiers by their
// counter value, then foreign identifiers by string order.
func CompareIDs(a, b string) int {
	na, aok := idSequence(a)
	nb, bok := idSequence(b)
	switch {
	case aok && bok:
		if na != nb {
			return cmp.Compare(na, nb)
		}
		return strings.Compare(a, b)
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(a, b)
}

// SortIDs sorts identifiers in place by mint order
func SortIDs(ids []string) {
	slices.SortFunc(ids, CompareIDs)
}
