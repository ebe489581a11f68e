package domain

import (
	"encoding/json"
	"fmt"
)

// FrontierEntry is one candidate in the search frontier: a cumulative cost and
// the path that reaches it. On the wire it is a two-element array [cost, path].
type FrontierEntry struct {
	Cost float64
	Path []string
}

// MarshalJSON encodes the entry as [cost, path]
func (f FrontierEntry) MarshalJSON() ([]byte, error) {
	path := f.Path
	if path == nil {
		path = []string{}
	}
	return json.Marshal([]any{f.Cost, path})
}

// UnmarshalJSON decodes an entry from [cost, path]
func (f *FrontierEntry) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("frontier entry: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("frontier entry: expected [cost, path], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &f.Cost); err != nil {
		return fmt.Errorf("frontier entry cost: %w", err)
	}
	if err := json.Unmarshal(raw[1], &f.Path); err != nil {
		return fmt.Errorf("frontier entry path: %w", err)
	}
	return nil
}

// SearchStep is one externally computed snapshot of a search in progress
type SearchStep struct {
	CurrentNode string          `json:"current_node"`
	CurrentCost float64         `json:"current_cost"`
	CurrentPath []string        `json:"current_path"`
	Frontier    []FrontierEntry `json:"frontier"`
	Explored    []string        `json:"explored"`
}

// PathNode is a node of the best path resolved to its label
type PathNode struct {
	ID    string `json:"id"`
	Label string `json:"value"`
}

// SearchResult is the best path found, its total cost, and the trace of
// steps that produced it
type SearchResult struct {
	Path  []PathNode   `json:"path"`
	Cost  float64      `json:"cost"`
	Steps []SearchStep `json:"steps"`
}

// SearchRequest is sent to the external search service
type SearchRequest struct {
	Graph     map[string]Node `json:"graph"`
	StartNode string          `json:"startNode"`
	GoalNodes []string        `json:"goalNodes"`
}

// SearchResponse is returned by the external search service. An empty
// Results list means no goal is reachable.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// NewSearchRequest builds the outbound request from a record.
// It fails with ErrPrecondition when no start node or no goal is chosen.
func NewSearchRequest(r Record) (SearchRequest, error) {
	if r.Start() == "" {
		return SearchRequest{}, fmt.Errorf("%w: choose a start node before searching", ErrPrecondition)
	}
	if len(r.GoalNodes) == 0 {
		return SearchRequest{}, fmt.Errorf("%w: choose at least one goal node before searching", ErrPrecondition)
	}

	c := r.Clone()
	return SearchRequest{
		Graph:     c.Nodes,
		StartNode: c.Start(),
		GoalNodes: c.GoalNodes,
	}, nil
}
