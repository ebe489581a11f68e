package codec

import (
	"fmt"
	"io"

	"ucsboard/internal/domain"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// HCLCodec imports an authoring script: a sequence of edge blocks replayed
// through Graph.AddEdge, plus optional start and goals given by label.
//
//	edge {
//	  from = "A"
//	  to   = "B"
//	  cost = 4
//	}
//	start = "A"
//	goals = ["B"]
//
// start names the first node in mint order carrying that label; goals selects
// every node carrying each listed label. The codec is import-only.
type HCLCodec struct{}

// NewHCLCodec creates a new HCL codec
func NewHCLCodec() *HCLCodec {
	return &HCLCodec{}
}

// Format returns the codec format identifier
func (c *HCLCodec) Format() string {
	return "hcl"
}

// hclScript represents the top-level structure of an authoring script
type hclScript struct {
	Start *string   `hcl:"start,optional"`
	Goals []string  `hcl:"goals,optional"`
	Edges []hclEdge `hcl:"edge,block"`
}

type hclEdge struct {
	From string  `hcl:"from"`
	To   string  `hcl:"to"`
	Cost float64 `hcl:"cost"`
}

// Parse builds a record by replaying the script's edges on an empty graph
func (c *HCLCodec) Parse(r io.Reader) (*domain.Record, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read HCL: %v", domain.ErrMalformedRecord, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, "script.hcl")
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse HCL: %s", domain.ErrMalformedRecord, diags.Error())
	}

	var script hclScript
	diags = gohcl.DecodeBody(file.Body, nil, &script)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode HCL: %s", domain.ErrMalformedRecord, diags.Error())
	}

	g := domain.NewGraph()
	for i, e := range script.Edges {
		if _, err := g.AddEdge(e.From, e.To, e.Cost, ""); err != nil {
			return nil, fmt.Errorf("%w: edge %d: %v", domain.ErrMalformedRecord, i+1, err)
		}
	}

	rec := domain.NewRecord(g, domain.NewSelection())

	if script.Start != nil {
		id, ok := g.FindByLabel(*script.Start)
		if !ok {
			return nil, fmt.Errorf("%w: start label %q matches no node", domain.ErrMalformedRecord, *script.Start)
		}
		rec.StartNode = &id
	}

	for _, label := range script.Goals {
		matched := false
		for _, id := range g.IDs() {
			if n, _ := g.Node(id); n.Label == label {
				rec.GoalNodes = append(rec.GoalNodes, id)
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: goal label %q matches no node", domain.ErrMalformedRecord, label)
		}
	}
	rec.GoalNodes = dedupe(rec.GoalNodes)

	return &rec, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	domain.SortIDs(out)
	return out
}
