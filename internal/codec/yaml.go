package codec

import (
	"fmt"
	"io"

	"ucsboard/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export. Nodes and edges are written as two
// flat lists so the document stays readable and hand-editable.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlRecord represents the YAML structure for a workspace record
type yamlRecord struct {
	NodeCounter          int      `yaml:"nodeCounter"`
	StartNode            *string  `yaml:"startNode,omitempty"`
	GoalNodes            []string `yaml:"goalNodes,omitempty"`
	domain.GraphFragment `yaml:",inline"`
}

// Parse imports a record from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Record, error) {
	var yr yamlRecord
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&yr); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", domain.ErrMalformedRecord, err)
	}

	nodes, err := yr.NodeMap()
	if err != nil {
		return nil, err
	}

	rec := &domain.Record{
		Nodes:       nodes,
		NodeCounter: yr.NodeCounter,
		StartNode:   yr.StartNode,
		GoalNodes:   yr.GoalNodes,
	}
	if rec.GoalNodes == nil {
		rec.GoalNodes = []string{}
	}
	return rec, nil
}

// Export exports a record to YAML
func (c *YAMLCodec) Export(rec *domain.Record, w io.Writer) error {
	g, _, err := rec.Decode()
	if err != nil {
		return fmt.Errorf("failed to export YAML: %w", err)
	}

	yr := yamlRecord{
		NodeCounter:   rec.NodeCounter,
		StartNode:     rec.StartNode,
		GoalNodes:     rec.GoalNodes,
		GraphFragment: *domain.FragmentOf(g),
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yr); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
