package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"ucsboard/internal/domain"
)

// JSONCodec handles JSON import/export in the saved-tree record shape
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a record from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Record, error) {
	var rec domain.Record
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON: %v", domain.ErrMalformedRecord, err)
	}
	if rec.Nodes == nil {
		return nil, fmt.Errorf("%w: record has no nodes field", domain.ErrMalformedRecord)
	}
	if rec.GoalNodes == nil {
		rec.GoalNodes = []string{}
	}

	return &rec, nil
}

// Export exports a record to JSON
func (c *JSONCodec) Export(rec *domain.Record, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(rec.Clone()); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
