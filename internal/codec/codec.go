package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"ucsboard/internal/domain"
)

// Importer interface for importing workspace records from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Record, error)
	Format() string
}

// Exporter interface for exporting workspace records to various formats
type Exporter interface {
	Export(rec *domain.Record, w io.Writer) error
	Format() string
}

// Importers returns every supported import format
func Importers() []Importer {
	return []Importer{NewJSONCodec(), NewYAMLCodec(), NewHCLCodec()}
}

// Exporters returns every supported export format
func Exporters() []Exporter {
	return []Exporter{NewJSONCodec(), NewYAMLCodec()}
}

// ImporterFor returns the importer for format. The empty format means json.
func ImporterFor(format string) (Importer, error) {
	format = normalizeFormat(format)
	for _, imp := range Importers() {
		if imp.Format() == format {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("%w: unsupported import format %q", domain.ErrInvalidInput, format)
}

// ExporterFor returns the exporter for format. The empty format means json.
func ExporterFor(format string) (Exporter, error) {
	format = normalizeFormat(format)
	for _, exp := range Exporters() {
		if exp.Format() == format {
			return exp, nil
		}
	}
	return nil, fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, format)
}

// FormatFromPath guesses a format from a file extension, defaulting to json
func FormatFromPath(path string) string {
	return normalizeFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

func normalizeFormat(format string) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", "json":
		return "json"
	case "yml", "yaml":
		return "yaml"
	default:
		return f
	}
}
