package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/teemow/fathom-mcp/internal/meetings"
)

// Exporter writes a search result to w
type Exporter interface {
	Export(result meetings.SearchResult, w io.Writer) error
	Extension() string
}

// NewExporter returns the exporter for format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml)", format)
	}
}

// JSONExporter writes indented JSON
type JSONExporter struct{}

func (e *JSONExporter) Export(result meetings.SearchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func (e *JSONExporter) Extension() string {
	return "json"
}

// YAMLExporter writes YAML
type YAMLExporter struct{}

func (e *YAMLExporter) Export(result meetings.SearchResult, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(result)
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
