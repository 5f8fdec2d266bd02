// Package output provides formatters for displaying resolved documents,
// execution instances, and the stored inventory.
package output

import (
	"io"
)

// Format represents an output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatPlain Format = "plain"
)

// ValidFormats returns all valid format values.
func ValidFormats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML, FormatPlain}
}

// IsValid checks if the format is a valid output format.
func (f Format) IsValid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML, FormatPlain:
		return true
	default:
		return false
	}
}

// Formatter defines the interface for outputting resolution data in various
// formats.
type Formatter interface {
	// FormatDocument outputs a single resolved document.
	FormatDocument(w io.Writer, doc *DocumentView) error

	// FormatDocumentList outputs a list of resolved documents.
	FormatDocumentList(w io.Writer, docs []DocumentView) error

	// FormatResolution outputs one resolved execution instance.
	FormatResolution(w io.Writer, res *ResolutionView) error

	// FormatInventory outputs the stored inventory.
	FormatInventory(w io.Writer, inv *InventoryView) error

	// FormatError outputs an error.
	FormatError(w io.Writer, code string, message string, details map[string]any) error
}

// New creates a formatter for the specified format.
func New(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatPlain:
		return &PlainFormatter{}
	case FormatTable:
		fallthrough
	default:
		return &TableFormatter{}
	}
}
