package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter outputs data in JSON format.
type JSONFormatter struct{}

// FormatDocument outputs a single resolved document as JSON.
func (f *JSONFormatter) FormatDocument(w io.Writer, doc *DocumentView) error {
	return f.writeJSON(w, doc)
}

// FormatDocumentList outputs a list of resolved documents as JSON.
func (f *JSONFormatter) FormatDocumentList(w io.Writer, docs []DocumentView) error {
	return f.writeJSON(w, map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

// FormatResolution outputs one resolved execution instance as JSON.
func (f *JSONFormatter) FormatResolution(w io.Writer, res *ResolutionView) error {
	return f.writeJSON(w, res)
}

// FormatInventory outputs the stored inventory as JSON.
func (f *JSONFormatter) FormatInventory(w io.Writer, inv *InventoryView) error {
	return f.writeJSON(w, inv)
}

// FormatError outputs an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, code string, message string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return f.writeJSON(w, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// writeJSON encodes the value as indented JSON and writes it to w.
func (f *JSONFormatter) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
