package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter outputs data in YAML format.
type YAMLFormatter struct{}

// FormatDocument outputs a single resolved document as YAML.
func (f *YAMLFormatter) FormatDocument(w io.Writer, doc *DocumentView) error {
	return f.writeYAML(w, doc)
}

// FormatDocumentList outputs a list of resolved documents as YAML.
func (f *YAMLFormatter) FormatDocumentList(w io.Writer, docs []DocumentView) error {
	return f.writeYAML(w, map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

// FormatResolution outputs one resolved execution instance as YAML.
func (f *YAMLFormatter) FormatResolution(w io.Writer, res *ResolutionView) error {
	return f.writeYAML(w, res)
}

// FormatInventory outputs the stored inventory as YAML.
func (f *YAMLFormatter) FormatInventory(w io.Writer, inv *InventoryView) error {
	return f.writeYAML(w, inv)
}

// FormatError outputs an error as YAML.
func (f *YAMLFormatter) FormatError(w io.Writer, code string, message string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return f.writeYAML(w, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// writeYAML encodes the value as YAML and writes it to w.
func (f *YAMLFormatter) writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
