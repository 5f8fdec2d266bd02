package output

import (
	"fmt"
	"io"
)

// PlainFormatter outputs data in plain text format, suitable for scripting.
type PlainFormatter struct{}

// FormatDocument outputs a single resolved document in plain format: one
// line per scenario definition and one line per outline instance.
func (f *PlainFormatter) FormatDocument(w io.Writer, doc *DocumentView) error {
	for _, sc := range doc.Scenarios {
		fmt.Fprintf(w, "%s:%d\t%s\t%s\n", doc.Path, sc.Line, sc.Keyword, sc.Name)
		for _, row := range sc.Rows {
			fmt.Fprintf(w, "%s:%d\t%s\t%s\n", doc.Path, row.Line, "Instance", row.Name)
		}
	}
	return nil
}

// FormatDocumentList outputs a list of resolved documents in plain format,
// one line per document.
func (f *PlainFormatter) FormatDocumentList(w io.Writer, docs []DocumentView) error {
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%s\t%d\n", doc.Path, doc.Name, len(doc.Scenarios))
	}
	return nil
}

// FormatResolution outputs one resolved execution instance in plain format.
func (f *PlainFormatter) FormatResolution(w io.Writer, res *ResolutionView) error {
	fmt.Fprintf(w, "%s:%d\t%s\n", res.Path, res.Line, res.Display)
	return nil
}

// FormatInventory outputs the stored inventory in plain format, one line
// per instance.
func (f *PlainFormatter) FormatInventory(w io.Writer, inv *InventoryView) error {
	for _, in := range inv.Instances {
		fmt.Fprintf(w, "%s:%d\t%s\n", in.Path, in.Line, in.Name)
	}
	return nil
}

// FormatError outputs an error in plain format.
func (f *PlainFormatter) FormatError(w io.Writer, code string, message string, details map[string]any) error {
	fmt.Fprintf(w, "error: %s\n", message)
	return nil
}
