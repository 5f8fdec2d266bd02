package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/picklejar/pickleback/report"
)

// TableFormatter outputs data in a human-readable table format.
type TableFormatter struct{}

// FormatDocument outputs a single resolved document in detailed format.
func (f *TableFormatter) FormatDocument(w io.Writer, doc *DocumentView) error {
	// Header with keyword and title
	fmt.Fprintf(w, "%s: %s\n", doc.Keyword, doc.Name)
	fmt.Fprintln(w, strings.Repeat("━", 40))
	fmt.Fprintln(w)

	// Fields
	fmt.Fprintf(w, "Path:       %s\n", doc.Path)
	if len(doc.Attributes) > 0 {
		fmt.Fprintf(w, "Attributes: %s\n", joinAttributes(doc.Attributes))
	}
	fmt.Fprintf(w, "Scenarios:  %d\n", len(doc.Scenarios))

	if len(doc.Background) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "## Background")
		fmt.Fprintln(w)
		for _, st := range doc.Background {
			fmt.Fprintf(w, "  %4d  %s %s\n", st.Line, st.Keyword, st.Text)
		}
	}

	for _, sc := range doc.Scenarios {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s: %s (line %d)\n", sc.Keyword, sc.Name, sc.Line)
		if len(sc.Attributes) > 0 {
			fmt.Fprintf(w, "  Attributes: %s\n", joinAttributes(sc.Attributes))
		}
		for _, st := range sc.Steps {
			fmt.Fprintf(w, "  %4d  %s %s\n", st.Line, st.Keyword, st.Text)
		}
		if len(sc.Rows) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "  Instances:")
			for _, row := range sc.Rows {
				fmt.Fprintf(w, "  %4d  %s\n", row.Line, row.Name)
			}
		}
	}

	return nil
}

// FormatDocumentList outputs a list of resolved documents in table format.
func (f *TableFormatter) FormatDocumentList(w io.Writer, docs []DocumentView) error {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// Header
	fmt.Fprintln(tw, "PATH\tFEATURE\tSCENARIOS\tOUTLINES")

	// Rows
	for _, doc := range docs {
		outlines := 0
		for _, sc := range doc.Scenarios {
			if sc.Outline {
				outlines++
			}
		}

		// Truncate title if too long
		name := doc.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}

		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", doc.Path, name, len(doc.Scenarios), outlines)
	}

	return tw.Flush()
}

// FormatResolution outputs one resolved execution instance in detailed
// format.
func (f *TableFormatter) FormatResolution(w io.Writer, res *ResolutionView) error {
	fmt.Fprintf(w, "%s: %s\n", res.Keyword, res.Display)
	fmt.Fprintln(w, strings.Repeat("━", 40))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Path:       %s:%d\n", res.Path, res.Line)
	fmt.Fprintf(w, "Definition: %s\n", res.Definition)
	if res.Outline {
		fmt.Fprintf(w, "Iteration:  %s\n", strings.TrimSpace(res.Iteration))
	}
	if len(res.Attributes) > 0 {
		fmt.Fprintf(w, "Attributes: %s\n", joinAttributes(res.Attributes))
	}

	if len(res.Steps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "## Steps")
		fmt.Fprintln(w)
		for _, st := range res.Steps {
			prefix := ""
			if st.Background {
				prefix = "BACKGROUND: "
			}
			fmt.Fprintf(w, "  %4d  %s%s %s\n", st.Line, prefix, st.Keyword, st.Text)
		}
	}

	return nil
}

// FormatInventory outputs the stored inventory in table format.
func (f *TableFormatter) FormatInventory(w io.Writer, inv *InventoryView) error {
	if len(inv.Features) == 0 {
		fmt.Fprintln(w, "Inventory is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tFEATURE\tSCENARIOS\tINSTANCES")
	for _, ft := range inv.Features {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", ft.Path, ft.Name, ft.Scenarios, ft.Instances)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(inv.Instances) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tINSTANCE\tPATH")
	for _, in := range inv.Instances {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", in.Line, in.Name, in.Path)
	}
	return tw.Flush()
}

// FormatError outputs an error message.
func (f *TableFormatter) FormatError(w io.Writer, code string, message string, details map[string]any) error {
	fmt.Fprintf(w, "error: %s\n", message)
	return nil
}

// joinAttributes renders attributes as "value" or "key:value", comma
// separated.
func joinAttributes(attributes []report.Attribute) string {
	parts := make([]string, 0, len(attributes))
	for _, a := range attributes {
		if a.Key != "" {
			parts = append(parts, a.Key+":"+a.Value)
			continue
		}
		parts = append(parts, a.Value)
	}
	return strings.Join(parts, ", ")
}
