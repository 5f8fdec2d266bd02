package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/picklejar/pickleback/internal/output"
	"github.com/picklejar/pickleback/internal/source"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.feature>",
	Short: "Inspect a feature document",
	Long: `Parse a feature document and show how its scenarios resolve:
declared scenarios, outline example rows with their computed instance
names and iteration suffixes, background steps, and the attributes
derived from tags.

Examples:
  pickleback inspect features/checkout.feature
  pickleback inspect features/checkout.feature -f json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInspect(cmd.OutOrStdout(), args[0], GetFormat())
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// RunInspect resolves a single document and renders it in the given format.
func RunInspect(w io.Writer, path, format string) error {
	formatter, err := newFormatter(format)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NotFoundError(fmt.Sprintf("no such document: %s", path))
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	index := source.NewIndex()
	index.RecordSource(path, content)
	doc := index.Resolve(path)
	if doc == nil {
		return NewExitCodeError(ExitError, fmt.Sprintf("cannot parse %s as a feature document", path))
	}

	view, err := output.NewDocumentView(doc)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	log.Debugf("inspected %s: %d scenarios", path, len(view.Scenarios))
	return formatter.FormatDocument(w, view)
}
