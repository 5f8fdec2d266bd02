package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	messages "github.com/cucumber/messages/go/v21"
	"github.com/spf13/cobra"

	"github.com/picklejar/pickleback/internal/output"
	"github.com/picklejar/pickleback/internal/scenario"
	"github.com/picklejar/pickleback/internal/source"
)

var (
	resolveLine int64
	resolveName string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <file.feature>",
	Short: "Resolve an execution event against a document",
	Long: `Resolve a synthetic execution event against a feature document and
show the instance a run would report: display name, keyword, line,
iteration suffix, attributes, and the indexed steps.

Plain scenarios match by declaration line and name. Outline example
rows match by row line alone, so --name is optional for them.

Examples:
  pickleback resolve features/checkout.feature --line 7 --name "Pay by card"
  pickleback resolve features/checkout.feature --line 16
  pickleback resolve features/checkout.feature --line 16 -f json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunResolve(cmd.OutOrStdout(), args[0], resolveLine, resolveName, GetFormat())
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().Int64VarP(&resolveLine, "line", "l", 0, "Event line (scenario declaration or example row)")
	resolveCmd.Flags().StringVarP(&resolveName, "name", "n", "", "Event scenario name")
	resolveCmd.MarkFlagRequired("line")
}

// RunResolve matches a synthetic event against a document and renders the
// resolved instance.
func RunResolve(w io.Writer, path string, line int64, name, format string) error {
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

	resolver := scenario.NewResolver()
	sc, err := resolver.Match(doc.Feature(), line, name)
	if err != nil {
		var matchErr *scenario.MatchError
		if errors.As(err, &matchErr) {
			details := map[string]any{"path": path, "line": line}
			if name != "" {
				details["name"] = name
			}
			if ferr := formatter.FormatError(w, "NO_MATCH", err.Error(), details); ferr != nil {
				return ferr
			}
			return NoMatchError(err.Error())
		}
		return err
	}

	ev := scenario.Event{
		Path:        path,
		Line:        line,
		Name:        name,
		Tags:        eventTags(doc.Feature(), sc),
		Designation: scenario.Designation(path, line, sc.Name),
	}
	ctx, err := resolver.Build(sc, doc.Background(), ev)
	if err != nil {
		return WrapExitCodeError(ExitError, "building scenario state", err)
	}

	view, err := output.NewResolutionView(sc, ctx, path)
	if err != nil {
		return err
	}

	log.Debugf("resolved %s:%d as %q", path, line, view.Display)
	return formatter.FormatResolution(w, view)
}

// eventTags collects the tag names an execution event for sc would carry.
func eventTags(feature *messages.Feature, sc *messages.Scenario) []string {
	var tags []string
	for _, t := range feature.Tags {
		tags = append(tags, t.Name)
	}
	for _, t := range sc.Tags {
		tags = append(tags, t.Name)
	}
	return tags
}
