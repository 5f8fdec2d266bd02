package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/picklejar/pickleback/internal/inventory"
	"github.com/picklejar/pickleback/internal/output"
	"github.com/picklejar/pickleback/internal/source"
	"github.com/picklejar/pickleback/internal/ui"
)

var scanInventory string

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Scan feature documents into the inventory",
	Long: `Walk a directory for .feature files, resolve each document, and record
its scenarios and execution instances in the inventory database. Outline
instances are recorded under the names a run would report.

The directory defaults to the configured features_dir. Documents that do
not parse are skipped.

Examples:
  pickleback scan
  pickleback scan specs/features
  pickleback scan --inventory /tmp/inventory.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		return RunScan(cmd.OutOrStdout(), dir, scanInventory)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanInventory, "inventory", "", "Path to the inventory database (defaults to config)")
}

// RunScan walks dir for feature documents and records them in the
// inventory at dbPath. Empty arguments fall back to the configured values.
func RunScan(w io.Writer, dir, dbPath string) error {
	if dir == "" {
		dir = featuresDir()
	}
	if dbPath == "" {
		dbPath = inventoryPath()
	}

	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return NotFoundError(fmt.Sprintf("no such directory: %s", dir))
		}
		return err
	}

	if parent := filepath.Dir(dbPath); parent != "." {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", parent, err)
		}
	}
	store, err := inventory.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening inventory: %w", err)
	}
	defer store.Close()

	index := source.NewIndex()
	var features, instances, skipped int

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".feature") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		index.RecordSource(path, content)

		doc := index.Resolve(path)
		if doc == nil {
			ui.SkipLine(w, path)
			skipped++
			return nil
		}

		view, verr := output.NewDocumentView(doc)
		if verr != nil {
			log.Warnf("skipping %s: %v", path, verr)
			ui.SkipLine(w, path)
			skipped++
			return nil
		}

		record, definitions := toRecords(view)
		created, err := store.RecordFeature(record, definitions)
		if err != nil {
			return fmt.Errorf("recording %s: %w", path, err)
		}
		if created {
			ui.NewLine(w, path)
		} else {
			ui.SeenLine(w, path)
		}

		features++
		for _, def := range definitions {
			instances += len(def.Instances)
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}

	ui.SummaryLine(w, features, instances)
	if skipped > 0 {
		log.Warnf("%d documents did not parse and were skipped", skipped)
	}
	return nil
}

// toRecords maps a document view onto inventory rows, one instance per
// runtime occurrence.
func toRecords(view *output.DocumentView) (inventory.FeatureRecord, []inventory.ScenarioRecord) {
	record := inventory.FeatureRecord{
		Path:    view.Path,
		Name:    view.Name,
		Keyword: view.Keyword,
	}

	definitions := make([]inventory.ScenarioRecord, 0, len(view.Scenarios))
	for _, sc := range view.Scenarios {
		def := inventory.ScenarioRecord{
			Line:    sc.Line,
			Name:    sc.Name,
			Keyword: sc.Keyword,
			Outline: sc.Outline,
		}
		for _, inst := range sc.Instances() {
			def.Instances = append(def.Instances, inventory.InstanceRecord{
				Line: inst.Line,
				Name: inst.Name,
			})
		}
		definitions = append(definitions, def)
	}
	return record, definitions
}
