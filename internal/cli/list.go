package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/picklejar/pickleback/internal/inventory"
	"github.com/picklejar/pickleback/internal/output"
)

var listInventory string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the recorded inventory",
	Long: `List the features and execution instances recorded by scan.

Examples:
  pickleback list
  pickleback list -f json
  pickleback list --inventory /tmp/inventory.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), listInventory, GetFormat())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listInventory, "inventory", "", "Path to the inventory database (defaults to config)")
}

// RunList renders the stored inventory in the given format.
func RunList(w io.Writer, dbPath, format string) error {
	formatter, err := newFormatter(format)
	if err != nil {
		return err
	}

	if dbPath == "" {
		dbPath = inventoryPath()
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NotFoundError(fmt.Sprintf("no inventory at %s (run pickleback scan first)", dbPath))
	}

	store, err := inventory.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening inventory: %w", err)
	}
	defer store.Close()

	features, err := store.Features()
	if err != nil {
		return fmt.Errorf("listing features: %w", err)
	}
	rows, err := store.Instances()
	if err != nil {
		return fmt.Errorf("listing instances: %w", err)
	}

	view := &output.InventoryView{}
	for _, f := range features {
		view.Features = append(view.Features, output.InventoryFeature{
			Path:      f.Path,
			Name:      f.Name,
			Scenarios: f.Scenarios,
			Instances: f.Instances,
		})
	}
	for _, r := range rows {
		view.Instances = append(view.Instances, output.InventoryInstance{
			Path:    r.Path,
			Name:    r.Name,
			Line:    r.Line,
			Outline: r.Outline,
		})
	}

	return formatter.FormatInventory(w, view)
}
