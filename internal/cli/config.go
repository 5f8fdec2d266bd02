package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/picklejar/pickleback/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage pickleback configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long:  `Display the current configuration in YAML format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunConfigShow(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

// RunConfigShow writes the loaded configuration as YAML.
func RunConfigShow(w io.Writer) error {
	cfg := config.Get()
	if cfg == nil {
		return ConfigError("no configuration loaded")
	}

	// Marshal config to YAML for display
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return WrapExitCodeError(ExitError, "failed to format configuration", err)
	}

	fmt.Fprint(w, string(data))
	return nil
}
