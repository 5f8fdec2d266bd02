package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/picklejar/pickleback/internal/config"
	"github.com/picklejar/pickleback/internal/output"
)

var (
	cfgFlag    string
	formatFlag string
	verbose    bool

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "pickleback",
	Short: "Resolve Gherkin scenario identities from runtime events",
	Long: `pickleback maps runtime test events back onto the scenarios declared
in .feature source files: plain scenarios by declaration line and name,
outline instances by example row line, with iteration suffixes derived
from their designations.

The CLI exposes the same resolution pipeline for debugging positional
matching and for keeping a local inventory of documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFlag); err != nil {
			return ConfigError(err.Error())
		}
		return configureLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFlag, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format (table, json, yaml, plain)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().SetNormalizeFunc(normalizeFlag)
}

// normalizeFlag accepts underscore spellings for dashed flag names, so
// config keys like features_dir work verbatim on the command line.
func normalizeFlag(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// configureLogger applies the configured level and format to the CLI logger.
func configureLogger() error {
	cfg := config.Get()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return ConfigError(fmt.Sprintf("invalid log level %q", cfg.Log.Level))
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{})
	}
	return nil
}

// GetFormat returns the effective output format: the --format flag if set,
// otherwise the configured default.
func GetFormat() string {
	if formatFlag != "" {
		return formatFlag
	}
	if cfg := config.Get(); cfg != nil && cfg.Format != "" {
		return cfg.Format
	}
	return string(output.FormatTable)
}

// newFormatter validates the format name and builds the matching formatter.
func newFormatter(name string) (output.Formatter, error) {
	format := output.Format(name)
	if !format.IsValid() {
		return nil, NewExitCodeError(ExitError, fmt.Sprintf("invalid format %q (valid: table, json, yaml, plain)", name))
	}
	return output.New(format), nil
}

// featuresDir returns the effective features directory.
func featuresDir() string {
	if cfg := config.Get(); cfg != nil && cfg.FeaturesDir != "" {
		return cfg.FeaturesDir
	}
	return "features"
}

// inventoryPath returns the effective inventory database path.
func inventoryPath() string {
	if cfg := config.Get(); cfg != nil && cfg.Inventory != "" {
		return cfg.Inventory
	}
	return filepath.Join(".pickleback", "inventory.db")
}

// Execute runs the CLI application.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

// Run executes the CLI in-process with explicit arguments and writers and
// returns the process exit code. Flag state is reset afterwards so repeated
// invocations start clean.
func Run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs([]string{})
		resetFlags()
	}()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return GetExitCode(err)
}

// resetFlags restores flag variables to their defaults between in-process
// invocations.
func resetFlags() {
	cfgFlag = ""
	formatFlag = ""
	verbose = false
	resolveLine = 0
	resolveName = ""
	scanInventory = ""
	listInventory = ""
}
