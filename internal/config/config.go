// Package config provides configuration loading and management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version     int    `mapstructure:"version" json:"version" yaml:"version"`
	Format      string `mapstructure:"format" json:"format,omitempty" yaml:"format,omitempty"`
	FeaturesDir string `mapstructure:"features_dir" json:"features_dir,omitempty" yaml:"features_dir,omitempty"`
	Inventory   string `mapstructure:"inventory" json:"inventory,omitempty" yaml:"inventory,omitempty"`
	Run         Run    `mapstructure:"run" json:"run" yaml:"run"`
	Log         Log    `mapstructure:"log" json:"log" yaml:"log"`
}

// Run configures how reported runs are labeled and where they are sent.
type Run struct {
	Name       string   `mapstructure:"name" json:"name,omitempty" yaml:"name,omitempty"`
	Reporter   string   `mapstructure:"reporter" json:"reporter,omitempty" yaml:"reporter,omitempty"`
	Attributes []string `mapstructure:"attributes" json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Log configures the diagnostics logger.
type Log struct {
	Level  string `mapstructure:"level" json:"level,omitempty" yaml:"level,omitempty"`
	Format string `mapstructure:"format" json:"format,omitempty" yaml:"format,omitempty"`
}

var (
	cfg     *Config
	cfgFile string
)

// configDir returns the user-global configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pickleback"), nil
}

// Init initializes the configuration system.
// Config files are searched in the following order:
// 1. Explicit path via cfgPath parameter (--config flag)
// 2. Project-local: pickleback.yaml (current directory)
// 3. User global: ~/.config/pickleback/pickleback.yaml
// Keys can also be set through PICKLEBACK_* environment variables.
func Init(cfgPath string) error {
	// Init can run more than once in-process; start from a clean state so
	// an earlier explicit config file does not leak into this load.
	viper.Reset()
	cfgFile = cfgPath

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Check for project-local config first
		viper.AddConfigPath(".")
		// Then check user global config
		configPath, err := configDir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(configPath)
		viper.SetConfigName("pickleback")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PICKLEBACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("format", "table")
	viper.SetDefault("features_dir", "features")
	viper.SetDefault("inventory", filepath.Join(".pickleback", "inventory.db"))
	viper.SetDefault("run.reporter", "log")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// Get returns the current configuration.
// Returns nil if Init has not been called.
func Get() *Config {
	return cfg
}

// ConfigFilePath returns the path to the config file being used.
func ConfigFilePath() string {
	return viper.ConfigFileUsed()
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pickleback.yaml"), nil
}
