// Package config handles loading flowforge CLI settings.
//
// Priority: environment variables (FLOWFORGE_*) > user config file
// (XDG config dir) > defaults.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Settings are the CLI-level knobs; workflow semantics never live here.
type Settings struct {
	// JournalDir overrides where run records are written.
	JournalDir string `mapstructure:"journal-dir"`
	// Output selects the default result rendering: table, json or yaml.
	Output string `mapstructure:"output"`
	// NoColor disables colored terminal output.
	NoColor bool `mapstructure:"no-color"`
}

// Load reads settings from the user config file and environment. A missing
// config file is not an error; everything has a default.
func Load() (*Settings, error) {
	v := viper.New()

	v.SetDefault("journal-dir", filepath.Join(xdg.StateHome, "flowforge", "runs"))
	v.SetDefault("output", "table")
	v.SetDefault("no-color", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, "flowforge"))

	v.SetEnvPrefix("FLOWFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &settings, nil
}
