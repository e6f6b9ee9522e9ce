// Package main implements the flowforge CLI: run, validate and inspect
// YAML-defined workflows backed by the builtin service registry.
package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FlowForge/flowforge/pkg/config"
)

var (
	// Version is set at build time
	version = "0.3.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flowforge",
		Short: "FlowForge - Compose services into transactional workflows",
		Long: `FlowForge runs multi-step workflows defined in YAML: ordered service
steps with conditions, mutually exclusive branches, lifecycle callbacks
and compensating rollback when a step fails mid-pipeline.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringP("output", "o", "", "Output format: table, json or yaml")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}

// loadSettings merges the config file with the global flags.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	if format, _ := cmd.Flags().GetString("output"); format != "" {
		settings.Output = format
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		settings.NoColor = true
	}

	if settings.NoColor {
		pterm.DisableColor()
	}

	return settings, nil
}
