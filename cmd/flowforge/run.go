package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/FlowForge/flowforge/pkg/output"
	"github.com/FlowForge/flowforge/pkg/service"
	"github.com/FlowForge/flowforge/pkg/service/builtin"
	"github.com/FlowForge/flowforge/pkg/workflow"
)

func newRunCmd() *cobra.Command {
	var (
		params     []string
		paramsFile string
		user       string
	)

	cmd := &cobra.Command{
		Use:   "run <workflow.yaml>",
		Short: "Execute a workflow definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			format, err := output.ParseFormat(settings.Output)
			if err != nil {
				return err
			}

			registry := service.NewRegistry()
			if err := builtin.Register(registry); err != nil {
				return err
			}

			def, err := workflow.NewParser(registry).ParseFile(args[0])
			if err != nil {
				return err
			}

			initial, err := collectParams(params, paramsFile)
			if err != nil {
				return err
			}

			journal := workflow.NewJournalWithDir(settings.JournalDir)
			engine := workflow.NewEngine(def, workflow.WithJournal(journal))

			spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			spin.Suffix = fmt.Sprintf(" running %s...", def.Name)
			if format == output.FormatTable {
				spin.Start()
			}

			result, err := engine.Run(cmd.Context(), user, initial)
			spin.Stop()
			if err != nil {
				return err
			}

			rendered, err := output.Render(format, workflow.NewRunRecord(result))
			if err != nil {
				return err
			}
			cmd.Println(rendered)

			if result.Failed() {
				return fmt.Errorf("workflow %s %s", def.Name, result.Status)
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Initial parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&paramsFile, "params-file", "", "YAML file with initial parameters")
	cmd.Flags().StringVar(&user, "user", "", "User the workflow runs on behalf of")

	return cmd
}

// collectParams merges --params-file values with --param overrides.
// File values keep their YAML types; flag values are strings.
func collectParams(flags []string, file string) (service.Params, error) {
	params := make(service.Params)

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read params file: %w", err)
		}
		if err := yaml.Unmarshal(data, &params); err != nil {
			return nil, fmt.Errorf("failed to parse params file: %w", err)
		}
	}

	for _, flag := range flags {
		key, value, found := strings.Cut(flag, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", flag)
		}
		params[key] = value
	}

	return params, nil
}
