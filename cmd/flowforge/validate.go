package main

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FlowForge/flowforge/pkg/service"
	"github.com/FlowForge/flowforge/pkg/service/builtin"
	"github.com/FlowForge/flowforge/pkg/workflow"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <workflow.yaml>",
		Short: "Check a workflow definition without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadSettings(cmd); err != nil {
				return err
			}

			registry := service.NewRegistry()
			if err := builtin.Register(registry); err != nil {
				return err
			}

			def, err := workflow.NewParser(registry).ParseFile(args[0])
			if err != nil {
				var defErr *workflow.DefinitionError
				if errors.As(err, &defErr) {
					pterm.Error.Println(defErr.Error())
				}
				return err
			}

			pterm.Success.Printfln("workflow %s is valid (%d steps)", def.Name, len(def.Steps()))
			return nil
		},
	}
}
