package main

import (
	"github.com/spf13/cobra"

	"github.com/FlowForge/flowforge/pkg/output"
	"github.com/FlowForge/flowforge/pkg/workflow"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past workflow runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			format, err := output.ParseFormat(settings.Output)
			if err != nil {
				return err
			}

			journal := workflow.NewJournalWithDir(settings.JournalDir)

			if len(args) == 1 {
				record, err := journal.Load(args[0])
				if err != nil {
					return err
				}

				rendered, err := output.Render(format, record)
				if err != nil {
					return err
				}
				cmd.Println(rendered)
				return nil
			}

			records, err := journal.List()
			if err != nil {
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}

			rendered, err := output.RenderList(format, records)
			if err != nil {
				return err
			}
			cmd.Println(rendered)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")

	return cmd
}
