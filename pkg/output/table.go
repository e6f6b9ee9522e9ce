package output

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/FlowForge/flowforge/pkg/workflow"
)

func renderTable(record *workflow.RunRecord) (string, error) {
	data := pterm.TableData{
		{"Workflow", record.Metadata.Workflow},
		{"Run ID", record.Metadata.RunID},
		{"Status", string(record.Status)},
		{"Duration", fmt.Sprintf("%.2f ms", record.Metadata.DurationMS)},
		{"Steps executed", strings.Join(record.Metadata.StepsExecuted, ", ")},
		{"Steps skipped", strings.Join(record.Metadata.StepsSkipped, ", ")},
	}

	for _, decision := range record.Metadata.BranchDecisions {
		data = append(data, []string{"Branch " + decision.Fork, decision.Branch})
	}

	if record.Metadata.FailedStep != "" {
		data = append(data, []string{"Failed step", record.Metadata.FailedStep})
	}
	if record.ErrorMessage != "" {
		data = append(data, []string{"Error", record.ErrorMessage})
	}
	if record.Metadata.RolledBack {
		clean := "yes"
		if !record.Metadata.RollbackClean {
			clean = "no"
		}
		data = append(data, []string{"Rollback clean", clean})
	}

	out, err := pterm.DefaultTable.WithData(data).Srender()
	if err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}

	return out, nil
}

func renderHistoryTable(records []*workflow.RunRecord) (string, error) {
	data := pterm.TableData{
		{"Run ID", "Workflow", "Status", "Started", "Duration"},
	}

	for _, record := range records {
		data = append(data, []string{
			record.Metadata.RunID,
			record.Metadata.Workflow,
			string(record.Status),
			record.Metadata.StartedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.2f ms", record.Metadata.DurationMS),
		})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}

	return out, nil
}
