// Package output renders workflow run records for the CLI in table, JSON
// or YAML form.
package output

import (
	"fmt"

	"github.com/FlowForge/flowforge/pkg/workflow"
)

// Format selects a rendering.
type Format string

const (
	// FormatTable renders a human-readable summary table.
	FormatTable Format = "table"
	// FormatJSON renders the full run record as indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders the full run record as YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name from a flag or config value.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatTable, FormatJSON, FormatYAML:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unknown output format: %s (expected table, json or yaml)", name)
	}
}

// Render formats a single run record.
func Render(format Format, record *workflow.RunRecord) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(record)
	case FormatYAML:
		return renderYAML(record)
	case FormatTable:
		return renderTable(record)
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

// RenderList formats a list of run records (for history).
func RenderList(format Format, records []*workflow.RunRecord) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(records)
	case FormatYAML:
		return renderYAML(records)
	case FormatTable:
		return renderHistoryTable(records)
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}
