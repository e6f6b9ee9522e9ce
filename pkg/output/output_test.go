package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/FlowForge/flowforge/pkg/workflow"
)

func sampleRecord() *workflow.RunRecord {
	return &workflow.RunRecord{
		Success: true,
		Status:  workflow.StatusCompleted,
		Values:  map[string]any{"charge": "ch-1"},
		Metadata: workflow.Metadata{
			RunID:         "run-1",
			Workflow:      "fulfilment",
			StepsExecuted: []string{"charge", "ship"},
			StartedAt:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			FinishedAt:    time.Date(2026, 3, 14, 9, 30, 1, 0, time.UTC),
			DurationMS:    1000,
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"table", "json", "yaml"} {
		format, err := ParseFormat(name)
		if err != nil || string(format) != name {
			t.Errorf("expected %s to parse, got %v, %v", name, format, err)
		}
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected unknown formats to be rejected")
	}
}

func TestRender_JSONRoundTrips(t *testing.T) {
	out, err := Render(FormatJSON, sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded workflow.RunRecord
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output must be valid JSON: %v", err)
	}
	if decoded.Metadata.RunID != "run-1" {
		t.Errorf("record lost in rendering, got %+v", decoded)
	}
}

func TestRender_YAMLRoundTrips(t *testing.T) {
	out, err := Render(FormatYAML, sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output must be valid YAML: %v", err)
	}
}

func TestRender_TableNamesTheRun(t *testing.T) {
	out, err := Render(FormatTable, sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"fulfilment", "run-1", "completed", "charge, ship"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRender_TableShowsFailureDetails(t *testing.T) {
	record := sampleRecord()
	record.Success = false
	record.Status = workflow.StatusRolledBack
	record.ErrorMessage = "step ship failed"
	record.Metadata.FailedStep = "ship"
	record.Metadata.RolledBack = true
	record.Metadata.RollbackClean = false

	out, err := Render(FormatTable, record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"ship", "step ship failed", "Rollback clean", "no"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderList_History(t *testing.T) {
	records := []*workflow.RunRecord{sampleRecord(), sampleRecord()}
	records[1].Metadata.RunID = "run-2"

	out, err := RenderList(FormatTable, records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "run-1") || !strings.Contains(out, "run-2") {
		t.Errorf("expected both runs listed, got:\n%s", out)
	}

	out, err = RenderList(FormatJSON, records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded []*workflow.RunRecord
	if err := json.Unmarshal([]byte(out), &decoded); err != nil || len(decoded) != 2 {
		t.Errorf("expected a JSON array of 2 records, got %v, %v", len(decoded), err)
	}
}
