package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/adrg/xdg"
)

// RunRecord is the serializable account of one workflow run, kept by the
// Journal for later inspection (`flowforge history`).
type RunRecord struct {
	Success      bool                `json:"success"`
	Status       Status              `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Errors       map[string][]string `json:"errors,omitempty"`
	Values       map[string]any      `json:"values,omitempty"`
	Metadata     Metadata            `json:"metadata"`
}

// NewRunRecord converts a run Result into its serializable account.
func NewRunRecord(result *Result) *RunRecord {
	record := &RunRecord{
		Success:      result.Success,
		Status:       result.Status,
		ErrorMessage: result.ErrorMessage,
		Errors:       result.Errors,
		Metadata:     result.Metadata,
	}
	if result.Context != nil {
		record.Values = result.Context.Snapshot()
	}
	return record
}

// Journal persists run results as JSON files, one per run.
type Journal struct {
	dir string
}

// NewJournal creates a Journal in the XDG state directory.
func NewJournal() *Journal {
	return &Journal{
		dir: filepath.Join(xdg.StateHome, "flowforge", "runs"),
	}
}

// NewJournalWithDir creates a Journal in a custom directory.
func NewJournalWithDir(dir string) *Journal {
	return &Journal{dir: dir}
}

// Dir returns the journal directory.
func (j *Journal) Dir() string {
	return j.dir
}

func (j *Journal) ensureDir() error {
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}
	return nil
}

func (j *Journal) path(runID string) string {
	return filepath.Join(j.dir, runID+".json")
}

// Record writes the run's record to disk.
func (j *Journal) Record(result *Result) error {
	if err := j.ensureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(NewRunRecord(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	if err := os.WriteFile(j.path(result.Metadata.RunID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}

	return nil
}

// Load reads a run record by run ID.
func (j *Journal) Load(runID string) (*RunRecord, error) {
	data, err := os.ReadFile(j.path(runID))
	if err != nil {
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
	}

	return &record, nil
}

// List returns all run records, most recent first. Unreadable files are
// skipped.
func (j *Journal) List() ([]*RunRecord, error) {
	if err := j.ensureDir(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	records := make([]*RunRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		record, err := j.Load(entry.Name()[:len(entry.Name())-len(".json")])
		if err != nil {
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, k int) bool {
		return records[i].Metadata.StartedAt.After(records[k].Metadata.StartedAt)
	})

	return records, nil
}

// Delete removes a run record. Deleting a record that does not exist is
// not an error.
func (j *Journal) Delete(runID string) error {
	if err := os.Remove(j.path(runID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// Prune removes records older than maxAge.
func (j *Journal) Prune(maxAge time.Duration) error {
	records, err := j.List()
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	for _, record := range records {
		if record.Metadata.StartedAt.Before(cutoff) {
			if err := j.Delete(record.Metadata.RunID); err != nil {
				return err
			}
		}
	}

	return nil
}
