package workflow

import (
	"time"
)

// Status is the lifecycle state of a workflow run.
type Status string

const (
	// StatusPending indicates the run has not started.
	StatusPending Status = "pending"
	// StatusRunning indicates the run is in progress.
	StatusRunning Status = "running"
	// StatusCompleted indicates every step finished and after hooks ran.
	StatusCompleted Status = "completed"
	// StatusFailed indicates the run failed with no compensations to apply.
	StatusFailed Status = "failed"
	// StatusRolledBack indicates the run failed and compensations were
	// attempted for the steps that had executed.
	StatusRolledBack Status = "rolled-back"
)

// BranchDecision records which branch a fork selected during a run.
type BranchDecision struct {
	Fork   string `json:"fork"`
	Branch string `json:"branch"`
}

// Metadata is the diagnostic record of one workflow run.
type Metadata struct {
	RunID           string           `json:"run_id"`
	Workflow        string           `json:"workflow"`
	StepsExecuted   []string         `json:"steps_executed"`
	StepsSkipped    []string         `json:"steps_skipped"`
	BranchDecisions []BranchDecision `json:"branch_decisions,omitempty"`
	FailedStep      string           `json:"failed_step,omitempty"`
	RolledBack      bool             `json:"rolled_back,omitempty"`
	RollbackClean   bool             `json:"rollback_clean,omitempty"`
	StartedAt       time.Time        `json:"started_at"`
	FinishedAt      time.Time        `json:"finished_at"`
	// DurationMS is FinishedAt minus StartedAt in milliseconds, rounded to
	// two decimal places.
	DurationMS float64 `json:"duration_ms"`
}

// Result is the tagged outcome of a workflow run. Runtime failures are
// encoded here rather than raised: Success is false, ErrorMessage/Errors
// carry the context's failure payload, and Failure holds the typed error
// (*StepExecutionError or *RollbackError) for callers that inspect causes.
type Result struct {
	Success      bool
	Status       Status
	Context      *Context
	ErrorMessage string
	Errors       map[string][]string
	Failure      error
	Metadata     Metadata
}

// Failed reports whether the run failed.
func (r *Result) Failed() bool {
	return !r.Success
}
