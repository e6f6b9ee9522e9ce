package workflow

import (
	"fmt"
	"strings"
)

// UndefinedKeyError is returned by Context.Get when a key was never set.
// Reading an unset key is a programming mistake, not a default-valued read.
type UndefinedKeyError struct {
	Key string
}

func (e *UndefinedKeyError) Error() string {
	return fmt.Sprintf("undefined context key: %s", e.Key)
}

// DefinitionError reports a structural problem in a workflow definition,
// detected before any execution: duplicate step names, a fork with more
// than one fallback branch, a condition that does not compile.
type DefinitionError struct {
	Workflow string
	Detail   string
}

func (e *DefinitionError) Error() string {
	if e.Workflow == "" {
		return fmt.Sprintf("invalid workflow definition: %s", e.Detail)
	}
	return fmt.Sprintf("invalid workflow definition %s: %s", e.Workflow, e.Detail)
}

// StepExecutionError reports the failure of a non-optional step's service
// call. Executed lists the steps that completed before the failing one, in
// execution order.
type StepExecutionError struct {
	Step     string
	Executed []string
	Err      error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StepExecutionError) Unwrap() error {
	return e.Err
}

// RollbackFailure records a single compensation that failed while rolling
// back an already-failed workflow.
type RollbackFailure struct {
	Step string
	Err  error
}

// RollbackError reports that one or more rollback actions failed while
// compensating for a step failure. It supersedes the original failure as
// the surfaced error but keeps it reachable through Cause/Unwrap, because a
// partially-compensated system needs both sides of the story.
type RollbackError struct {
	FailedStep string
	Failures   []RollbackFailure
	Cause      *StepExecutionError
}

func (e *RollbackError) Error() string {
	steps := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		steps = append(steps, f.Step)
	}
	return fmt.Sprintf("rollback failed for step(s) %s while compensating for failed step %s: %v",
		strings.Join(steps, ", "), e.FailedStep, e.Cause)
}

func (e *RollbackError) Unwrap() error {
	return e.Cause
}
