package workflow

import (
	"context"
	"fmt"

	"github.com/FlowForge/flowforge/pkg/service"
)

// InputMapper derives a step's service input from the run context. Absent a
// mapper, the workflow's initial parameters are passed through unmodified.
type InputMapper func(ctx *Context) (service.Params, error)

// RollbackFunc is the compensating action registered on a step. It runs at
// most once per run, only if the step executed and the workflow is rolling
// back.
type RollbackFunc func(ctx *Context) error

// Step wraps a single service invocation inside a workflow.
type Step struct {
	// Name keys the step's output in the Context. Unique across the whole
	// workflow, immutable after construction.
	Name string

	// Service is the unit of work this step invokes.
	Service service.Service

	// Input maps the run context to the service's parameters.
	Input InputMapper

	// Optional steps record their failure in the context and let the
	// workflow continue.
	Optional bool

	// Condition gates execution; a falsy (or erroring) condition skips the
	// step without touching the context.
	Condition Condition

	// Rollback compensates this step during a workflow rollback.
	Rollback RollbackFunc
}

// stepOutcome describes what happened to one step during a run.
type stepOutcome int

const (
	outcomeExecuted stepOutcome = iota
	outcomeSkipped
	outcomeOptionalFailure
)

// shouldSkip reports whether the step's condition gates it out of this run.
// A condition that errors or panics counts as "condition not met": skipping
// is the safe default for gate evaluation, unlike the service call itself,
// which never downgrades a failure to a skip.
func (s *Step) shouldSkip(ctx *Context) bool {
	if s.Condition == nil {
		return false
	}

	matched := evaluateCondition(s.Condition, ctx)
	return !matched
}

// buildInput computes the service input for this step.
func (s *Step) buildInput(ctx *Context, base service.Params) (service.Params, error) {
	if s.Input == nil {
		return base, nil
	}

	input, err := s.Input(ctx)
	if err != nil {
		return nil, fmt.Errorf("input mapping for step %s failed: %w", s.Name, err)
	}

	return input, nil
}

// execute runs the step against the given context. executed is the ordered
// list of steps completed so far; it is embedded in the failure so the
// Engine can roll them back.
func (s *Step) execute(ctx context.Context, wctx *Context, base service.Params, executed []string) (stepOutcome, error) {
	if s.shouldSkip(wctx) {
		return outcomeSkipped, nil
	}

	input, err := s.buildInput(wctx, base)
	if err != nil {
		return outcomeExecuted, &StepExecutionError{Step: s.Name, Executed: executed, Err: err}
	}

	result, err := s.Service.Call(ctx, wctx.User(), input)
	if err == nil && result != nil && !result.Success {
		err = serviceFailure(result)
	}

	if err != nil {
		if s.Optional {
			wctx.Set(s.Name+"_error", err.Error())
			return outcomeOptionalFailure, nil
		}
		return outcomeExecuted, &StepExecutionError{Step: s.Name, Executed: executed, Err: err}
	}

	wctx.Add(s.Name, stepOutput(result))

	return outcomeExecuted, nil
}

// runRollback invokes the registered compensation, if any. Errors propagate
// to the Engine, which classifies them as rollback failures.
func (s *Step) runRollback(wctx *Context) error {
	if s.Rollback == nil {
		return nil
	}

	if err := s.Rollback(wctx); err != nil {
		return fmt.Errorf("rollback of step %s failed: %w", s.Name, err)
	}

	return nil
}

// serviceFailure converts a failure Result into an error, preserving the
// machine-readable payload where present.
func serviceFailure(result *service.Result) error {
	if result.Error != nil {
		return result.Error
	}
	return fmt.Errorf("service returned failure without error detail")
}

// stepOutput picks what gets stored under the step's name: the resource if
// the service produced one, then the item collection, then the raw output
// map, and as a last resort the whole result.
func stepOutput(result *service.Result) any {
	if result == nil {
		return nil
	}

	switch {
	case result.Resource != nil:
		return result.Resource
	case len(result.Items) > 0:
		return result.Items
	case result.Output != nil:
		return result.Output
	default:
		return result
	}
}

// evaluateCondition runs a condition, converting errors and panics to
// false. Guard code legitimately probes context keys that may not exist
// yet; an exploding guard must never take the workflow down with it.
func evaluateCondition(cond Condition, ctx *Context) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			matched = false
		}
	}()

	matched, err := cond.Evaluate(ctx)
	if err != nil {
		return false
	}

	return matched
}
