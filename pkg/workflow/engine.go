package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/FlowForge/flowforge/pkg/service"
	"github.com/FlowForge/flowforge/pkg/transaction"
)

// Engine executes a workflow Definition. One Engine may serve any number of
// concurrent runs; each run gets its own Context and the Engine keeps no
// per-run state.
//
// Runtime outcomes, including step failures and rollbacks, are reported
// through the returned *Result. The error return of Run/Call is reserved
// for programmer errors: a nil definition or a duplicate invocation.
type Engine struct {
	def     *Definition
	tx      transaction.Transactor
	journal *Journal
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithTransactor sets the atomic-scope collaborator used by transactional
// definitions. Defaults to transaction.Nop.
func WithTransactor(tx transaction.Transactor) EngineOption {
	return func(e *Engine) {
		e.tx = tx
	}
}

// WithJournal makes the Engine record terminal run results. Journal
// failures never fail a run.
func WithJournal(journal *Journal) EngineOption {
	return func(e *Engine) {
		e.journal = journal
	}
}

// NewEngine creates an Engine for the given definition.
func NewEngine(def *Definition, opts ...EngineOption) *Engine {
	e := &Engine{
		def: def,
		tx:  transaction.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the workflow once for (user, params).
func (e *Engine) Run(ctx context.Context, user any, params service.Params) (*Result, error) {
	return e.Bind(user, params).Call(ctx)
}

// Bind prepares a single invocation with the given user and initial
// parameters. The invocation's Context stays readable after Call returns.
func (e *Engine) Bind(user any, params service.Params) *Invocation {
	return &Invocation{
		engine:  e,
		context: NewContext(user, params),
	}
}

// Invocation is one prepared workflow run.
type Invocation struct {
	engine  *Engine
	context *Context
}

// Context returns the run's context for diagnostics and testing.
func (inv *Invocation) Context() *Context {
	return inv.context
}

// Call executes the bound workflow exactly once. Calling twice is a
// programmer error.
func (inv *Invocation) Call(ctx context.Context) (*Result, error) {
	if inv.engine.def == nil {
		return nil, fmt.Errorf("workflow definition is nil")
	}
	if inv.context.WasCalled() {
		return nil, fmt.Errorf("workflow %s already called", inv.engine.def.Name)
	}
	inv.context.MarkCalled()

	result := inv.engine.run(ctx, inv.context)

	if inv.engine.journal != nil {
		// Best effort; a journal problem must not fail the run.
		_ = inv.engine.journal.Record(result)
	}

	return result, nil
}

// execution accumulates the per-run bookkeeping the Engine reports in the
// Result metadata and needs for rollback.
type execution struct {
	executed      []string
	executedSteps []*Step
	skipped       []string
	decisions     []BranchDecision
}

// scopeAbort carries the terminal failure out of a transaction scope so
// the scope rolls back. The failure itself is already encoded in the
// Result; the error only exists to abort the scope.
type scopeAbort struct {
	error
}

func (e *Engine) run(ctx context.Context, wctx *Context) *Result {
	started := time.Now()

	var result *Result
	if e.def.Transactional {
		err := e.tx.InTransaction(ctx, func(txCtx context.Context) error {
			result = e.execute(txCtx, wctx)
			if result.Failed() {
				failure := result.Failure
				if failure == nil {
					failure = errors.New(result.ErrorMessage)
				}
				return scopeAbort{failure}
			}
			return nil
		})

		switch {
		case result == nil:
			// The scope never opened; the workflow did not run.
			wctx.Fail(err.Error(), nil)
			result = e.failureResult(wctx, StatusFailed, nil, &execution{})
		case err != nil && !result.Failed():
			// Steps succeeded but the scope could not commit, so their
			// writes are gone.
			wctx.Fail(err.Error(), nil)
			result = e.failureResult(wctx, StatusFailed, nil, &execution{})
		}
	} else {
		result = e.execute(ctx, wctx)
	}

	finished := time.Now()
	result.Metadata.RunID = uuid.NewString()
	result.Metadata.Workflow = e.def.Name
	result.Metadata.StartedAt = started
	result.Metadata.FinishedAt = finished
	result.Metadata.DurationMS = roundDurationMS(finished.Sub(started))

	return result
}

// execute drives one run: before hooks, the step/fork sequence through the
// around chain, then either after hooks or reverse-order rollback.
func (e *Engine) execute(ctx context.Context, wctx *Context) *Result {
	exec := &execution{}
	callbacks := &e.def.Callbacks

	if !callbacks.runBefore(wctx) {
		return e.failureResult(wctx, StatusFailed, nil, exec)
	}

	for _, item := range e.def.Items {
		switch it := item.(type) {
		case *Step:
			if err := e.runStep(ctx, wctx, it, exec); err != nil {
				return e.rollbackAndFail(wctx, exec, err)
			}
		case *Fork:
			branch := it.resolve(wctx)
			if branch == nil {
				exec.decisions = append(exec.decisions, BranchDecision{Fork: it.Name, Branch: BranchDecisionNone})
				continue
			}
			exec.decisions = append(exec.decisions, BranchDecision{Fork: it.Name, Branch: branch.Name})

			for _, step := range branch.Steps {
				if err := e.runStep(ctx, wctx, step, exec); err != nil {
					return e.rollbackAndFail(wctx, exec, err)
				}
			}
		}
	}

	callbacks.runAfter(wctx)

	return &Result{
		Success: true,
		Status:  StatusCompleted,
		Context: wctx,
		Metadata: Metadata{
			StepsExecuted:   exec.executed,
			StepsSkipped:    exec.skipped,
			BranchDecisions: exec.decisions,
		},
	}
}

// runStep executes one step through the around-hook chain and records its
// outcome. The chain is built fresh per step; with no around hooks the step
// executes directly.
func (e *Engine) runStep(ctx context.Context, wctx *Context, step *Step, exec *execution) error {
	// If an around hook never calls next, the step did not run.
	outcome := outcomeSkipped

	inner := func() error {
		o, err := step.execute(ctx, wctx, service.Params(wctx.Params()), append([]string(nil), exec.executed...))
		outcome = o
		return err
	}

	handler := e.def.Callbacks.chain(step, wctx, inner)
	if err := handler(); err != nil {
		var stepErr *StepExecutionError
		if !errors.As(err, &stepErr) {
			// An around hook failed without the step failing; classify it
			// like a step failure so rollback handling stays uniform.
			err = &StepExecutionError{Step: step.Name, Executed: append([]string(nil), exec.executed...), Err: err}
		}
		return err
	}

	switch outcome {
	case outcomeExecuted:
		exec.executed = append(exec.executed, step.Name)
		exec.executedSteps = append(exec.executedSteps, step)
	case outcomeSkipped:
		exec.skipped = append(exec.skipped, step.Name)
	case outcomeOptionalFailure:
		// Recorded in the context under "<name>_error"; the step is neither
		// executed nor skipped.
	}

	return nil
}

// rollbackAndFail walks the executed steps in reverse, invoking each
// compensation, continuing past individual rollback failures so every
// executed step gets its chance to compensate. If any compensation failed,
// the surfaced error is a *RollbackError that still carries the original
// step failure.
func (e *Engine) rollbackAndFail(wctx *Context, exec *execution, err error) *Result {
	var stepErr *StepExecutionError
	if !errors.As(err, &stepErr) {
		stepErr = &StepExecutionError{Step: "", Executed: exec.executed, Err: err}
	}

	wctx.Fail(stepErr.Error(), serviceFields(stepErr))

	var failures []RollbackFailure
	for i := len(exec.executedSteps) - 1; i >= 0; i-- {
		step := exec.executedSteps[i]
		if rbErr := step.runRollback(wctx); rbErr != nil {
			failures = append(failures, RollbackFailure{Step: step.Name, Err: rbErr})
		}
	}

	terminal := error(stepErr)
	if len(failures) > 0 {
		terminal = &RollbackError{
			FailedStep: stepErr.Step,
			Failures:   failures,
			Cause:      stepErr,
		}
	}

	status := StatusFailed
	if len(exec.executedSteps) > 0 {
		status = StatusRolledBack
	}

	result := e.failureResult(wctx, status, terminal, exec)
	result.Metadata.FailedStep = stepErr.Step
	result.Metadata.RolledBack = len(exec.executedSteps) > 0
	result.Metadata.RollbackClean = len(failures) == 0

	return result
}

// failureResult assembles a failure Result from the context's error
// payload.
func (e *Engine) failureResult(wctx *Context, status Status, terminal error, exec *execution) *Result {
	result := &Result{
		Success: false,
		Status:  status,
		Context: wctx,
		Failure: terminal,
		Metadata: Metadata{
			StepsExecuted:   exec.executed,
			StepsSkipped:    exec.skipped,
			BranchDecisions: exec.decisions,
		},
	}

	if detail := wctx.Failure(); detail != nil {
		result.ErrorMessage = detail.Message
		result.Errors = detail.Fields
	} else if terminal != nil {
		result.ErrorMessage = terminal.Error()
	}

	return result
}

// serviceFields extracts per-field errors from a failed service call, if
// the service reported any.
func serviceFields(stepErr *StepExecutionError) map[string][]string {
	var svcErr *service.Error
	if errors.As(stepErr.Err, &svcErr) {
		return svcErr.Fields
	}
	return nil
}

// roundDurationMS converts a duration to milliseconds rounded to two
// decimal places.
func roundDurationMS(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}
