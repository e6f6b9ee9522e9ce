// Package workflow composes independently-built service units into
// multi-step workflows with conditional branching, lifecycle callbacks,
// transactional wrapping and best-effort compensating rollback.
//
// A workflow is defined once (Definition, usually via the Builder or the
// YAML parser) and executed any number of times by an Engine. Each run gets
// its own Context: a key/value store carrying the invoking user, the
// initial parameters and every step's output. Steps run strictly in
// sequence; when a non-optional step fails, the steps that already executed
// are rolled back in reverse order and the run returns a tagged failure
// Result.
//
// # Example
//
//	def, err := workflow.New("order-fulfilment").
//		Step(&workflow.Step{Name: "charge", Service: chargeSvc, Rollback: refund}).
//		Step(&workflow.Step{Name: "ship", Service: shipSvc}).
//		Build()
//	if err != nil {
//		return err
//	}
//	res, err := workflow.NewEngine(def).Run(ctx, user, params)
package workflow

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Definition is the static description of a workflow: its ordered sequence
// of steps and forks, its lifecycle callbacks, and whether runs are wrapped
// in a transaction scope.
type Definition struct {
	Name          string `validate:"required,min=1"`
	Items         []Item
	Transactional bool
	Callbacks     Callbacks
}

// Steps returns every step in declaration order, including the steps of
// every fork branch.
func (d *Definition) Steps() []*Step {
	var all []*Step
	for _, item := range d.Items {
		switch it := item.(type) {
		case *Step:
			all = append(all, it)
		case *Fork:
			all = append(all, it.steps()...)
		}
	}
	return all
}

// Validate checks the definition for structural problems: missing or
// duplicate step names, steps without services, forks with more than one
// fallback arm, expression conditions that do not compile. Violations are
// reported as a *DefinitionError before any execution can happen.
func (d *Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return &DefinitionError{Workflow: d.Name, Detail: err.Error()}
	}

	seen := make(map[string]bool)
	for _, step := range d.Steps() {
		if step.Name == "" {
			return &DefinitionError{Workflow: d.Name, Detail: "step name is required"}
		}
		if seen[step.Name] {
			return &DefinitionError{Workflow: d.Name, Detail: fmt.Sprintf("duplicate step name: %s", step.Name)}
		}
		seen[step.Name] = true

		if step.Service == nil {
			return &DefinitionError{Workflow: d.Name, Detail: fmt.Sprintf("step %s has no service", step.Name)}
		}

		if err := compileCondition(step.Condition); err != nil {
			return &DefinitionError{Workflow: d.Name, Detail: fmt.Sprintf("step %s: %v", step.Name, err)}
		}
	}

	for _, item := range d.Items {
		fork, ok := item.(*Fork)
		if !ok {
			continue
		}

		if fork.Name == "" {
			return &DefinitionError{Workflow: d.Name, Detail: "fork name is required"}
		}
		if len(fork.Branches) == 0 {
			return &DefinitionError{Workflow: d.Name, Detail: fmt.Sprintf("fork %s has no branches", fork.Name)}
		}

		fallbacks := 0
		for _, branch := range fork.Branches {
			if branch.Name == "" {
				return &DefinitionError{Workflow: d.Name, Detail: fmt.Sprintf("fork %s has an unnamed branch", fork.Name)}
			}
			if branch.IsFallback() {
				fallbacks++
				continue
			}
			if err := compileCondition(branch.Guard); err != nil {
				return &DefinitionError{Workflow: d.Name, Detail: fmt.Sprintf("branch %s: %v", branch.Name, err)}
			}
		}
		if fallbacks > 1 {
			return &DefinitionError{Workflow: d.Name, Detail: fmt.Sprintf("fork %s has %d fallback branches, at most one is allowed", fork.Name, fallbacks)}
		}
	}

	return nil
}

// compileCondition eagerly compiles expression conditions so a bad
// expression is a definition error rather than a silent runtime skip.
func compileCondition(cond Condition) error {
	ec, ok := cond.(*ExprCondition)
	if !ok {
		return nil
	}
	return ec.Compile()
}
