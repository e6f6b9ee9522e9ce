package workflow

// BeforeFunc runs once before any step. A before hook that fails the
// context halts the run: remaining before hooks and the whole step sequence
// are skipped.
type BeforeFunc func(ctx *Context)

// AfterFunc runs once after all steps completed successfully. After hooks
// never run for a failed workflow, mirroring compensating-cleanup
// semantics, and they do not short-circuit each other.
type AfterFunc func(ctx *Context)

// Next continues an around-hook chain. The hook must call it for the chain
// (and ultimately the step) to execute.
type Next func() error

// AroundFunc wraps a step's execution middleware-style. The innermost Next
// is the step's own execution.
type AroundFunc func(step *Step, ctx *Context, next Next) error

// Callbacks holds the ordered lifecycle hooks of a workflow definition.
type Callbacks struct {
	Before []BeforeFunc
	After  []AfterFunc
	Around []AroundFunc
}

// runBefore executes before hooks in order, stopping as soon as one fails
// the context. Reports whether the run may proceed.
func (c *Callbacks) runBefore(ctx *Context) bool {
	for _, hook := range c.Before {
		hook(ctx)
		if ctx.Failed() {
			return false
		}
	}
	return true
}

// runAfter executes after hooks unconditionally in order.
func (c *Callbacks) runAfter(ctx *Context) {
	for _, hook := range c.After {
		hook(ctx)
	}
}

// chain folds the around hooks into a single handler for one step, with
// inner as the innermost Next. Hooks are applied in reverse so the first
// registered hook is the outermost wrapper. With no hooks registered the
// step executes directly.
func (c *Callbacks) chain(step *Step, ctx *Context, inner Next) Next {
	next := inner
	for i := len(c.Around) - 1; i >= 0; i-- {
		hook := c.Around[i]
		wrapped := next
		next = func() error {
			return hook(step, ctx, wrapped)
		}
	}
	return next
}
