package workflow

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Condition decides whether a step executes or a branch guard matches.
type Condition interface {
	Evaluate(ctx *Context) (bool, error)
}

// ConditionFunc adapts a plain function to the Condition interface.
type ConditionFunc func(ctx *Context) (bool, error)

// Evaluate implements Condition.
func (f ConditionFunc) Evaluate(ctx *Context) (bool, error) {
	return f(ctx)
}

// ExprCondition is a Condition backed by an expr-lang expression evaluated
// against the run's context. The expression sees:
//
//   - user:   the invoking user
//   - params: the workflow's initial parameters
//   - values: everything stored in the context, including step outputs
//
// plus string helpers (startsWith, endsWith, has).
type ExprCondition struct {
	source  string
	program *vm.Program
}

// Expr creates a condition from an expression source string. Compilation is
// deferred to Compile (called by the definition builder) so that a bad
// expression surfaces as a definition error, not a runtime one.
func Expr(source string) *ExprCondition {
	return &ExprCondition{source: source}
}

// Source returns the expression source string.
func (c *ExprCondition) Source() string {
	return c.source
}

// Compile compiles the expression. Safe to call more than once.
func (c *ExprCondition) Compile() error {
	if c.program != nil {
		return nil
	}

	program, err := expr.Compile(c.source, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return fmt.Errorf("failed to compile condition %q: %w", c.source, err)
	}

	c.program = program
	return nil
}

// Evaluate implements Condition.
func (c *ExprCondition) Evaluate(ctx *Context) (bool, error) {
	if err := c.Compile(); err != nil {
		return false, err
	}

	output, err := expr.Run(c.program, buildEnvironment(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate condition %q: %w", c.source, err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not evaluate to boolean: %v", c.source, output)
	}

	return result, nil
}

// Interpolator renders template strings like "order {values.order.id}"
// against a run's context. Used by declaratively-defined step inputs and
// the template builtin service.
type Interpolator struct {
	context *Context
}

// NewInterpolator creates an Interpolator over the given context.
func NewInterpolator(ctx *Context) *Interpolator {
	return &Interpolator{context: ctx}
}

// EvaluateExpression evaluates a single expression and returns its value.
func (i *Interpolator) EvaluateExpression(expression string) (any, error) {
	if expression == "" {
		return nil, nil
	}

	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", expression, err)
	}

	output, err := expr.Run(program, buildEnvironment(i.context))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate expression %q: %w", expression, err)
	}

	return output, nil
}

var interpolationPattern = regexp.MustCompile(`\{([^}]+)\}`)

// InterpolateString replaces every {expression} placeholder in template
// with its evaluated value.
func (i *Interpolator) InterpolateString(template string) (string, error) {
	if template == "" {
		return "", nil
	}

	result := template
	for _, match := range interpolationPattern.FindAllStringSubmatch(template, -1) {
		if len(match) < 2 {
			continue
		}

		value, err := i.EvaluateExpression(match[1])
		if err != nil {
			return "", fmt.Errorf("failed to interpolate %s: %w", match[0], err)
		}

		result = strings.ReplaceAll(result, match[0], fmt.Sprintf("%v", value))
	}

	return result, nil
}

// InterpolateMap interpolates all string values in a map, recursing into
// nested maps and slices.
func (i *Interpolator) InterpolateMap(m map[string]any) (map[string]any, error) {
	result := make(map[string]any, len(m))

	for key, value := range m {
		interpolated, err := i.interpolateValue(value)
		if err != nil {
			return nil, fmt.Errorf("failed to interpolate value for key %s: %w", key, err)
		}
		result[key] = interpolated
	}

	return result, nil
}

func (i *Interpolator) interpolateValue(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return i.InterpolateString(v)
	case map[string]any:
		return i.InterpolateMap(v)
	case []any:
		result := make([]any, len(v))
		for idx, item := range v {
			interpolated, err := i.interpolateValue(item)
			if err != nil {
				return nil, err
			}
			result[idx] = interpolated
		}
		return result, nil
	default:
		return value, nil
	}
}

// buildEnvironment creates the evaluation environment for expressions.
func buildEnvironment(ctx *Context) map[string]any {
	env := make(map[string]any)

	if ctx == nil {
		return env
	}

	env["user"] = ctx.User()
	env["params"] = ctx.Params()
	env["values"] = ctx.Snapshot()

	env["has"] = func(m map[string]any, key string) bool {
		_, exists := m[key]
		return exists
	}
	env["startsWith"] = strings.HasPrefix
	env["endsWith"] = strings.HasSuffix

	return env
}
