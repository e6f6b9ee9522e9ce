package workflow

import (
	"testing"
)

func TestExprCondition_EvaluatesAgainstParams(t *testing.T) {
	cond := Expr("params.amount > 100")
	if err := cond.Compile(); err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	ctx := NewContext(nil, map[string]any{"amount": 500})
	matched, err := cond.Evaluate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Error("expected amount 500 to match")
	}

	ctx = NewContext(nil, map[string]any{"amount": 50})
	matched, err = cond.Evaluate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matched {
		t.Error("expected amount 50 not to match")
	}
}

func TestExprCondition_SeesContextValues(t *testing.T) {
	ctx := NewContext(nil, nil)
	ctx.Set("order", map[string]any{"status": "paid"})

	matched, err := Expr(`values.order.status == "paid"`).Evaluate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Error("expected condition to see step output in values")
	}
}

func TestExprCondition_StringHelpers(t *testing.T) {
	ctx := NewContext(nil, map[string]any{"sku": "EU-4711"})

	matched, err := Expr(`startsWith(params.sku, "EU-")`).Evaluate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Error("expected startsWith helper to match")
	}

	matched, err = Expr(`has(params, "sku") && !has(params, "ean")`).Evaluate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Error("expected has helper to probe params")
	}
}

func TestExprCondition_CompileError(t *testing.T) {
	if err := Expr("amount >").Compile(); err == nil {
		t.Fatal("expected a compile error for a truncated expression")
	}
}

func TestInterpolator_InterpolateString(t *testing.T) {
	ctx := NewContext("alice", map[string]any{"amount": 42})
	ctx.Set("order", map[string]any{"id": "ord-1"})

	got, err := NewInterpolator(ctx).InterpolateString("charge {params.amount} for {values.order.id} by {user}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "charge 42 for ord-1 by alice" {
		t.Errorf("unexpected interpolation: %s", got)
	}
}

func TestInterpolator_InterpolateMapRecurses(t *testing.T) {
	ctx := NewContext(nil, map[string]any{"amount": 42})

	got, err := NewInterpolator(ctx).InterpolateMap(map[string]any{
		"flat": "{params.amount}",
		"nested": map[string]any{
			"deep": "total {params.amount}",
		},
		"list":      []any{"{params.amount}", 7},
		"untouched": 13,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["flat"] != "42" {
		t.Errorf("expected flat value interpolated, got %v", got["flat"])
	}
	nested := got["nested"].(map[string]any)
	if nested["deep"] != "total 42" {
		t.Errorf("expected nested value interpolated, got %v", nested["deep"])
	}
	list := got["list"].([]any)
	if list[0] != "42" || list[1] != 7 {
		t.Errorf("expected list elements handled, got %v", list)
	}
	if got["untouched"] != 13 {
		t.Errorf("non-string values must pass through, got %v", got["untouched"])
	}
}

func TestInterpolator_BadExpressionErrors(t *testing.T) {
	ctx := NewContext(nil, nil)
	if _, err := NewInterpolator(ctx).InterpolateString("{params.amount >}"); err == nil {
		t.Fatal("expected an error for a broken placeholder")
	}
}
