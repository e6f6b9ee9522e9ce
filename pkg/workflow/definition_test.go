package workflow

import (
	"errors"
	"testing"
)

func namedStep(name string) *Step {
	return &Step{Name: name, Service: &spyService{}}
}

func TestBuilder_BuildsValidDefinition(t *testing.T) {
	def, err := New("fulfilment").
		Step(namedStep("charge")).
		Fork("shipping",
			&Branch{Name: "express", Guard: Expr("params.express == true"), Steps: []*Step{namedStep("express-label")}},
			&Branch{Name: "standard", Steps: []*Step{namedStep("standard-label")}},
		).
		InTransaction().
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if def.Name != "fulfilment" || !def.Transactional {
		t.Errorf("definition fields lost, got %+v", def)
	}

	steps := def.Steps()
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps including fork arms, got %d", len(steps))
	}
	if steps[1].Name != "express-label" || steps[2].Name != "standard-label" {
		t.Errorf("fork steps must flatten in declaration order, got %v", steps)
	}
}

func assertDefinitionError(t *testing.T, err error, detail string) {
	t.Helper()
	var defErr *DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("expected *DefinitionError, got %v", err)
	}
	if !contains(defErr.Detail, detail) {
		t.Errorf("expected detail mentioning %q, got %q", detail, defErr.Detail)
	}
}

func TestDefinition_ValidateRejectsMissingName(t *testing.T) {
	_, err := New("").Step(namedStep("a")).Build()
	if err == nil {
		t.Fatal("expected an unnamed workflow to be rejected")
	}
	var defErr *DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("expected *DefinitionError, got %v", err)
	}
}

func TestDefinition_ValidateRejectsDuplicateStepNames(t *testing.T) {
	_, err := New("dup").
		Step(namedStep("charge")).
		Step(namedStep("charge")).
		Build()
	assertDefinitionError(t, err, "duplicate step name")
}

func TestDefinition_ValidateRejectsDuplicateNamesAcrossForkArms(t *testing.T) {
	_, err := New("dup").
		Step(namedStep("charge")).
		Fork("route",
			&Branch{Name: "a", Guard: Expr("true"), Steps: []*Step{namedStep("charge")}},
		).
		Build()
	assertDefinitionError(t, err, "duplicate step name")
}

func TestDefinition_ValidateRejectsStepWithoutService(t *testing.T) {
	_, err := New("broken").Step(&Step{Name: "charge"}).Build()
	assertDefinitionError(t, err, "no service")
}

func TestDefinition_ValidateRejectsUnnamedStep(t *testing.T) {
	_, err := New("broken").Step(&Step{Service: &spyService{}}).Build()
	assertDefinitionError(t, err, "step name is required")
}

func TestDefinition_ValidateRejectsBadCondition(t *testing.T) {
	step := namedStep("charge")
	step.Condition = Expr("amount >")
	_, err := New("broken").Step(step).Build()
	assertDefinitionError(t, err, "charge")
}

func TestDefinition_ValidateRejectsForkWithTwoFallbacks(t *testing.T) {
	_, err := New("broken").
		Fork("route",
			&Branch{Name: "a", Steps: []*Step{namedStep("s1")}},
			&Branch{Name: "b", Steps: []*Step{namedStep("s2")}},
		).
		Build()
	assertDefinitionError(t, err, "fallback")
}

func TestDefinition_ValidateRejectsForkWithoutBranches(t *testing.T) {
	_, err := New("broken").Fork("route").Build()
	assertDefinitionError(t, err, "no branches")
}

func TestDefinition_ValidateRejectsBadGuard(t *testing.T) {
	_, err := New("broken").
		Fork("route",
			&Branch{Name: "a", Guard: Expr("amount >"), Steps: []*Step{namedStep("s1")}},
		).
		Build()
	assertDefinitionError(t, err, "a")
}
