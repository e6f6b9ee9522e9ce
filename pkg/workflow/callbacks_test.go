package workflow

import (
	"testing"
)

func TestCallbacks_RunBeforeStopsOnFailure(t *testing.T) {
	var order []string
	callbacks := &Callbacks{
		Before: []BeforeFunc{
			func(*Context) { order = append(order, "first") },
			func(c *Context) {
				order = append(order, "second")
				c.Fail("not allowed", nil)
			},
			func(*Context) { order = append(order, "third") },
		},
	}

	proceed := callbacks.runBefore(NewContext(nil, nil))

	if proceed {
		t.Error("a failing before hook must halt the run")
	}
	if len(order) != 2 || order[1] != "second" {
		t.Errorf("hooks after the failing one must not run, got %v", order)
	}
}

func TestCallbacks_RunAfterRunsAllInOrder(t *testing.T) {
	var order []string
	callbacks := &Callbacks{
		After: []AfterFunc{
			func(*Context) { order = append(order, "first") },
			func(*Context) { order = append(order, "second") },
		},
	}

	callbacks.runAfter(NewContext(nil, nil))

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("after hooks must run in registration order, got %v", order)
	}
}

func TestCallbacks_ChainWrapsFirstHookOutermost(t *testing.T) {
	var trace []string
	hook := func(name string) AroundFunc {
		return func(step *Step, ctx *Context, next Next) error {
			trace = append(trace, name+">")
			err := next()
			trace = append(trace, "<"+name)
			return err
		}
	}

	callbacks := &Callbacks{Around: []AroundFunc{hook("outer"), hook("inner")}}
	handler := callbacks.chain(&Step{Name: "s"}, NewContext(nil, nil), func() error {
		trace = append(trace, "step")
		return nil
	})

	if err := handler(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"outer>", "inner>", "step", "<inner", "<outer"}
	if len(trace) != len(want) {
		t.Fatalf("expected %v, got %v", want, trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, trace)
		}
	}
}

func TestCallbacks_ChainWithoutHooksRunsInnerDirectly(t *testing.T) {
	ran := false
	callbacks := &Callbacks{}
	handler := callbacks.chain(&Step{Name: "s"}, NewContext(nil, nil), func() error {
		ran = true
		return nil
	})

	if err := handler(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("with no around hooks the step must execute directly")
	}
}

func TestCallbacks_ChainSkipsInnerWhenNextNotCalled(t *testing.T) {
	ran := false
	callbacks := &Callbacks{Around: []AroundFunc{
		func(step *Step, ctx *Context, next Next) error {
			return nil
		},
	}}
	handler := callbacks.chain(&Step{Name: "s"}, NewContext(nil, nil), func() error {
		ran = true
		return nil
	})

	if err := handler(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ran {
		t.Error("the step must not run when an around hook skips next")
	}
}
