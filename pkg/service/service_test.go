package service

import (
	"testing"
)

func TestError_Error(t *testing.T) {
	withCode := &Error{Message: "card declined", Code: "declined"}
	if withCode.Error() != "card declined (declined)" {
		t.Errorf("unexpected message: %s", withCode.Error())
	}

	plain := &Error{Message: "card declined"}
	if plain.Error() != "card declined" {
		t.Errorf("unexpected message: %s", plain.Error())
	}
}

func TestResultHelpers(t *testing.T) {
	if r := OK(map[string]any{"count": 1}); !r.Success || r.Output["count"] != 1 {
		t.Errorf("OK lost its output: %+v", r)
	}
	if r := Resourceful("thing"); !r.Success || r.Resource != "thing" {
		t.Errorf("Resourceful lost its resource: %+v", r)
	}
	if r := Listed([]any{"a"}); !r.Success || len(r.Items) != 1 {
		t.Errorf("Listed lost its items: %+v", r)
	}

	failed := Failed("nope", "rejected")
	if failed.Success || failed.Error == nil || failed.Error.Code != "rejected" {
		t.Errorf("Failed lost its error: %+v", failed)
	}

	fielded := FailedWithFields("nope", "rejected", map[string][]string{"amount": {"too low"}})
	if len(fielded.Error.Fields["amount"]) != 1 {
		t.Errorf("FailedWithFields lost its fields: %+v", fielded)
	}
}
