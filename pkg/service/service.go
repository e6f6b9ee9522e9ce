// Package service defines the contract between workflow steps and the
// service units they invoke.
//
// A service unit is a single request-handling operation: given the invoking
// user and a set of parameters it returns a Result that either carries an
// output (conventionally a resource or a list of items) or a structured
// failure. Workflows never look inside a service; they only consume this
// contract.
package service

import (
	"context"
	"fmt"
)

// Params is the input to a service call.
type Params map[string]any

// Service is a single executable unit of work.
//
// Implementations must treat a returned error and a Result with
// Success == false identically from the caller's point of view: both mean
// the call failed. Returning an error is reserved for infrastructure
// problems (the operation never ran); a failure Result means the operation
// ran and was rejected.
type Service interface {
	Call(ctx context.Context, user any, params Params) (*Result, error)
}

// Result is the outcome of a service call.
type Result struct {
	Success  bool           `json:"success"`
	Resource any            `json:"resource,omitempty"`
	Items    []any          `json:"items,omitempty"`
	Output   map[string]any `json:"output,omitempty"`
	Error    *Error         `json:"error,omitempty"`
}

// Error is the machine-readable failure payload of a Result.
type Error struct {
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// OK returns a successful Result with the given output values.
func OK(output map[string]any) *Result {
	return &Result{Success: true, Output: output}
}

// Resourceful returns a successful Result carrying a single resource.
func Resourceful(resource any) *Result {
	return &Result{Success: true, Resource: resource}
}

// Listed returns a successful Result carrying a collection of items.
func Listed(items []any) *Result {
	return &Result{Success: true, Items: items}
}

// Failed returns a failure Result with the given message and code.
func Failed(message, code string) *Result {
	return &Result{Success: false, Error: &Error{Message: message, Code: code}}
}

// FailedWithFields returns a failure Result carrying per-field errors.
func FailedWithFields(message, code string, fields map[string][]string) *Result {
	return &Result{Success: false, Error: &Error{Message: message, Code: code, Fields: fields}}
}

// Func adapts a plain function to the Service interface.
type Func func(ctx context.Context, user any, params Params) (*Result, error)

// Call implements Service.
func (f Func) Call(ctx context.Context, user any, params Params) (*Result, error) {
	return f(ctx, user, params)
}
