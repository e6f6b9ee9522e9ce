package workflow

import (
	"sync"
)

// FailureDetail is the structured error payload of a failed Context.
type FailureDetail struct {
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// Context is the mutable key/value store scoped to one workflow run. It
// carries the invoking user, the initial parameters, per-step outputs and
// the fail/success flag. The Engine writes step results into it; callback,
// condition and input-mapper code may read and write it freely.
//
// A run touches its Context from a single goroutine, but callers may retain
// the Context and inspect it after the run returns, so access is guarded.
type Context struct {
	user   any
	params map[string]any

	mu      sync.RWMutex
	values  map[string]any
	failed  bool
	failure *FailureDetail
	called  bool
}

// NewContext creates a Context for one workflow run.
func NewContext(user any, params map[string]any) *Context {
	if params == nil {
		params = make(map[string]any)
	}
	return &Context{
		user:   user,
		params: params,
		values: make(map[string]any),
	}
}

// User returns the user this workflow runs on behalf of.
func (c *Context) User() any {
	return c.user
}

// Params returns the initial parameters the workflow was invoked with.
func (c *Context) Params() map[string]any {
	return c.params
}

// Get returns the value stored under key. Reading a key that was never set
// returns an *UndefinedKeyError; there are no silent zero-value reads.
func (c *Context) Get(key string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, exists := c.values[key]
	if !exists {
		return nil, &UndefinedKeyError{Key: key}
	}

	return value, nil
}

// MustGet is Get for callback code that treats a missing key as a bug.
func (c *Context) MustGet(key string) any {
	value, err := c.Get(key)
	if err != nil {
		panic(err)
	}
	return value
}

// Has reports whether key has been set.
func (c *Context) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.values[key]
	return exists
}

// Set stores value under key and returns it. Existing keys may be
// overwritten; keys are never removed.
func (c *Context) Set(key string, value any) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = value
	return value
}

// Add stores a step's output under the step's name. It is an alias for Set;
// the separate name documents intent at Engine call sites.
func (c *Context) Add(name string, value any) any {
	return c.Set(name, value)
}

// Fail idempotently marks the context failed. The first message wins;
// field errors from later calls still merge into the payload. Once failed,
// a Context stays failed for the remainder of the run.
func (c *Context) Fail(message string, fields map[string][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.failed {
		c.failed = true
		c.failure = &FailureDetail{
			Message: message,
			Fields:  make(map[string][]string),
		}
	}

	for field, msgs := range fields {
		c.failure.Fields[field] = append(c.failure.Fields[field], msgs...)
	}
}

// Failed reports whether the context has been marked failed.
func (c *Context) Failed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.failed
}

// Succeeded is the exact complement of Failed.
func (c *Context) Succeeded() bool {
	return !c.Failed()
}

// Failure returns the structured error payload, or nil if the context has
// not failed.
func (c *Context) Failure() *FailureDetail {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.failure
}

// MarkCalled records that the workflow entry point has been invoked.
func (c *Context) MarkCalled() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.called = true
}

// WasCalled reports whether the workflow entry point has been invoked.
func (c *Context) WasCalled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.called
}

// Snapshot returns a copy of the stored values. Used to build expression
// environments and for diagnostics; mutating the copy does not touch the
// Context.
func (c *Context) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values := make(map[string]any, len(c.values))
	for k, v := range c.values {
		values[k] = v
	}

	return values
}
