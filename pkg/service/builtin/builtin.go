// Package builtin provides the stock services available to declaratively
// defined workflows run through the flowforge CLI.
package builtin

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cast"

	"github.com/FlowForge/flowforge/pkg/service"
)

// Register adds every builtin service to the registry.
func Register(r *service.Registry) error {
	builtins := map[string]service.Service{
		"noop":     service.Func(Noop),
		"log":      service.Func(Log),
		"sleep":    service.Func(Sleep),
		"template": service.Func(Template),
		"exec":     service.Func(Exec),
		"fail":     service.Func(Fail),
	}

	for name, svc := range builtins {
		if err := r.Register(name, svc); err != nil {
			return err
		}
	}

	return nil
}

// Noop succeeds without doing anything.
func Noop(_ context.Context, _ any, _ service.Params) (*service.Result, error) {
	return service.OK(nil), nil
}

// Log prints the "message" parameter and echoes the parameters back.
func Log(_ context.Context, _ any, params service.Params) (*service.Result, error) {
	message := cast.ToString(params["message"])
	if message == "" {
		return service.Failed("log requires a message parameter", "missing_param"), nil
	}

	pterm.Info.Println(message)

	return service.OK(params), nil
}

// Sleep pauses for the "duration" parameter (Go duration string or
// milliseconds), honoring context cancellation.
func Sleep(ctx context.Context, _ any, params service.Params) (*service.Result, error) {
	duration, err := parseDuration(params["duration"])
	if err != nil {
		return service.Failed(err.Error(), "bad_duration"), nil
	}

	select {
	case <-time.After(duration):
		return service.OK(map[string]any{"slept_ms": duration.Milliseconds()}), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Template produces the "value" parameter as the step's resource. Combined
// with step input interpolation this derives new context values from
// earlier step outputs.
func Template(_ context.Context, _ any, params service.Params) (*service.Result, error) {
	value, exists := params["value"]
	if !exists {
		return service.Failed("template requires a value parameter", "missing_param"), nil
	}

	return service.Resourceful(value), nil
}

// Exec runs the "command" parameter through the shell and captures its
// output. A non-zero exit is a service failure, not an infrastructure
// error.
func Exec(ctx context.Context, _ any, params service.Params) (*service.Result, error) {
	command := cast.ToString(params["command"])
	if command == "" {
		return service.Failed("exec requires a command parameter", "missing_param"), nil
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return service.FailedWithFields(
			fmt.Sprintf("command failed: %v", err),
			"exec_failed",
			map[string][]string{"stderr": {stderr.String()}},
		), nil
	}

	return service.OK(map[string]any{
		"stdout": stdout.String(),
		"stderr": stderr.String(),
	}), nil
}

// Fail always fails, with an optional "message" parameter. Useful for
// exercising rollback paths.
func Fail(_ context.Context, _ any, params service.Params) (*service.Result, error) {
	message := cast.ToString(params["message"])
	if message == "" {
		message = "service failed"
	}

	return service.Failed(message, "failed"), nil
}

func parseDuration(raw any) (time.Duration, error) {
	switch v := raw.(type) {
	case string:
		duration, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", v, err)
		}
		return duration, nil
	case nil:
		return 0, fmt.Errorf("sleep requires a duration parameter")
	default:
		ms := cast.ToInt64(v)
		if ms <= 0 {
			return 0, fmt.Errorf("invalid duration: %v", raw)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
}
