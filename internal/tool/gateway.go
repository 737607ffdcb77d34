// Package tool defines the gateway contract for external, possibly
// destructive operations (file I/O, command execution). The orchestration
// core never performs such operations itself: it requests them through a
// [Gateway] and inspects the [Result].
package tool

import "context"

// Result is the outcome of one tool execution. Failures are values, not
// panics: Success false with a populated Error is the normal failure shape.
type Result struct {
	// Success indicates the tool completed without error.
	Success bool
	// Output is the tool's output text.
	Output string
	// Error is the failure description when Success is false.
	Error string
}

// Gateway executes named tools on behalf of the orchestration core.
type Gateway interface {
	// Execute runs the named tool with the given arguments. It must respect
	// context cancellation. A tool failure is reported in the Result; the
	// returned error is reserved for transport-level problems (e.g. the
	// gateway itself being unreachable or the context being cancelled).
	Execute(ctx context.Context, name string, args map[string]any) (Result, error)
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, name string, args map[string]any) (Result, error)

// Execute calls f.
func (f GatewayFunc) Execute(ctx context.Context, name string, args map[string]any) (Result, error) {
	return f(ctx, name, args)
}
