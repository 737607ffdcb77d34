// Package model defines the interface to the underlying language-model
// client. The orchestration core only ever sees this narrow contract; the
// real transport (HTTP API, local process, editor bridge) lives behind it.
//
// Failures are surfaced as explicit error values. No error from a model
// call crosses the orchestration boundary as a panic.
package model

import "context"

// Request carries one chat-completion call.
type Request struct {
	// SystemPrompt is the specialist's system prompt.
	SystemPrompt string
	// Context is an opaque editor/workspace context string, possibly empty.
	Context string
	// UserPrompt is the caller's prompt.
	UserPrompt string
	// Temperature is the sampling temperature for this call.
	Temperature float64
}

// Completion is the result of a successful model call.
type Completion struct {
	// Text is the raw response text.
	Text string
	// TokensUsed is the token count reported by the provider.
	// Zero means the provider did not report usage and the caller
	// should estimate.
	TokensUsed int
}

// Client performs chat-completion calls.
type Client interface {
	// Complete performs one chat-completion call. It must respect context
	// cancellation and return promptly when ctx is done.
	Complete(ctx context.Context, req Request) (Completion, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (Completion, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, req Request) (Completion, error) {
	return f(ctx, req)
}
