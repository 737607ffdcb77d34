package tool

import (
	"context"
	"fmt"
	"sync"
)

// Call records one Execute invocation against a Recorder.
type Call struct {
	Name string
	Args map[string]any
}

// Recorder is a Gateway for tests and the CLI dry-run mode. It records every
// call and returns a successful Result unless a scripted result is registered
// for the tool name. All methods are safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	calls   []Call
	results map[string]Result
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{results: make(map[string]Result)}
}

// Script registers the result to return for a tool name.
func (r *Recorder) Script(name string, result Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[name] = result
}

// Execute records the call and returns the scripted result, or a generic
// success when none is registered.
func (r *Recorder) Execute(ctx context.Context, name string, args map[string]any) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, Call{Name: name, Args: args})

	if res, ok := r.results[name]; ok {
		return res, nil
	}
	return Result{Success: true, Output: fmt.Sprintf("[dry-run] %s", name)}, nil
}

// Calls returns a copy of all recorded calls, in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}
