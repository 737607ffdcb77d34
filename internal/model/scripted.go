package model

import (
	"context"
	"fmt"
	"sync"
)

// Scripted is a deterministic Client for tests and the CLI dry-run mode.
// It replays a fixed list of responses in order; when the script is
// exhausted it echoes a summary of the request. All methods are safe for
// concurrent use.
type Scripted struct {
	mu        sync.Mutex
	responses []string
	next      int
	err       error
	calls     []Request
}

// NewScripted creates a Scripted client that replays the given responses.
func NewScripted(responses ...string) *Scripted {
	return &Scripted{responses: responses}
}

// FailWith makes every subsequent Complete call return err.
// Passing nil clears the failure.
func (s *Scripted) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Complete returns the next scripted response, or an echo of the request
// once the script is exhausted.
func (s *Scripted) Complete(ctx context.Context, req Request) (Completion, error) {
	if err := ctx.Err(); err != nil {
		return Completion{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, req)

	if s.err != nil {
		return Completion{}, s.err
	}

	if s.next < len(s.responses) {
		text := s.responses[s.next]
		s.next++
		return Completion{Text: text}, nil
	}
	return Completion{Text: fmt.Sprintf("[scripted] %s", req.UserPrompt)}, nil
}

// Calls returns a copy of all requests seen so far, in order.
func (s *Scripted) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.calls))
	copy(out, s.calls)
	return out
}
