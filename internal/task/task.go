package task

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cadre-ai/cadre/internal/errors"
	"github.com/cadre-ai/cadre/internal/role"
)

// AgentTask is one unit of agent work moving through the task state
// machine. It exclusively owns its step list and its result; both are
// reachable only through copy-on-read accessors. All methods are safe for
// concurrent use.
type AgentTask struct {
	mu          sync.Mutex
	id          string
	taskType    string
	description string
	context     string
	constraints Constraints
	status      Status
	steps       []Step
	pending     *Step
	pendingOp   Operation
	pendingCaps role.Set
	result      *Result
	createdAt   time.Time
	deadline    time.Time
}

// NewTask creates a pending task.
func NewTask(taskType, description, contextStr string, constraints Constraints) *AgentTask {
	return &AgentTask{
		id:          uuid.NewString(),
		taskType:    taskType,
		description: description,
		context:     contextStr,
		constraints: constraints,
		status:      StatusPending,
		createdAt:   time.Now(),
	}
}

// ID returns the task identifier.
func (t *AgentTask) ID() string { return t.id }

// Type returns the task type.
func (t *AgentTask) Type() string { return t.taskType }

// Description returns the task description.
func (t *AgentTask) Description() string { return t.description }

// Context returns the opaque workspace context the task was created with.
func (t *AgentTask) Context() string { return t.context }

// Constraints returns the task's constraints.
func (t *AgentTask) Constraints() Constraints { return t.constraints }

// CreatedAt returns the task creation time.
func (t *AgentTask) CreatedAt() time.Time { return t.createdAt }

// Status returns the current task status.
func (t *AgentTask) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Steps returns a copy of the step list in append order.
func (t *AgentTask) Steps() []Step {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// StepCount returns the number of recorded steps.
func (t *AgentTask) StepCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.steps)
}

// TotalTokens returns the sum of step token costs.
func (t *AgentTask) TotalTokens() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalTokensLocked()
}

func (t *AgentTask) totalTokensLocked() int {
	total := 0
	for _, s := range t.steps {
		total += s.TokensUsed
	}
	return total
}

// Result returns the terminal result, if set.
func (t *AgentTask) Result() (Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.result == nil {
		return Result{}, false
	}
	return *t.result, true
}

// IsActive returns true while the task has not reached a terminal status.
func (t *AgentTask) IsActive() bool {
	return !t.Status().IsTerminal()
}

// IsSuccessful returns true if the task completed with a successful result.
func (t *AgentTask) IsSuccessful() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status == StatusCompleted && t.result != nil && t.result.Success
}

// transition applies a guarded status change and returns the previous
// status for event reporting.
func (t *AgentTask) transition(to Status) (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transitionLocked(to)
}

func (t *AgentTask) transitionLocked(to Status) (Status, error) {
	from := t.status
	if from.IsTerminal() {
		return from, fmt.Errorf("%w: task %s", errors.ErrTaskTerminal, t.id)
	}
	if !canTransition(from, to) {
		return from, fmt.Errorf("%w: task %s -> %s", errors.ErrInvalidTransition, from, to)
	}
	t.status = to
	return from, nil
}

// appendStep assigns the next sequential ID and appends the step.
func (t *AgentTask) appendStep(s Step) Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appendStepLocked(s)
}

func (t *AgentTask) appendStepLocked(s Step) Step {
	s.ID = len(t.steps)
	t.steps = append(t.steps, s)
	return s
}

// setResult stores the terminal result. The result is set at most once; a
// second call is a programming error and is ignored.
func (t *AgentTask) setResult(r Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.result == nil {
		t.result = &r
	}
}
