package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cadre-ai/cadre/internal/errors"
	"github.com/cadre-ai/cadre/internal/event"
	"github.com/cadre-ai/cadre/internal/logging"
	"github.com/cadre-ai/cadre/internal/role"
	"github.com/cadre-ai/cadre/internal/specialist"
	"github.com/cadre-ai/cadre/internal/tool"
)

// StepRequest describes one step the driver wants to execute.
type StepRequest struct {
	// Action is the kind of work.
	Action StepAction
	// Reasoning is the rationale to record with the step.
	Reasoning string
	// Operation classifies the side effect, OpNone for pure reasoning.
	Operation Operation
	// ToolName names the gateway tool for tool-call steps.
	ToolName string
	// ToolArgs carries the gateway arguments.
	ToolArgs map[string]any
	// Capabilities is the acting specialist's capability set. When set,
	// side-effecting operations additionally require the matching
	// capability.
	Capabilities role.Set
	// TokensUsed is the step's token cost if already known; zero means
	// the engine estimates it.
	TokensUsed int
}

// capabilityFor maps an operation class to the capability that must cover it.
func capabilityFor(op Operation) role.Capability {
	switch op {
	case OpModifyFile:
		return role.CapWriteCode
	case OpCreateFile:
		return role.CapCreateFiles
	case OpDeleteFile:
		return role.CapDeleteFiles
	case OpRunCommand:
		return role.CapRunCommands
	default:
		return ""
	}
}

// Engine drives tasks through the state machine, enforcing constraints
// before each step and publishing task events after each state change.
// Step execution is serialized per task; the engine never runs two steps of
// the same task concurrently.
type Engine struct {
	gateway tool.Gateway
	bus     *event.Bus
	log     *logging.Logger

	mu    sync.Mutex
	tasks map[string]*AgentTask
}

// NewEngine creates a task engine backed by the given tool gateway.
func NewEngine(gateway tool.Gateway, bus *event.Bus, log *logging.Logger) *Engine {
	if bus == nil {
		bus = event.NewBus()
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Engine{
		gateway: gateway,
		bus:     bus,
		log:     log,
		tasks:   make(map[string]*AgentTask),
	}
}

// Create registers a new pending task.
func (e *Engine) Create(taskType, description, contextStr string, constraints Constraints) *AgentTask {
	t := NewTask(taskType, description, contextStr, constraints)

	e.mu.Lock()
	e.tasks[t.ID()] = t
	e.mu.Unlock()

	e.log.WithTask(t.ID()).Info("task created", "type", taskType, "read_only", constraints.IsReadOnly())
	return t
}

// Get returns a registered task.
func (e *Engine) Get(taskID string) (*AgentTask, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrTaskNotFound, taskID)
	}
	return t, nil
}

// Tasks returns all registered tasks in unspecified order.
func (e *Engine) Tasks() []*AgentTask {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*AgentTask, 0, len(e.tasks))
	for _, t := range e.tasks {
		out = append(out, t)
	}
	return out
}

// Plan moves a pending task into planning.
func (e *Engine) Plan(taskID string) error {
	t, err := e.Get(taskID)
	if err != nil {
		return err
	}
	return e.applyTransition(t, StatusPlanning)
}

// StartExecution moves a planned task into executing and starts the task
// timeout clock if the constraints set one.
func (e *Engine) StartExecution(taskID string) error {
	t, err := e.Get(taskID)
	if err != nil {
		return err
	}
	if err := e.applyTransition(t, StatusExecuting); err != nil {
		return err
	}
	if secs := t.constraints.TimeoutSeconds; secs > 0 {
		t.mu.Lock()
		t.deadline = time.Now().Add(time.Duration(secs) * time.Second)
		t.mu.Unlock()
	}
	return nil
}

// ExecuteStep runs one step of an executing task. Budgets are checked
// first: exhausting either budget fails the whole task with a
// budget-exceeded result. Permission checks fail only the offending step,
// which is recorded as failed; permission errors are never retryable. A
// permitted side-effecting operation under RequireConfirmation suspends the
// task instead of executing; the returned step is then still pending and
// the caller resumes through Approve or Reject.
func (e *Engine) ExecuteStep(ctx context.Context, taskID string, req StepRequest) (Step, error) {
	t, err := e.Get(taskID)
	if err != nil {
		return Step{}, err
	}
	if status := t.Status(); status != StatusExecuting {
		if status.IsTerminal() {
			return Step{}, fmt.Errorf("%w: task %s", errors.ErrTaskTerminal, taskID)
		}
		return Step{}, fmt.Errorf("%w: cannot execute step in status %s", errors.ErrInvalidTransition, status)
	}

	if err := e.checkDeadline(t); err != nil {
		return Step{}, err
	}

	// Budget gates run before the step starts; exceeding one is a hard
	// stop, not a silent truncation.
	if berr := e.checkBudgets(t); berr != nil {
		e.bus.Publish(event.NewBudgetExceededEvent(t.ID(), berr.Kind, berr.Used, berr.Limit))
		e.failTask(t, Result{
			Success: false,
			Summary: fmt.Sprintf("task aborted: %s budget exceeded", berr.Kind),
			Errors:  []string{berr.Error()},
		})
		return Step{}, berr
	}

	if req.Operation != OpNone {
		if perr := e.checkPermissions(t, req); perr != nil {
			step := t.appendStep(Step{
				Action:    req.Action,
				Reasoning: req.Reasoning,
				Status:    StepFailed,
				Result:    perr.Error(),
				ToolName:  req.ToolName,
				ToolArgs:  req.ToolArgs,
			})
			e.publishStep(t, step)
			return step, perr
		}

		if t.constraints.RequireConfirmation {
			return e.suspendForConfirmation(t, req)
		}
	}

	return e.runStep(ctx, t, req)
}

// checkDeadline cancels the task if its timeout has elapsed.
func (e *Engine) checkDeadline(t *AgentTask) error {
	t.mu.Lock()
	expired := !t.deadline.IsZero() && time.Now().After(t.deadline)
	t.mu.Unlock()

	if !expired {
		return nil
	}
	e.log.WithTask(t.ID()).Warn("task timeout elapsed")
	if err := e.Cancel(t.ID()); err != nil {
		return err
	}
	return fmt.Errorf("task %s: %w", t.ID(), context.DeadlineExceeded)
}

// checkBudgets verifies the step and token budgets admit one more step.
func (e *Engine) checkBudgets(t *AgentTask) *errors.BudgetError {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c := t.constraints.MaxSteps; c > 0 && len(t.steps) >= c {
		return errors.NewBudgetError("steps", len(t.steps), c)
	}
	if c := t.constraints.MaxTokens; c > 0 && t.totalTokensLocked() >= c {
		return errors.NewBudgetError("tokens", t.totalTokensLocked(), c)
	}
	return nil
}

// checkPermissions verifies both the specialist capability and the task
// constraints admit the operation class.
func (e *Engine) checkPermissions(t *AgentTask, req StepRequest) *errors.PermissionError {
	if req.Capabilities != nil && !req.Capabilities.Has(capabilityFor(req.Operation)) {
		return errors.NewPermissionError(string(req.Operation),
			fmt.Sprintf("specialist lacks the %s capability", capabilityFor(req.Operation)))
	}
	if !t.constraints.Allows(req.Operation) {
		return errors.NewPermissionError(string(req.Operation), "task constraints do not permit this operation")
	}
	return nil
}

// suspendForConfirmation parks the step and moves the task to
// AwaitingConfirmation. The step is appended only once it is approved or
// rejected.
func (e *Engine) suspendForConfirmation(t *AgentTask, req StepRequest) (Step, error) {
	pending := Step{
		Action:    req.Action,
		Reasoning: req.Reasoning,
		Status:    StepPending,
		ToolName:  req.ToolName,
		ToolArgs:  req.ToolArgs,
	}

	t.mu.Lock()
	from, err := t.transitionLocked(StatusAwaitingConfirmation)
	if err != nil {
		t.mu.Unlock()
		return Step{}, err
	}
	pending.ID = len(t.steps)
	t.pending = &pending
	t.pendingOp = req.Operation
	t.pendingCaps = req.Capabilities
	t.mu.Unlock()

	e.bus.Publish(event.NewTaskStatusChangedEvent(t.ID(), from.String(), StatusAwaitingConfirmation.String()))
	e.bus.Publish(event.NewTaskAwaitingConfirmationEvent(t.ID(), pending.ID, string(req.Operation)))
	e.log.WithTask(t.ID()).Info("awaiting confirmation", "operation", string(req.Operation))
	return pending, nil
}

// Approve resumes a task suspended on confirmation and executes the parked
// step.
func (e *Engine) Approve(ctx context.Context, taskID string) (Step, error) {
	t, err := e.Get(taskID)
	if err != nil {
		return Step{}, err
	}

	t.mu.Lock()
	if t.status != StatusAwaitingConfirmation || t.pending == nil {
		t.mu.Unlock()
		return Step{}, fmt.Errorf("%w: task %s", errors.ErrNotAwaitingConfirmation, taskID)
	}
	from, err := t.transitionLocked(StatusExecuting)
	if err != nil {
		t.mu.Unlock()
		return Step{}, err
	}
	pending := *t.pending
	op := t.pendingOp
	caps := t.pendingCaps
	t.pending = nil
	t.mu.Unlock()

	e.bus.Publish(event.NewTaskStatusChangedEvent(t.ID(), from.String(), StatusExecuting.String()))
	return e.runStep(ctx, t, StepRequest{
		Action:       pending.Action,
		Reasoning:    pending.Reasoning,
		Operation:    op,
		ToolName:     pending.ToolName,
		ToolArgs:     pending.ToolArgs,
		Capabilities: caps,
	})
}

// Reject resumes a suspended task without executing the parked step, which
// is recorded as skipped with the given reason.
func (e *Engine) Reject(taskID, reason string) (Step, error) {
	t, err := e.Get(taskID)
	if err != nil {
		return Step{}, err
	}

	t.mu.Lock()
	if t.status != StatusAwaitingConfirmation || t.pending == nil {
		t.mu.Unlock()
		return Step{}, fmt.Errorf("%w: task %s", errors.ErrNotAwaitingConfirmation, taskID)
	}
	from, err := t.transitionLocked(StatusExecuting)
	if err != nil {
		t.mu.Unlock()
		return Step{}, err
	}
	pending := *t.pending
	pending.Status = StepSkipped
	pending.Result = fmt.Sprintf("rejected by user: %s", reason)
	t.pending = nil
	step := t.appendStepLocked(pending)
	t.mu.Unlock()

	e.bus.Publish(event.NewTaskStatusChangedEvent(t.ID(), from.String(), StatusExecuting.String()))
	e.publishStep(t, step)
	return step, nil
}

// runStep executes one admitted step. Tool calls go through the gateway; a
// tool reporting failure fails only this step, not the task. A gateway
// transport error is returned to the caller alongside the recorded step.
func (e *Engine) runStep(ctx context.Context, t *AgentTask, req StepRequest) (Step, error) {
	start := time.Now()
	step := Step{
		Action:    req.Action,
		Reasoning: req.Reasoning,
		Status:    StepRunning,
		ToolName:  req.ToolName,
		ToolArgs:  req.ToolArgs,
	}

	var execErr error
	if step.IsToolCall() {
		res, err := e.gateway.Execute(ctx, req.ToolName, req.ToolArgs)
		switch {
		case err != nil:
			step.Status = StepFailed
			step.Result = err.Error()
			execErr = err
		case res.Success:
			step.Status = StepCompleted
			step.Result = res.Output
		default:
			step.Status = StepFailed
			step.Result = res.Error
		}
	} else {
		step.Status = StepCompleted
		step.Result = req.Reasoning
	}

	step.Duration = time.Since(start)
	step.TokensUsed = req.TokensUsed
	if step.TokensUsed == 0 {
		step.TokensUsed = specialist.EstimateTokens(req.Reasoning + step.Result)
	}

	step = t.appendStep(step)
	e.publishStep(t, step)
	return step, execErr
}

// Complete finishes an executing task with its terminal result: Completed
// if the result is successful, Failed otherwise. This is the only path to a
// terminal success or failure state.
func (e *Engine) Complete(taskID string, result Result) error {
	t, err := e.Get(taskID)
	if err != nil {
		return err
	}
	if status := t.Status(); status != StatusExecuting {
		if status.IsTerminal() {
			return fmt.Errorf("%w: task %s", errors.ErrTaskTerminal, taskID)
		}
		return fmt.Errorf("%w: cannot complete task in status %s", errors.ErrInvalidTransition, status)
	}

	if result.Success {
		e.finishTask(t, StatusCompleted, result)
	} else {
		e.failTask(t, result)
	}
	return nil
}

// Cancel terminates a task from any non-terminal status. Steps already
// recorded stay in the step list for audit.
func (e *Engine) Cancel(taskID string) error {
	t, err := e.Get(taskID)
	if err != nil {
		return err
	}
	if err := e.applyTransition(t, StatusCancelled); err != nil {
		return err
	}
	e.bus.Publish(event.NewTaskCompletedEvent(t.ID(), false, "task cancelled"))
	return nil
}

// failTask completes a task with a failed result.
func (e *Engine) failTask(t *AgentTask, result Result) {
	result.Success = false
	e.finishTask(t, StatusFailed, result)
}

// finishTask fills result totals, stores the result, and applies the
// terminal transition.
func (e *Engine) finishTask(t *AgentTask, status Status, result Result) {
	if result.TokensUsed == 0 {
		result.TokensUsed = t.TotalTokens()
	}
	if result.Duration == 0 {
		result.Duration = time.Since(t.CreatedAt())
	}
	t.setResult(result)

	if err := e.applyTransition(t, status); err != nil {
		e.log.WithTask(t.ID()).Error("terminal transition failed", "error", err)
		return
	}
	e.bus.Publish(event.NewTaskCompletedEvent(t.ID(), result.Success, result.Summary))
}

// applyTransition applies a guarded status change and publishes
// task.status_changed after the state is updated.
func (e *Engine) applyTransition(t *AgentTask, to Status) error {
	from, err := t.transition(to)
	if err != nil {
		return err
	}
	e.bus.Publish(event.NewTaskStatusChangedEvent(t.ID(), from.String(), to.String()))
	e.log.WithTask(t.ID()).Info("task status changed", "from", from.String(), "to", to.String())
	return nil
}

func (e *Engine) publishStep(t *AgentTask, step Step) {
	e.bus.Publish(event.NewTaskStepRecordedEvent(
		t.ID(), step.ID, string(step.Action), string(step.Status), step.TokensUsed))
}
