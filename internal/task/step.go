package task

import "time"

// StepAction is the kind of work a step performs.
type StepAction string

const (
	// ActionToolCall requests an operation through the tool gateway.
	ActionToolCall StepAction = "tool_call"

	// ActionReasoning records analysis without side effects.
	ActionReasoning StepAction = "reasoning"

	// ActionError records a failure observation.
	ActionError StepAction = "error"

	// ActionComplete records the concluding step of a task.
	ActionComplete StepAction = "complete"
)

// StepStatus is the outcome state of a single step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// Step is one entry in a task's append-only step list. IDs are assigned
// sequentially starting at 0.
type Step struct {
	// ID is the step's position in the task's step list.
	ID int `json:"id"`
	// Action is the kind of work performed.
	Action StepAction `json:"action"`
	// Reasoning is the rationale recorded for the step.
	Reasoning string `json:"reasoning,omitempty"`
	// Status is the step outcome.
	Status StepStatus `json:"status"`
	// Result is the step's output or failure reason.
	Result string `json:"result,omitempty"`
	// ToolName names the gateway tool for tool-call steps.
	ToolName string `json:"tool_name,omitempty"`
	// ToolArgs carries the gateway arguments for tool-call steps.
	ToolArgs map[string]any `json:"tool_args,omitempty"`
	// TokensUsed is the token cost attributed to the step.
	TokensUsed int `json:"tokens_used"`
	// Duration is how long the step took to execute.
	Duration time.Duration `json:"duration"`
}

// IsToolCall returns true if the step requests a gateway operation.
func (s Step) IsToolCall() bool {
	return s.Action == ActionToolCall && s.ToolName != ""
}
