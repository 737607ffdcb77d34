package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "agent.invoked", "task.completed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Agent Invocation Events
// -----------------------------------------------------------------------------

// AgentInvokedEvent is emitted when a specialist invocation begins, before
// the model call is made.
type AgentInvokedEvent struct {
	baseEvent
	RequestID string // Unique identifier for the invocation
	AgentID   string // Specialist agent identifier
	Role      string // Specialist role name
}

// NewAgentInvokedEvent creates an AgentInvokedEvent.
func NewAgentInvokedEvent(requestID, agentID, role string) AgentInvokedEvent {
	return AgentInvokedEvent{
		baseEvent: newBaseEvent("agent.invoked"),
		RequestID: requestID,
		AgentID:   agentID,
		Role:      role,
	}
}

// AgentRespondedEvent is emitted when a specialist invocation completes,
// whether the underlying model call succeeded or failed. Observers always see
// the attempt; failures carry the error text.
type AgentRespondedEvent struct {
	baseEvent
	RequestID  string  // Invocation identifier, matches AgentInvokedEvent
	AgentID    string  // Specialist agent identifier
	Role       string  // Specialist role name
	Confidence float64 // Response confidence in [0,1]
	TokensUsed int     // Estimated tokens consumed by the invocation
	Error      string  // Error message if the model call failed
}

// NewAgentRespondedEvent creates an AgentRespondedEvent.
func NewAgentRespondedEvent(requestID, agentID, role string, confidence float64, tokensUsed int, errMsg string) AgentRespondedEvent {
	return AgentRespondedEvent{
		baseEvent:  newBaseEvent("agent.responded"),
		RequestID:  requestID,
		AgentID:    agentID,
		Role:       role,
		Confidence: confidence,
		TokensUsed: tokensUsed,
		Error:      errMsg,
	}
}

// AgentDelegatedEvent is emitted when one role hands work to another,
// either because a response suggested delegation or a driver requested it.
type AgentDelegatedEvent struct {
	baseEvent
	RequestID string // Invocation identifier of the delegated call
	FromRole  string // Role that originated the delegation
	ToRole    string // Role that receives the work
}

// NewAgentDelegatedEvent creates an AgentDelegatedEvent.
func NewAgentDelegatedEvent(requestID, fromRole, toRole string) AgentDelegatedEvent {
	return AgentDelegatedEvent{
		baseEvent: newBaseEvent("agent.delegated"),
		RequestID: requestID,
		FromRole:  fromRole,
		ToRole:    toRole,
	}
}

// -----------------------------------------------------------------------------
// Collaboration Session Events
// -----------------------------------------------------------------------------

// SessionCreatedEvent is emitted when a collaboration session is created.
type SessionCreatedEvent struct {
	baseEvent
	SessionID    string // Session identifier
	Name         string // Human-readable session name
	Protocol     string // Collaboration protocol
	Participants int    // Number of participants
}

// NewSessionCreatedEvent creates a SessionCreatedEvent.
func NewSessionCreatedEvent(sessionID, name, protocol string, participants int) SessionCreatedEvent {
	return SessionCreatedEvent{
		baseEvent:    newBaseEvent("session.created"),
		SessionID:    sessionID,
		Name:         name,
		Protocol:     protocol,
		Participants: participants,
	}
}

// TurnAdvancedEvent is emitted each time a session's turn counter advances.
type TurnAdvancedEvent struct {
	baseEvent
	SessionID  string // Session identifier
	Turn       int    // New value of the turn counter
	ActiveRole string // Role of the participant active at the new turn
}

// NewTurnAdvancedEvent creates a TurnAdvancedEvent.
func NewTurnAdvancedEvent(sessionID string, turn int, activeRole string) TurnAdvancedEvent {
	return TurnAdvancedEvent{
		baseEvent:  newBaseEvent("session.turn_advanced"),
		SessionID:  sessionID,
		Turn:       turn,
		ActiveRole: activeRole,
	}
}

// SessionStatusChangedEvent is emitted when a session's status transitions.
type SessionStatusChangedEvent struct {
	baseEvent
	SessionID string // Session identifier
	Previous  string // Previous status
	Current   string // New status
}

// NewSessionStatusChangedEvent creates a SessionStatusChangedEvent.
func NewSessionStatusChangedEvent(sessionID, previous, current string) SessionStatusChangedEvent {
	return SessionStatusChangedEvent{
		baseEvent: newBaseEvent("session.status_changed"),
		SessionID: sessionID,
		Previous:  previous,
		Current:   current,
	}
}

// MessagePostedEvent is emitted when a message is appended to a session log.
type MessagePostedEvent struct {
	baseEvent
	SessionID   string // Session identifier
	MessageID   string // Message identifier
	SenderRole  string // Role of the sender
	MessageType string // Message type (contribution, vote, critique, ...)
}

// NewMessagePostedEvent creates a MessagePostedEvent.
func NewMessagePostedEvent(sessionID, messageID, senderRole, messageType string) MessagePostedEvent {
	return MessagePostedEvent{
		baseEvent:   newBaseEvent("session.message_posted"),
		SessionID:   sessionID,
		MessageID:   messageID,
		SenderRole:  senderRole,
		MessageType: messageType,
	}
}

// -----------------------------------------------------------------------------
// Consensus Events
// -----------------------------------------------------------------------------

// ConsensusUpdatedEvent is emitted when a proposal's vote tally or status
// changes.
type ConsensusUpdatedEvent struct {
	baseEvent
	ProposalID string // Proposal identifier
	Approvals  int    // Current approval count
	Rejections int    // Current rejection count
	Status     string // Proposal status (pending, accepted, rejected, withdrawn)
}

// NewConsensusUpdatedEvent creates a ConsensusUpdatedEvent.
func NewConsensusUpdatedEvent(proposalID string, approvals, rejections int, status string) ConsensusUpdatedEvent {
	return ConsensusUpdatedEvent{
		baseEvent:  newBaseEvent("consensus.updated"),
		ProposalID: proposalID,
		Approvals:  approvals,
		Rejections: rejections,
		Status:     status,
	}
}

// -----------------------------------------------------------------------------
// Task Events
// -----------------------------------------------------------------------------

// TaskStatusChangedEvent is emitted when a task's status transitions.
type TaskStatusChangedEvent struct {
	baseEvent
	TaskID   string // Task identifier
	Previous string // Previous status
	Current  string // New status
}

// NewTaskStatusChangedEvent creates a TaskStatusChangedEvent.
func NewTaskStatusChangedEvent(taskID, previous, current string) TaskStatusChangedEvent {
	return TaskStatusChangedEvent{
		baseEvent: newBaseEvent("task.status_changed"),
		TaskID:    taskID,
		Previous:  previous,
		Current:   current,
	}
}

// TaskStepRecordedEvent is emitted when a step is appended to a task.
type TaskStepRecordedEvent struct {
	baseEvent
	TaskID     string // Task identifier
	StepID     int    // Sequential step identifier
	Action     string // Step action kind (tool_call, reasoning, ...)
	Status     string // Step status after recording
	TokensUsed int    // Tokens consumed by the step
}

// NewTaskStepRecordedEvent creates a TaskStepRecordedEvent.
func NewTaskStepRecordedEvent(taskID string, stepID int, action, status string, tokensUsed int) TaskStepRecordedEvent {
	return TaskStepRecordedEvent{
		baseEvent:  newBaseEvent("task.step_recorded"),
		TaskID:     taskID,
		StepID:     stepID,
		Action:     action,
		Status:     status,
		TokensUsed: tokensUsed,
	}
}

// TaskAwaitingConfirmationEvent is emitted when a task suspends on a
// sensitive operation pending user confirmation.
type TaskAwaitingConfirmationEvent struct {
	baseEvent
	TaskID    string // Task identifier
	StepID    int    // Step that triggered the suspension
	Operation string // Operation class awaiting confirmation
}

// NewTaskAwaitingConfirmationEvent creates a TaskAwaitingConfirmationEvent.
func NewTaskAwaitingConfirmationEvent(taskID string, stepID int, operation string) TaskAwaitingConfirmationEvent {
	return TaskAwaitingConfirmationEvent{
		baseEvent: newBaseEvent("task.awaiting_confirmation"),
		TaskID:    taskID,
		StepID:    stepID,
		Operation: operation,
	}
}

// TaskCompletedEvent is emitted when a task reaches a terminal state.
type TaskCompletedEvent struct {
	baseEvent
	TaskID  string // Task identifier
	Success bool   // Whether the task completed successfully
	Summary string // Human-readable result summary
}

// NewTaskCompletedEvent creates a TaskCompletedEvent.
func NewTaskCompletedEvent(taskID string, success bool, summary string) TaskCompletedEvent {
	return TaskCompletedEvent{
		baseEvent: newBaseEvent("task.completed"),
		TaskID:    taskID,
		Success:   success,
		Summary:   summary,
	}
}

// BudgetExceededEvent is emitted when a step or token budget check fails.
type BudgetExceededEvent struct {
	baseEvent
	TaskID string // Task identifier
	Kind   string // Budget dimension: "steps" or "tokens"
	Used   int    // Amount consumed
	Limit  int    // Configured maximum
}

// NewBudgetExceededEvent creates a BudgetExceededEvent.
func NewBudgetExceededEvent(taskID, kind string, used, limit int) BudgetExceededEvent {
	return BudgetExceededEvent{
		baseEvent: newBaseEvent("task.budget_exceeded"),
		TaskID:    taskID,
		Kind:      kind,
		Used:      used,
		Limit:     limit,
	}
}
