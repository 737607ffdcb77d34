package task

// Status is the lifecycle state of a task.
type Status string

const (
	// StatusPending means the task exists but planning has not begun.
	StatusPending Status = "pending"

	// StatusPlanning means the approach is being worked out.
	StatusPlanning Status = "planning"

	// StatusExecuting means steps are being executed.
	StatusExecuting Status = "executing"

	// StatusAwaitingConfirmation means execution is suspended on a
	// sensitive operation pending user approval.
	StatusAwaitingConfirmation Status = "awaiting_confirmation"

	// StatusCompleted means the task finished with a successful result.
	StatusCompleted Status = "completed"

	// StatusFailed means the task finished with a failed result.
	StatusFailed Status = "failed"

	// StatusCancelled means the task was cancelled before completion.
	StatusCancelled Status = "cancelled"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if this status represents a final state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// validTransitions maps each status to the statuses reachable from it.
// Cancellation is reachable from every non-terminal status.
var validTransitions = map[Status][]Status{
	StatusPending:              {StatusPlanning, StatusCancelled},
	StatusPlanning:             {StatusExecuting, StatusFailed, StatusCancelled},
	StatusExecuting:            {StatusAwaitingConfirmation, StatusCompleted, StatusFailed, StatusCancelled},
	StatusAwaitingConfirmation: {StatusExecuting, StatusFailed, StatusCancelled},
}

// canTransition returns true if the status machine permits from -> to.
func canTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
