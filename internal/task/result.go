package task

import "time"

// Result is the terminal outcome of a task.
type Result struct {
	// Success is true if the task achieved its goal.
	Success bool `json:"success"`
	// Summary is a human-readable account of what happened.
	Summary string `json:"summary"`
	// ModifiedFiles lists files edited during the task.
	ModifiedFiles []string `json:"modified_files,omitempty"`
	// CreatedFiles lists files created during the task.
	CreatedFiles []string `json:"created_files,omitempty"`
	// DeletedFiles lists files deleted during the task.
	DeletedFiles []string `json:"deleted_files,omitempty"`
	// Errors lists the failures encountered, human-readable.
	Errors []string `json:"errors,omitempty"`
	// TokensUsed is the total token cost of the task.
	TokensUsed int `json:"tokens_used"`
	// Duration is the elapsed time from creation to completion.
	Duration time.Duration `json:"duration"`
}

// HasErrors returns true if any failure was recorded.
func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}
