package task

// Operation classifies the side effect a step wants to perform. The engine
// maps each class to the capability and constraint flag that must both
// permit it.
type Operation string

const (
	// OpNone marks steps with no side effects (reasoning, summaries).
	OpNone Operation = ""

	// OpModifyFile edits an existing file.
	OpModifyFile Operation = "modify_file"

	// OpCreateFile creates a new file.
	OpCreateFile Operation = "create_file"

	// OpDeleteFile deletes a file.
	OpDeleteFile Operation = "delete_file"

	// OpRunCommand runs a shell command.
	OpRunCommand Operation = "run_command"
)

// Constraints bound what a task may do and how much it may consume.
type Constraints struct {
	// MaxSteps is the maximum number of steps, including failed ones.
	MaxSteps int `json:"max_steps" mapstructure:"max_steps"`
	// MaxTokens is the maximum total token cost across all steps.
	MaxTokens int `json:"max_tokens" mapstructure:"max_tokens"`
	// AllowFileModification permits edits to existing files.
	AllowFileModification bool `json:"allow_file_modification" mapstructure:"allow_file_modification"`
	// AllowNewFiles permits creating files.
	AllowNewFiles bool `json:"allow_new_files" mapstructure:"allow_new_files"`
	// AllowDeletion permits deleting files.
	AllowDeletion bool `json:"allow_deletion" mapstructure:"allow_deletion"`
	// AllowCommands permits running shell commands.
	AllowCommands bool `json:"allow_commands" mapstructure:"allow_commands"`
	// RequireConfirmation suspends the task on user approval before any
	// permitted side-effecting operation runs.
	RequireConfirmation bool `json:"require_confirmation" mapstructure:"require_confirmation"`
	// TimeoutSeconds bounds total execution time; zero means no timeout.
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// IsReadOnly returns true if every permission flag is false. A read-only
// task can never perform a side-effecting operation.
func (c Constraints) IsReadOnly() bool {
	return !c.AllowFileModification && !c.AllowNewFiles && !c.AllowDeletion && !c.AllowCommands
}

// AllowsFileOperations returns true if any file permission is granted.
func (c Constraints) AllowsFileOperations() bool {
	return c.AllowFileModification || c.AllowNewFiles || c.AllowDeletion
}

// Allows returns true if the constraint flags permit the operation class.
// OpNone is always permitted.
func (c Constraints) Allows(op Operation) bool {
	switch op {
	case OpNone:
		return true
	case OpModifyFile:
		return c.AllowFileModification
	case OpCreateFile:
		return c.AllowNewFiles
	case OpDeleteFile:
		return c.AllowDeletion
	case OpRunCommand:
		return c.AllowCommands
	default:
		return false
	}
}

// DefaultConstraints are moderate budgets with confirmation required for
// side-effecting operations.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxSteps:              20,
		MaxTokens:             50000,
		AllowFileModification: true,
		AllowNewFiles:         true,
		RequireConfirmation:   true,
		TimeoutSeconds:        300,
	}
}

// ReadOnlyConstraints permit nothing destructive, so no confirmation is
// ever needed.
func ReadOnlyConstraints() Constraints {
	return Constraints{
		MaxSteps:       10,
		MaxTokens:      20000,
		TimeoutSeconds: 120,
	}
}

// PermissiveConstraints are large budgets with every operation class
// allowed and no confirmation gating.
func PermissiveConstraints() Constraints {
	return Constraints{
		MaxSteps:              100,
		MaxTokens:             500000,
		AllowFileModification: true,
		AllowNewFiles:         true,
		AllowDeletion:         true,
		AllowCommands:         true,
		TimeoutSeconds:        1800,
	}
}
