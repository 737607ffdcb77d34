package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "task.max_steps")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	errs = append(errs, c.validateModel()...)
	errs = append(errs, c.validateReview()...)
	errs = append(errs, c.validateSession()...)
	errs = append(errs, c.validateConsensus()...)
	errs = append(errs, c.validateTask()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

func (c *Config) validateModel() []ValidationError {
	var errs []ValidationError

	valid := false
	for _, p := range ValidProviders() {
		if c.Model.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, ValidationError{
			Field:   "model.provider",
			Value:   c.Model.Provider,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidProviders(), ", ")),
		})
	}

	if c.Model.MaxContextTokens < 1 {
		errs = append(errs, ValidationError{
			Field:   "model.max_context_tokens",
			Value:   c.Model.MaxContextTokens,
			Message: "must be at least 1",
		})
	}

	return errs
}

func (c *Config) validateReview() []ValidationError {
	var errs []ValidationError

	if c.Review.MaxIterations < 1 {
		errs = append(errs, ValidationError{
			Field:   "review.max_iterations",
			Value:   c.Review.MaxIterations,
			Message: "must be at least 1",
		})
	}

	return errs
}

func (c *Config) validateSession() []ValidationError {
	var errs []ValidationError

	if c.Session.MaxTurns < 1 {
		errs = append(errs, ValidationError{
			Field:   "session.max_turns",
			Value:   c.Session.MaxTurns,
			Message: "must be at least 1",
		})
	}

	if !validProtocol(c.Session.Protocol) {
		errs = append(errs, ValidationError{
			Field:   "session.protocol",
			Value:   c.Session.Protocol,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validProtocols(), ", ")),
		})
	}

	return errs
}

func (c *Config) validateConsensus() []ValidationError {
	var errs []ValidationError

	if c.Consensus.Threshold <= 0 || c.Consensus.Threshold > 1 {
		errs = append(errs, ValidationError{
			Field:   "consensus.threshold",
			Value:   c.Consensus.Threshold,
			Message: "must be greater than 0 and at most 1",
		})
	}

	return errs
}

func (c *Config) validateTask() []ValidationError {
	var errs []ValidationError

	if c.Task.MaxSteps < 1 {
		errs = append(errs, ValidationError{
			Field:   "task.max_steps",
			Value:   c.Task.MaxSteps,
			Message: "must be at least 1",
		})
	}

	if c.Task.MaxTokens < 1 {
		errs = append(errs, ValidationError{
			Field:   "task.max_tokens",
			Value:   c.Task.MaxTokens,
			Message: "must be at least 1",
		})
	}

	if c.Task.TimeoutSeconds < 1 {
		errs = append(errs, ValidationError{
			Field:   "task.timeout_seconds",
			Value:   c.Task.TimeoutSeconds,
			Message: "must be at least 1",
		})
	}

	if c.Task.AllowDeletion && !c.Task.AllowFileModification {
		errs = append(errs, ValidationError{
			Field:   "task.allow_deletion",
			Value:   c.Task.AllowDeletion,
			Message: "deletion requires allow_file_modification",
		})
	}

	return errs
}

func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError

	valid := false
	for _, l := range ValidLogLevels() {
		if c.Logging.Level == l {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errs
}

// validProtocols lists the collaboration protocols accepted in config.
func validProtocols() []string {
	return []string{
		"round_robin",
		"broadcast",
		"debate",
		"consensus",
		"voting",
		"leader_follower",
		"free_form",
	}
}

func validProtocol(p string) bool {
	for _, v := range validProtocols() {
		if p == v {
			return true
		}
	}
	return false
}
