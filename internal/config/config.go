package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/cadre-ai/cadre/internal/task"
)

// Config represents the complete cadre configuration
type Config struct {
	Model     ModelConfig     `mapstructure:"model"`
	Review    ReviewConfig    `mapstructure:"review"`
	Session   SessionConfig   `mapstructure:"session"`
	Consensus ConsensusConfig `mapstructure:"consensus"`
	Task      TaskConfig      `mapstructure:"task"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Paths     PathsConfig     `mapstructure:"paths"`
}

// ModelConfig controls the model client backing specialist invocations
type ModelConfig struct {
	// Provider selects the model backend
	// Options: "scripted" (deterministic dry-run), "api"
	Provider string `mapstructure:"provider"`
	// Name is the model identifier passed to the provider
	Name string `mapstructure:"name"`
	// MaxContextTokens bounds how much context is sent per invocation
	MaxContextTokens int `mapstructure:"max_context_tokens"`
}

// ReviewConfig controls the implement/review loop
type ReviewConfig struct {
	// MaxIterations limits implement+review rounds; at least one round
	// always runs (default: 3)
	MaxIterations int `mapstructure:"max_iterations"`
}

// SessionConfig controls collaboration session behavior
type SessionConfig struct {
	// MaxTurns is the default turn limit for new sessions (default: 12)
	MaxTurns int `mapstructure:"max_turns"`
	// Protocol is the default collaboration protocol for new sessions
	Protocol string `mapstructure:"protocol"`
}

// ConsensusConfig controls vote tallying
type ConsensusConfig struct {
	// Threshold is the approval fraction required for consensus,
	// in (0, 1]; 1.0 means unanimous (default: 0.7)
	Threshold float64 `mapstructure:"threshold"`
}

// TaskConfig carries the default task constraints. Fields mirror
// task.Constraints so a config file can override any preset value.
type TaskConfig struct {
	MaxSteps              int  `mapstructure:"max_steps"`
	MaxTokens             int  `mapstructure:"max_tokens"`
	AllowFileModification bool `mapstructure:"allow_file_modification"`
	AllowNewFiles         bool `mapstructure:"allow_new_files"`
	AllowDeletion         bool `mapstructure:"allow_deletion"`
	AllowCommands         bool `mapstructure:"allow_commands"`
	RequireConfirmation   bool `mapstructure:"require_confirmation"`
	TimeoutSeconds        int  `mapstructure:"timeout_seconds"`
}

// Constraints converts the config section into task constraints.
func (t TaskConfig) Constraints() task.Constraints {
	return task.Constraints{
		MaxSteps:              t.MaxSteps,
		MaxTokens:             t.MaxTokens,
		AllowFileModification: t.AllowFileModification,
		AllowNewFiles:         t.AllowNewFiles,
		AllowDeletion:         t.AllowDeletion,
		AllowCommands:         t.AllowCommands,
		RequireConfirmation:   t.RequireConfirmation,
		TimeoutSeconds:        t.TimeoutSeconds,
	}
}

// LoggingConfig controls structured logging behavior
type LoggingConfig struct {
	// Enabled controls whether logs are written (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
}

// PathsConfig controls where cadre stores data
type PathsConfig struct {
	// DataDir is where sessions and logs are written.
	// If empty, defaults to ".cadre" relative to the working directory.
	DataDir string `mapstructure:"data_dir"`
}

// ResolveDataDir returns the resolved data directory path. An empty
// DataDir resolves to ".cadre" under baseDir; a relative path is resolved
// relative to baseDir.
func (p *PathsConfig) ResolveDataDir(baseDir string) string {
	if p.DataDir == "" {
		return filepath.Join(baseDir, ".cadre")
	}
	if !filepath.IsAbs(p.DataDir) {
		return filepath.Join(baseDir, p.DataDir)
	}
	return p.DataDir
}

// Default returns a Config with sensible default values
func Default() *Config {
	defaults := task.DefaultConstraints()
	return &Config{
		Model: ModelConfig{
			Provider:         "scripted",
			Name:             "",
			MaxContextTokens: 8192,
		},
		Review: ReviewConfig{
			MaxIterations: 3,
		},
		Session: SessionConfig{
			MaxTurns: 12,
			Protocol: "round_robin",
		},
		Consensus: ConsensusConfig{
			Threshold: 0.7,
		},
		Task: TaskConfig{
			MaxSteps:              defaults.MaxSteps,
			MaxTokens:             defaults.MaxTokens,
			AllowFileModification: defaults.AllowFileModification,
			AllowNewFiles:         defaults.AllowNewFiles,
			AllowDeletion:         defaults.AllowDeletion,
			AllowCommands:         defaults.AllowCommands,
			RequireConfirmation:   defaults.RequireConfirmation,
			TimeoutSeconds:        defaults.TimeoutSeconds,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
		Paths: PathsConfig{
			DataDir: "",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Model defaults
	viper.SetDefault("model.provider", defaults.Model.Provider)
	viper.SetDefault("model.name", defaults.Model.Name)
	viper.SetDefault("model.max_context_tokens", defaults.Model.MaxContextTokens)

	// Review defaults
	viper.SetDefault("review.max_iterations", defaults.Review.MaxIterations)

	// Session defaults
	viper.SetDefault("session.max_turns", defaults.Session.MaxTurns)
	viper.SetDefault("session.protocol", defaults.Session.Protocol)

	// Consensus defaults
	viper.SetDefault("consensus.threshold", defaults.Consensus.Threshold)

	// Task defaults
	viper.SetDefault("task.max_steps", defaults.Task.MaxSteps)
	viper.SetDefault("task.max_tokens", defaults.Task.MaxTokens)
	viper.SetDefault("task.allow_file_modification", defaults.Task.AllowFileModification)
	viper.SetDefault("task.allow_new_files", defaults.Task.AllowNewFiles)
	viper.SetDefault("task.allow_deletion", defaults.Task.AllowDeletion)
	viper.SetDefault("task.allow_commands", defaults.Task.AllowCommands)
	viper.SetDefault("task.require_confirmation", defaults.Task.RequireConfirmation)
	viper.SetDefault("task.timeout_seconds", defaults.Task.TimeoutSeconds)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)

	// Paths defaults
	viper.SetDefault("paths.data_dir", defaults.Paths.DataDir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if the config cannot be loaded or validated
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cadre")
	}
	// Fall back to ~/.config/cadre
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cadre"
	}
	return filepath.Join(home, ".config", "cadre")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidProviders returns the list of valid model provider values
func ValidProviders() []string {
	return []string{"scripted", "api"}
}
