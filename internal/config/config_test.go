package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Verify default model config
	if cfg.Model.Provider != "scripted" {
		t.Errorf("Model.Provider = %q, want %q", cfg.Model.Provider, "scripted")
	}
	if cfg.Model.MaxContextTokens != 8192 {
		t.Errorf("Model.MaxContextTokens = %d, want 8192", cfg.Model.MaxContextTokens)
	}

	// Verify default review config
	if cfg.Review.MaxIterations != 3 {
		t.Errorf("Review.MaxIterations = %d, want 3", cfg.Review.MaxIterations)
	}

	// Verify default session config
	if cfg.Session.MaxTurns != 12 {
		t.Errorf("Session.MaxTurns = %d, want 12", cfg.Session.MaxTurns)
	}
	if cfg.Session.Protocol != "round_robin" {
		t.Errorf("Session.Protocol = %q, want %q", cfg.Session.Protocol, "round_robin")
	}

	// Verify default consensus config
	if cfg.Consensus.Threshold != 0.7 {
		t.Errorf("Consensus.Threshold = %v, want 0.7", cfg.Consensus.Threshold)
	}

	// Verify default task config
	if cfg.Task.MaxSteps != 20 {
		t.Errorf("Task.MaxSteps = %d, want 20", cfg.Task.MaxSteps)
	}
	if cfg.Task.MaxTokens != 50000 {
		t.Errorf("Task.MaxTokens = %d, want 50000", cfg.Task.MaxTokens)
	}
	if !cfg.Task.AllowFileModification {
		t.Error("Task.AllowFileModification should be true by default")
	}
	if cfg.Task.AllowDeletion {
		t.Error("Task.AllowDeletion should be false by default")
	}
	if !cfg.Task.RequireConfirmation {
		t.Error("Task.RequireConfirmation should be true by default")
	}

	// Verify default logging config
	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestDefaultValidates(t *testing.T) {
	if errs := Default().Validate(); len(errs) > 0 {
		t.Errorf("Default() config should validate cleanly, got %v", ValidationErrors(errs))
	}
}

func TestTaskConfigConstraints(t *testing.T) {
	cfg := Default()
	constraints := cfg.Task.Constraints()

	if constraints.MaxSteps != cfg.Task.MaxSteps {
		t.Errorf("Constraints().MaxSteps = %d, want %d", constraints.MaxSteps, cfg.Task.MaxSteps)
	}
	if constraints.AllowDeletion != cfg.Task.AllowDeletion {
		t.Errorf("Constraints().AllowDeletion = %v, want %v", constraints.AllowDeletion, cfg.Task.AllowDeletion)
	}
	if !constraints.RequireConfirmation {
		t.Error("Constraints().RequireConfirmation should carry through")
	}
}

func TestSetDefaultsAndLoad(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Session.MaxTurns != 12 {
		t.Errorf("Session.MaxTurns = %d, want 12", cfg.Session.MaxTurns)
	}
	if cfg.Consensus.Threshold != 0.7 {
		t.Errorf("Consensus.Threshold = %v, want 0.7", cfg.Consensus.Threshold)
	}
	if cfg.Task.MaxSteps != 20 {
		t.Errorf("Task.MaxSteps = %d, want 20", cfg.Task.MaxSteps)
	}
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()
	viper.Set("session.max_turns", 6)
	viper.Set("consensus.threshold", 1.0)
	viper.Set("task.require_confirmation", false)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Session.MaxTurns != 6 {
		t.Errorf("Session.MaxTurns = %d, want 6", cfg.Session.MaxTurns)
	}
	if cfg.Consensus.Threshold != 1.0 {
		t.Errorf("Consensus.Threshold = %v, want 1.0", cfg.Consensus.Threshold)
	}
	if cfg.Task.RequireConfirmation {
		t.Error("Task.RequireConfirmation override should stick")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()
	viper.Set("consensus.threshold", 1.5)

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a threshold above 1")
	}
}

func TestGetFallsBackToDefault(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()
	viper.Set("session.max_turns", -1)

	cfg := Get()
	if cfg.Session.MaxTurns != 12 {
		t.Errorf("Get() with invalid config should fall back to defaults, MaxTurns = %d", cfg.Session.MaxTurns)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("respects XDG_CONFIG_HOME", func(t *testing.T) {
		tmp := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmp)

		want := filepath.Join(tmp, "cadre")
		if got := ConfigDir(); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})

	t.Run("falls back to home config", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory available")
		}

		want := filepath.Join(home, ".config", "cadre")
		if got := ConfigDir(); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestConfigFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	want := filepath.Join(tmp, "cadre", "config.yaml")
	if got := ConfigFile(); got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
}

func TestResolveDataDir(t *testing.T) {
	base := "/work/project"

	tests := []struct {
		name    string
		dataDir string
		want    string
	}{
		{"empty defaults to .cadre", "", filepath.Join(base, ".cadre")},
		{"relative joins base", "state", filepath.Join(base, "state")},
		{"absolute stays", "/var/lib/cadre", "/var/lib/cadre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PathsConfig{DataDir: tt.dataDir}
			if got := p.ResolveDataDir(base); got != tt.want {
				t.Errorf("ResolveDataDir() = %q, want %q", got, tt.want)
			}
		})
	}
}
