package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cadre-ai/cadre/internal/config"
	"github.com/cadre-ai/cadre/internal/event"
	"github.com/cadre-ai/cadre/internal/logging"
	"github.com/cadre-ai/cadre/internal/model"
	"github.com/cadre-ai/cadre/internal/role"
	"github.com/cadre-ai/cadre/internal/specialist"
	"github.com/cadre-ai/cadre/internal/workspace"
)

// runtime bundles the wired collaborators every command needs.
type runtime struct {
	cfg    *config.Config
	bus    *event.Bus
	log    *logging.Logger
	engine *specialist.Engine
}

// newRuntime wires a specialist engine from the loaded config. Scripted
// responses, if any, are replayed in order before the client falls back to
// echoing prompts.
func newRuntime(responses []string) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	client, err := newClient(cfg, responses)
	if err != nil {
		return nil, err
	}

	bus := event.NewBus()
	engine := specialist.NewEngine(role.Builtin(), client, bus, log)

	return &runtime{cfg: cfg, bus: bus, log: log, engine: engine}, nil
}

func (r *runtime) close() {
	if r.log != nil {
		_ = r.log.Close()
	}
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLogger("", cfg.Logging.Level)
}

func newClient(cfg *config.Config, responses []string) (model.Client, error) {
	switch cfg.Model.Provider {
	case "scripted":
		return model.NewScripted(responses...), nil
	case "api":
		// The API transport lives in the host editor; the standalone CLI
		// only supports dry runs.
		return nil, fmt.Errorf("provider %q requires an editor host; use provider \"scripted\"", cfg.Model.Provider)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}

// workspaceContext resolves the context string for a request. An explicit
// context wins; otherwise the flag-provided editor state is rendered
// through a static snapshot provider, the same path a live editor host
// takes.
func workspaceContext(ctx context.Context, explicit, file, selection, symbol string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	provider := workspace.Static{Snap: workspace.Snapshot{
		ActiveFile: file,
		Selection:  selection,
		Symbol:     symbol,
	}}
	snap, err := provider.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return snap.ContextString(), nil
}

// sessionsDir returns the directory session snapshots are written to.
func sessionsDir(cfg *config.Config) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return filepath.Join(cfg.Paths.ResolveDataDir(cwd), "sessions"), nil
}

// parseRoles converts a comma-separated role list into validated roles.
func parseRoles(list string) ([]role.AgentRole, error) {
	parts := strings.Split(list, ",")
	roles := make([]role.AgentRole, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		r := role.AgentRole(p)
		if !r.IsValid() {
			return nil, fmt.Errorf("unknown role %q (valid: %s)", p, roleNames())
		}
		roles = append(roles, r)
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("no roles given")
	}
	return roles, nil
}

func roleNames() string {
	all := role.AllRoles()
	names := make([]string, len(all))
	for i, r := range all {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}
