// Package workspace defines the read-only editor context provider. The host
// editor supplies snapshots of the active file, selection, and symbol; the
// orchestration core consumes them as opaque context strings attached to
// specialist requests.
package workspace

import (
	"context"
	"fmt"
	"strings"
)

// Snapshot is a read-only view of the editor state at one moment.
type Snapshot struct {
	// ActiveFile is the path of the file focused in the editor.
	ActiveFile string
	// Selection is the currently selected text, possibly empty.
	Selection string
	// Symbol is the symbol under the cursor, possibly empty.
	Symbol string
}

// ContextString renders the snapshot as the opaque context string attached
// to specialist requests. Empty fields are omitted; an empty snapshot
// renders as the empty string.
func (s Snapshot) ContextString() string {
	var parts []string
	if s.ActiveFile != "" {
		parts = append(parts, fmt.Sprintf("Active file: %s", s.ActiveFile))
	}
	if s.Symbol != "" {
		parts = append(parts, fmt.Sprintf("Symbol: %s", s.Symbol))
	}
	if s.Selection != "" {
		parts = append(parts, fmt.Sprintf("Selection:\n%s", s.Selection))
	}
	return strings.Join(parts, "\n")
}

// Provider supplies editor snapshots.
type Provider interface {
	// Snapshot returns the current editor state.
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Static is a Provider that always returns a fixed snapshot. Used by tests
// and the CLI, where no live editor is attached.
type Static struct {
	Snap Snapshot
}

// Snapshot returns the fixed snapshot.
func (s Static) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return s.Snap, nil
}
