package role

import "sort"

// Capability is an atomic permission governing what a specialist may request.
type Capability string

const (
	// CapReadCode permits reading source files.
	CapReadCode Capability = "read_code"

	// CapAnalyzeAST permits structural analysis of code.
	CapAnalyzeAST Capability = "analyze_ast"

	// CapReviewCode permits producing review feedback on changes.
	CapReviewCode Capability = "review_code"

	// CapDelegate permits handing work to another specialist role.
	CapDelegate Capability = "delegate"

	// CapWriteCode permits modifying existing files.
	CapWriteCode Capability = "write_code"

	// CapCreateFiles permits creating new files.
	CapCreateFiles Capability = "create_files"

	// CapDeleteFiles permits deleting files.
	CapDeleteFiles Capability = "delete_files"

	// CapRunCommands permits executing shell commands.
	CapRunCommands Capability = "run_commands"
)

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// modifying is the set of capabilities that can alter the workspace.
// It is disjoint from the read-only set by construction.
var modifying = map[Capability]bool{
	CapWriteCode:   true,
	CapCreateFiles: true,
	CapDeleteFiles: true,
	CapRunCommands: true,
}

// IsModifying returns true if the capability can alter the workspace.
func (c Capability) IsModifying() bool {
	return modifying[c]
}

// ModifyingCapabilities returns the capabilities that can alter the workspace.
func ModifyingCapabilities() []Capability {
	return []Capability{CapWriteCode, CapCreateFiles, CapDeleteFiles, CapRunCommands}
}

// ReadOnlyCapabilities returns the pure-analysis capabilities.
func ReadOnlyCapabilities() []Capability {
	return []Capability{CapReadCode, CapAnalyzeAST, CapReviewCode, CapDelegate}
}

// Set is an immutable-by-convention collection of capabilities. Construct
// with NewSet and derive new sets with Union; callers must not mutate a Set
// they did not create.
type Set map[Capability]bool

// NewSet creates a Set from the given capabilities.
func NewSet(caps ...Capability) Set {
	s := make(Set, len(caps))
	for _, c := range caps {
		s[c] = true
	}
	return s
}

// Has returns true if the set contains the capability.
func (s Set) Has(c Capability) bool {
	return s[c]
}

// CanModify returns true if the set intersects the modifying capabilities.
func (s Set) CanModify() bool {
	for c := range s {
		if c.IsModifying() {
			return true
		}
	}
	return false
}

// IsReadOnly returns true if the set has no modifying capability.
func (s Set) IsReadOnly() bool {
	return !s.CanModify()
}

// Union returns a new Set containing all capabilities of both sets.
// Neither input is modified.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for c := range s {
		out[c] = true
	}
	for c := range other {
		out[c] = true
	}
	return out
}

// List returns the capabilities in deterministic (lexical) order.
func (s Set) List() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
