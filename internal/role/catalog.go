package role

import (
	"fmt"
	"sort"
	"sync"
)

// Definition describes a role's default configuration: its system prompt,
// default capability set, and sampling temperature.
type Definition struct {
	Role         AgentRole // Role this definition belongs to
	Group        Group     // Primary or supporting
	SystemPrompt string    // Default system prompt for specialists of this role
	Capabilities Set       // Default capability set
	Temperature  float64   // Default sampling temperature
}

// ReadOnly returns true if the definition's capability set has no
// modifying capability.
func (d Definition) ReadOnly() bool {
	return d.Capabilities.IsReadOnly()
}

// Catalog is a write-once registry of role definitions. Definitions are
// registered during process init and the catalog is then frozen; lookups
// after freezing are lock-free reads of immutable data.
type Catalog struct {
	mu          sync.Mutex
	frozen      bool
	definitions map[AgentRole]Definition
}

// NewCatalog creates an empty, unfrozen catalog.
func NewCatalog() *Catalog {
	return &Catalog{definitions: make(map[AgentRole]Definition)}
}

// Register adds a definition to the catalog. It fails if the catalog is
// frozen or the role is already registered.
func (c *Catalog) Register(def Definition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return fmt.Errorf("catalog is frozen: cannot register role %s", def.Role)
	}
	if _, exists := c.definitions[def.Role]; exists {
		return fmt.Errorf("role %s already registered", def.Role)
	}
	c.definitions[def.Role] = def
	return nil
}

// Freeze marks the catalog immutable. Subsequent Register calls fail.
func (c *Catalog) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Lookup returns the definition for a role.
func (c *Catalog) Lookup(r AgentRole) (Definition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	def, ok := c.definitions[r]
	return def, ok
}

// Roles returns the registered roles in deterministic (lexical) order.
func (c *Catalog) Roles() []AgentRole {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]AgentRole, 0, len(c.definitions))
	for r := range c.definitions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Builtin constructs the catalog of built-in role definitions and freezes it.
// Call once during process init and pass the catalog by reference.
func Builtin() *Catalog {
	c := NewCatalog()
	for _, def := range builtinDefinitions() {
		// Registration of built-ins cannot collide; a failure here is a
		// programming error.
		if err := c.Register(def); err != nil {
			panic(err)
		}
	}
	c.Freeze()
	return c
}

// builtinDefinitions returns the default definition for every built-in role.
func builtinDefinitions() []Definition {
	return []Definition{
		{
			Role:  RoleArchitect,
			Group: GroupPrimary,
			SystemPrompt: "You are a software architect. Design system structure, " +
				"module boundaries, and interfaces. Explain trade-offs and record " +
				"decisions. You do not modify files.",
			Capabilities: NewSet(CapReadCode, CapAnalyzeAST, CapDelegate),
			Temperature:  0.4,
		},
		{
			Role:  RoleImplementer,
			Group: GroupPrimary,
			SystemPrompt: "You are an implementer. Write clear, idiomatic code that " +
				"satisfies the stated requirements. Prefer small, reviewable changes.",
			Capabilities: NewSet(CapReadCode, CapWriteCode, CapCreateFiles),
			Temperature:  0.2,
		},
		{
			Role:  RoleReviewer,
			Group: GroupPrimary,
			SystemPrompt: "You are a code reviewer. Critique correctness, clarity, and " +
				"maintainability. End every review with a line 'verdict: approve' or " +
				"'verdict: revise'. You do not modify files.",
			Capabilities: NewSet(CapReadCode, CapAnalyzeAST, CapReviewCode),
			Temperature:  0.3,
		},
		{
			Role:  RoleTester,
			Group: GroupPrimary,
			SystemPrompt: "You are a test engineer. Write focused tests that pin down " +
				"observable behavior, and run them to verify.",
			Capabilities: NewSet(CapReadCode, CapWriteCode, CapCreateFiles, CapRunCommands),
			Temperature:  0.2,
		},
		{
			Role:  RoleDebugger,
			Group: GroupSupporting,
			SystemPrompt: "You are a debugger. Reproduce the failure, isolate the root " +
				"cause, and apply the smallest fix that resolves it.",
			Capabilities: NewSet(CapReadCode, CapAnalyzeAST, CapWriteCode, CapRunCommands),
			Temperature:  0.1,
		},
		{
			Role:  RoleOptimizer,
			Group: GroupSupporting,
			SystemPrompt: "You are a performance engineer. Measure before changing, " +
				"optimize the dominant cost, and preserve behavior.",
			Capabilities: NewSet(CapReadCode, CapAnalyzeAST, CapWriteCode),
			Temperature:  0.2,
		},
		{
			Role:  RoleSecurity,
			Group: GroupSupporting,
			SystemPrompt: "You are a security auditor. Identify vulnerabilities, rank " +
				"them by severity, and describe concrete remediations. You do not " +
				"modify files.",
			Capabilities: NewSet(CapReadCode, CapAnalyzeAST, CapReviewCode),
			Temperature:  0.1,
		},
		{
			Role:  RoleGeneralist,
			Group: GroupSupporting,
			SystemPrompt: "You are a versatile software engineer. Handle the request " +
				"directly, or delegate to a specialist when one clearly fits better.",
			Capabilities: NewSet(CapReadCode, CapWriteCode, CapCreateFiles, CapDelegate),
			Temperature:  0.5,
		},
	}
}
