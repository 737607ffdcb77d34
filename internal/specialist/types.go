package specialist

import (
	"time"

	"github.com/cadre-ai/cadre/internal/role"
)

// HighConfidenceThreshold is the conventional boundary above which a
// response is considered high confidence.
const HighConfidenceThreshold = 0.8

// Agent is an immutable specialist configuration. Create agents with
// NewAgent or NewAgentWithOverrides; never mutate one after creation.
type Agent struct {
	// ID uniquely identifies the agent, derived from its role.
	ID string
	// Role is the specialist role this agent is bound to.
	Role role.AgentRole
	// SystemPrompt is the prompt establishing the agent's specialization.
	SystemPrompt string
	// Capabilities bounds what the agent may request.
	Capabilities role.Set
	// Temperature is the sampling temperature used for this agent's calls.
	Temperature float64
}

// NewAgent creates the default agent for a catalog definition.
func NewAgent(def role.Definition) *Agent {
	return &Agent{
		ID:           "agent-" + def.Role.String(),
		Role:         def.Role,
		SystemPrompt: def.SystemPrompt,
		Capabilities: def.Capabilities,
		Temperature:  def.Temperature,
	}
}

// Overrides customizes an ad hoc agent for a single invocation.
// Zero-valued fields keep the catalog default.
type Overrides struct {
	// SystemPrompt replaces the default prompt when non-empty.
	SystemPrompt string
	// ExtraCapabilities are added to the default capability set.
	ExtraCapabilities []role.Capability
	// Temperature replaces the default when non-nil.
	Temperature *float64
}

// NewAgentWithOverrides creates an ad hoc agent from a catalog definition
// with the given overrides applied.
func NewAgentWithOverrides(def role.Definition, ov Overrides) *Agent {
	a := NewAgent(def)
	if ov.SystemPrompt != "" {
		a.SystemPrompt = ov.SystemPrompt
	}
	if len(ov.ExtraCapabilities) > 0 {
		a.Capabilities = a.Capabilities.Union(role.NewSet(ov.ExtraCapabilities...))
	}
	if ov.Temperature != nil {
		a.Temperature = *ov.Temperature
	}
	return a
}

// CanModifyFiles returns true if the agent holds any modifying capability.
func (a *Agent) CanModifyFiles() bool {
	return a.Capabilities.CanModify()
}

// IsReadOnly returns true if the agent holds no modifying capability.
func (a *Agent) IsReadOnly() bool {
	return a.Capabilities.IsReadOnly()
}

// Request describes one specialist invocation.
type Request struct {
	// ID uniquely identifies the invocation.
	ID string
	// AgentID is the invoked agent's identifier.
	AgentID string
	// Role is the invoked role.
	Role role.AgentRole
	// Prompt is the caller's prompt.
	Prompt string
	// Context is an opaque editor/workspace context string, possibly empty.
	Context string
	// Files lists paths referenced by the request, possibly empty.
	Files []string
}

// ActionCategory classifies a suggested follow-up action.
type ActionCategory string

const (
	ActionRefactor ActionCategory = "refactor"
	ActionTest     ActionCategory = "test"
	ActionFix      ActionCategory = "fix"
	ActionDocument ActionCategory = "document"
	ActionReview   ActionCategory = "review"
)

// ActionPriority ranks the urgency of a suggested action.
type ActionPriority string

const (
	PriorityLow    ActionPriority = "low"
	PriorityMedium ActionPriority = "medium"
	PriorityHigh   ActionPriority = "high"
)

// SuggestedAction is a follow-up the specialist recommends.
type SuggestedAction struct {
	Text     string         // What to do
	Category ActionCategory // Kind of work
	Priority ActionPriority // Urgency
}

// ArtifactType classifies a response artifact.
type ArtifactType string

const (
	ArtifactCode     ArtifactType = "code"
	ArtifactDocument ArtifactType = "document"
	ArtifactDiff     ArtifactType = "diff"
)

// Artifact is a structured block extracted from a response, such as a
// fenced code block.
type Artifact struct {
	Type      ArtifactType // Kind of artifact
	Language  string       // Language tag of the fenced block, possibly empty
	Content   string       // Block content
	LineCount int          // Number of lines in Content
}

// Response is a specialist's answer to one invocation.
type Response struct {
	// RequestID ties the response to its invocation.
	RequestID string
	// AgentID identifies the responding agent.
	AgentID string
	// Role is the responding role.
	Role role.AgentRole
	// Content is the response text.
	Content string
	// Confidence is the specialist's self-reported confidence in [0,1].
	Confidence float64
	// DelegateTo suggests another role should continue the work;
	// empty means no delegation is suggested.
	DelegateTo role.AgentRole
	// Actions are suggested follow-ups extracted from the response.
	Actions []SuggestedAction
	// Artifacts are structured blocks extracted from the response.
	Artifacts []Artifact
	// TokensUsed is the token count of the invocation (reported or estimated).
	TokensUsed int
	// Timestamp is when the response was produced.
	Timestamp time.Time
}

// IsHighConfidence returns true if the confidence meets the conventional
// high-confidence threshold.
func (r Response) IsHighConfidence() bool {
	return r.Confidence >= HighConfidenceThreshold
}

// SuggestsDelegation returns true if the response names a delegation target.
func (r Response) SuggestsDelegation() bool {
	return r.DelegateTo != ""
}
