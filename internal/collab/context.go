package collab

import (
	"fmt"
	"sort"
	"strings"
)

// SharedContext is the accumulating record a session builds up across turns:
// named artifacts, established facts, recorded decisions, and open
// questions. It is a value type with copy-on-write semantics: every mutator
// returns a new context and never modifies the receiver, so a snapshot taken
// at any turn stays valid forever.
type SharedContext struct {
	// Artifacts maps unique artifact names to their content.
	Artifacts map[string]string `json:"artifacts,omitempty"`
	// Facts are established statements, in the order they were added.
	Facts []string `json:"facts,omitempty"`
	// Decisions are recorded outcomes, in the order they were made.
	Decisions []string `json:"decisions,omitempty"`
	// OpenQuestions are unresolved questions. Resolution removes the
	// question; everything else is append-only.
	OpenQuestions []string `json:"open_questions,omitempty"`
	// Metadata carries arbitrary key-value annotations.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewSharedContext creates an empty shared context.
func NewSharedContext() SharedContext {
	return SharedContext{}
}

// clone deep-copies the context so mutators never alias the receiver.
func (c SharedContext) clone() SharedContext {
	out := SharedContext{
		Facts:         append([]string(nil), c.Facts...),
		Decisions:     append([]string(nil), c.Decisions...),
		OpenQuestions: append([]string(nil), c.OpenQuestions...),
	}
	if c.Artifacts != nil {
		out.Artifacts = make(map[string]string, len(c.Artifacts))
		for k, v := range c.Artifacts {
			out.Artifacts[k] = v
		}
	}
	if c.Metadata != nil {
		out.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// WithArtifact returns a context with the named artifact set. An existing
// artifact with the same name is replaced.
func (c SharedContext) WithArtifact(name, content string) SharedContext {
	out := c.clone()
	if out.Artifacts == nil {
		out.Artifacts = make(map[string]string, 1)
	}
	out.Artifacts[name] = content
	return out
}

// WithFact returns a context with the fact appended.
func (c SharedContext) WithFact(fact string) SharedContext {
	out := c.clone()
	out.Facts = append(out.Facts, fact)
	return out
}

// WithDecision returns a context with the decision appended.
func (c SharedContext) WithDecision(decision string) SharedContext {
	out := c.clone()
	out.Decisions = append(out.Decisions, decision)
	return out
}

// WithOpenQuestion returns a context with the question appended.
func (c SharedContext) WithOpenQuestion(question string) SharedContext {
	out := c.clone()
	out.OpenQuestions = append(out.OpenQuestions, question)
	return out
}

// WithMetadata returns a context with the metadata key set.
func (c SharedContext) WithMetadata(key, value string) SharedContext {
	out := c.clone()
	if out.Metadata == nil {
		out.Metadata = make(map[string]string, 1)
	}
	out.Metadata[key] = value
	return out
}

// ResolveQuestion returns a context with the question removed. Resolving a
// question that is not open is a no-op, not an error.
func (c SharedContext) ResolveQuestion(question string) SharedContext {
	out := c.clone()
	for i, q := range out.OpenQuestions {
		if q == question {
			out.OpenQuestions = append(out.OpenQuestions[:i], out.OpenQuestions[i+1:]...)
			break
		}
	}
	return out
}

// Render formats the context as a prompt-ready text block. Artifact names
// are listed in sorted order for deterministic output; artifact bodies are
// omitted to keep prompts bounded.
func (c SharedContext) Render() string {
	var b strings.Builder
	if len(c.Facts) > 0 {
		b.WriteString("Facts:\n")
		for _, f := range c.Facts {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if len(c.Decisions) > 0 {
		b.WriteString("Decisions:\n")
		for _, d := range c.Decisions {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}
	if len(c.OpenQuestions) > 0 {
		b.WriteString("Open questions:\n")
		for _, q := range c.OpenQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	if len(c.Artifacts) > 0 {
		names := make([]string, 0, len(c.Artifacts))
		for name := range c.Artifacts {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("Artifacts:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	return b.String()
}
