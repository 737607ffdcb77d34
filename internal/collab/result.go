package collab

import (
	"time"

	"github.com/cadre-ai/cadre/internal/role"
)

// Result is the aggregate outcome handed back when a session terminates.
type Result struct {
	// SessionID identifies the session.
	SessionID string `json:"session_id"`
	// Name is the session name.
	Name string `json:"name"`
	// Status is the session status at computation time.
	Status Status `json:"status"`
	// Turns is the final value of the turn counter.
	Turns int `json:"turns"`
	// TotalMessages is the length of the message log.
	TotalMessages int `json:"total_messages"`
	// Decisions are the decisions accumulated in the shared context.
	Decisions []string `json:"decisions,omitempty"`
	// Artifacts are the artifacts accumulated in the shared context.
	Artifacts map[string]string `json:"artifacts,omitempty"`
	// MessagesByRole counts posted messages per participant role.
	MessagesByRole map[role.AgentRole]int `json:"messages_by_role,omitempty"`
	// MostActive is the role with the highest contribution count. Ties
	// go to the participant seen first in turn order.
	MostActive role.AgentRole `json:"most_active,omitempty"`
	// Duration is the elapsed time since session creation.
	Duration time.Duration `json:"duration"`
}

// Result computes the aggregate outcome from the session's current state.
// It is normally called once, at termination, but is safe at any point.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	byRole := make(map[role.AgentRole]int, len(s.participants))
	var mostActive role.AgentRole
	best := -1
	for _, p := range s.participants {
		byRole[p.Role] += p.MessageCount
		if p.MessageCount > best {
			best = p.MessageCount
			mostActive = p.Role
		}
	}

	artifacts := make(map[string]string, len(s.shared.Artifacts))
	for k, v := range s.shared.Artifacts {
		artifacts[k] = v
	}

	return Result{
		SessionID:      s.id,
		Name:           s.name,
		Status:         s.status,
		Turns:          s.currentTurn,
		TotalMessages:  len(s.messages),
		Decisions:      append([]string(nil), s.shared.Decisions...),
		Artifacts:      artifacts,
		MessagesByRole: byRole,
		MostActive:     mostActive,
		Duration:       time.Since(s.createdAt),
	}
}
