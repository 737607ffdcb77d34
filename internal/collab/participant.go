package collab

import (
	"github.com/cadre-ai/cadre/internal/role"
	"github.com/cadre-ai/cadre/internal/specialist"
)

// ParticipantStatus is a participant's state within a session.
type ParticipantStatus string

const (
	// ParticipantReady means the participant can take a turn.
	ParticipantReady ParticipantStatus = "ready"

	// ParticipantThinking means an invocation is in flight.
	ParticipantThinking ParticipantStatus = "thinking"

	// ParticipantResponded means the participant finished its latest turn.
	ParticipantResponded ParticipantStatus = "responded"

	// ParticipantBlocked means the participant cannot proceed.
	ParticipantBlocked ParticipantStatus = "blocked"

	// ParticipantExited means the participant left the session.
	ParticipantExited ParticipantStatus = "exited"
)

// Participant is one member of a session. Participants are owned by their
// session; mutate them only through session methods.
type Participant struct {
	// ID uniquely identifies the participant within the session.
	ID string `json:"id"`
	// Role is the participant's specialist role.
	Role role.AgentRole `json:"role"`
	// Agent is the bound specialist, nil for human or external participants.
	Agent *specialist.Agent `json:"-"`
	// TurnOrder is the participant's index in the session's turn cycle.
	TurnOrder int `json:"turn_order"`
	// Status is the participant's current state.
	Status ParticipantStatus `json:"status"`
	// MessageCount is the number of messages this participant has posted.
	MessageCount int `json:"message_count"`
}

// NewParticipant creates a ready participant for a role. The ID is derived
// from the role; sessions with duplicate roles must assign distinct IDs.
func NewParticipant(r role.AgentRole, agent *specialist.Agent) *Participant {
	return &Participant{
		ID:     "participant-" + r.String(),
		Role:   r,
		Agent:  agent,
		Status: ParticipantReady,
	}
}
