package collab

// Protocol is the turn and termination policy governing a session.
type Protocol string

const (
	// ProtocolRoundRobin cycles through participants one at a time.
	ProtocolRoundRobin Protocol = "round_robin"

	// ProtocolBroadcast invokes every participant within each turn.
	ProtocolBroadcast Protocol = "broadcast"

	// ProtocolDebate alternates exactly two participants.
	ProtocolDebate Protocol = "debate"

	// ProtocolConsensus proceeds round-robin but completes only when a
	// proposal's vote tally reaches a decision.
	ProtocolConsensus Protocol = "consensus"

	// ProtocolVoting is consensus with explicit per-turn votes and no
	// discussion requirement.
	ProtocolVoting Protocol = "voting"

	// ProtocolLeaderFollower lets the first participant steer each turn.
	ProtocolLeaderFollower Protocol = "leader_follower"

	// ProtocolFreeForm invokes whichever participant is ready.
	ProtocolFreeForm Protocol = "free_form"
)

// String returns the string representation of the protocol.
func (p Protocol) String() string {
	return string(p)
}

// IsValid returns true if this is a recognized protocol value.
func (p Protocol) IsValid() bool {
	switch p {
	case ProtocolRoundRobin, ProtocolBroadcast, ProtocolDebate,
		ProtocolConsensus, ProtocolVoting, ProtocolLeaderFollower, ProtocolFreeForm:
		return true
	default:
		return false
	}
}

// RequiresConsensus returns true if session completion is gated on a vote
// tally reaching a decision rather than on turn count alone.
func (p Protocol) RequiresConsensus() bool {
	return p == ProtocolConsensus || p == ProtocolVoting
}

// Status is the lifecycle state of a session.
type Status string

const (
	// StatusCreated means the session exists but has not started.
	StatusCreated Status = "created"

	// StatusActive means turns are being taken.
	StatusActive Status = "active"

	// StatusPaused means the session is suspended and can resume.
	StatusPaused Status = "paused"

	// StatusWaitingForUser means the session is suspended on user input.
	StatusWaitingForUser Status = "waiting_for_user"

	// StatusConsensusReached means a consensus protocol reached a decision.
	StatusConsensusReached Status = "consensus_reached"

	// StatusCompleted means the session finished normally.
	StatusCompleted Status = "completed"

	// StatusCancelled means the session was cancelled.
	StatusCancelled Status = "cancelled"

	// StatusFailed means the session terminated on an error.
	StatusFailed Status = "failed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if this status represents a final state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusConsensusReached, StatusCompleted, StatusCancelled, StatusFailed:
		return true
	default:
		return false
	}
}

// validTransitions maps each status to the statuses reachable from it.
var validTransitions = map[Status][]Status{
	StatusCreated: {StatusActive, StatusCancelled},
	StatusActive: {StatusPaused, StatusWaitingForUser, StatusConsensusReached,
		StatusCompleted, StatusCancelled, StatusFailed},
	StatusPaused:         {StatusActive, StatusCancelled, StatusFailed},
	StatusWaitingForUser: {StatusActive, StatusCancelled, StatusFailed},
}

// canTransition returns true if the status machine permits from -> to.
func canTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
