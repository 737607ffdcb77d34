package consensus

import (
	"sort"
	"sync"
	"time"

	"github.com/cadre-ai/cadre/internal/errors"
)

// DefaultThreshold is the approval fraction required for consensus when the
// caller does not specify a stricter or looser value.
const DefaultThreshold = 0.7

// Status is the decision state of a proposal.
type Status string

const (
	// StatusPending indicates not all expected participants have voted yet.
	StatusPending Status = "pending"

	// StatusAccepted indicates the approval threshold was met.
	StatusAccepted Status = "accepted"

	// StatusRejected indicates all expected votes are in and the threshold
	// was not met.
	StatusRejected Status = "rejected"

	// StatusWithdrawn indicates the proposal was explicitly withdrawn.
	// It is terminal and reachable only via Withdraw, never by tallying.
	StatusWithdrawn Status = "withdrawn"
)

// IsTerminal returns true if this status represents a final state.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}

// Vote is one participant's position on a proposal.
type Vote struct {
	ParticipantID string    // Voter identity
	Approve       bool      // true to approve, false to reject
	Reason        string    // Optional rationale
	Timestamp     time.Time // When the vote was recorded
}

// State tracks the votes on a single proposal. All methods are safe for
// concurrent use.
type State struct {
	mu         sync.Mutex
	proposalID string
	proposal   string
	votes      map[string]Vote // participantID -> vote, last write wins
	status     Status
}

// NewState creates a pending State for the given proposal.
func NewState(proposalID, proposal string) *State {
	return &State{
		proposalID: proposalID,
		proposal:   proposal,
		votes:      make(map[string]Vote),
		status:     StatusPending,
	}
}

// ProposalID returns the proposal identifier.
func (s *State) ProposalID() string { return s.proposalID }

// Proposal returns the proposal text.
func (s *State) Proposal() string { return s.proposal }

// Status returns the current decision status.
func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// RecordVote records a participant's vote. A second vote from the same
// participant overwrites the first. Voting on a proposal that already
// reached a terminal status is an error.
func (s *State) RecordVote(participantID string, approve bool, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusWithdrawn {
		return errors.ErrProposalWithdrawn
	}
	if s.status.IsTerminal() {
		return errors.ErrInvalidTransition
	}

	s.votes[participantID] = Vote{
		ParticipantID: participantID,
		Approve:       approve,
		Reason:        reason,
		Timestamp:     time.Now(),
	}
	return nil
}

// TotalVotes returns the number of participants that have voted.
func (s *State) TotalVotes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.votes)
}

// Approvals returns the number of approving votes.
func (s *State) Approvals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.approvalsLocked()
}

// Rejections returns the number of rejecting votes.
func (s *State) Rejections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.votes) - s.approvalsLocked()
}

func (s *State) approvalsLocked() int {
	n := 0
	for _, v := range s.votes {
		if v.Approve {
			n++
		}
	}
	return n
}

// ApprovalPercentage returns approvals divided by total votes, or 0 when no
// votes have been cast.
func (s *State) ApprovalPercentage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.approvalPercentageLocked()
}

func (s *State) approvalPercentageLocked() float64 {
	if len(s.votes) == 0 {
		return 0
	}
	return float64(s.approvalsLocked()) / float64(len(s.votes))
}

// HasConsensus returns true if the approval percentage meets the threshold.
func (s *State) HasConsensus(threshold float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.approvalPercentageLocked() >= threshold
}

// UpdateStatus re-derives the status from the current votes. It transitions
// out of Pending only when every expected participant has voted: Accepted if
// the approval percentage meets the threshold, Rejected otherwise. It is
// idempotent: calling it again with the same votes yields the same status.
// A withdrawn proposal stays withdrawn.
func (s *State) UpdateStatus(participantCount int, threshold float64) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusWithdrawn {
		return s.status
	}
	if len(s.votes) < participantCount {
		s.status = StatusPending
		return s.status
	}
	if s.approvalPercentageLocked() >= threshold {
		s.status = StatusAccepted
	} else {
		s.status = StatusRejected
	}
	return s.status
}

// Withdraw explicitly withdraws the proposal. Withdrawal is terminal; it
// cannot be reached by vote tallying and cannot be undone.
func (s *State) Withdraw() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusWithdrawn {
		return nil
	}
	if s.status.IsTerminal() {
		return errors.ErrInvalidTransition
	}
	s.status = StatusWithdrawn
	return nil
}

// Votes returns a copy of all votes, ordered by participant ID for
// deterministic iteration.
func (s *State) Votes() []Vote {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Vote, 0, len(s.votes))
	for _, v := range s.votes {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParticipantID < out[j].ParticipantID })
	return out
}
