package collab

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cadre-ai/cadre/internal/errors"
	"github.com/cadre-ai/cadre/internal/event"
	"github.com/cadre-ai/cadre/internal/logging"
)

// defaultMaxTurns bounds sessions whose caller did not set a limit.
const defaultMaxTurns = 12

// Session is a multi-participant collaboration. It exclusively owns its
// message log (append-only) and shared context (replaced wholesale on each
// update). All methods are safe for concurrent use; events are published
// outside the session lock, after the state change they report.
type Session struct {
	mu           sync.Mutex
	id           string
	name         string
	goal         string
	protocol     Protocol
	participants []*Participant
	status       Status
	shared       SharedContext
	messages     []Message
	currentTurn  int
	maxTurns     int
	createdAt    time.Time

	bus *event.Bus
	log *logging.Logger
}

// NewSession creates a session in the Created status. The participant list
// must be non-empty; a debate session must hold exactly two participants
// (use Debate, which enforces this at construction). Turn order indices are
// assigned from the list order.
func NewSession(name, goal string, protocol Protocol, participants []*Participant, maxTurns int, bus *event.Bus, log *logging.Logger) (*Session, error) {
	if !protocol.IsValid() {
		return nil, fmt.Errorf("unknown protocol %q", protocol)
	}
	if len(participants) == 0 {
		return nil, errors.ErrNoParticipants
	}
	if protocol == ProtocolDebate && len(participants) != 2 {
		return nil, fmt.Errorf("%w: debate requires exactly 2 participants, got %d",
			errors.ErrProtocolViolation, len(participants))
	}
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	if bus == nil {
		bus = event.NewBus()
	}
	if log == nil {
		log = logging.NopLogger()
	}

	seen := make(map[string]int, len(participants))
	for i, p := range participants {
		p.TurnOrder = i
		// Duplicate roles get distinct IDs so message attribution stays
		// unambiguous.
		seen[p.ID]++
		if n := seen[p.ID]; n > 1 {
			p.ID = fmt.Sprintf("%s-%d", p.ID, n)
		}
	}

	s := &Session{
		id:           uuid.NewString(),
		name:         name,
		goal:         goal,
		protocol:     protocol,
		participants: participants,
		status:       StatusCreated,
		shared:       NewSharedContext(),
		maxTurns:     maxTurns,
		createdAt:    time.Now(),
		bus:          bus,
	}
	s.log = log.WithSession(s.id)

	bus.Publish(event.NewSessionCreatedEvent(s.id, name, protocol.String(), len(participants)))
	s.log.Info("session created", "protocol", protocol.String(), "participants", len(participants))
	return s, nil
}

// Debate creates a two-participant debate session. The two-participant
// invariant is enforced here, at construction.
func Debate(name, goal string, a, b *Participant, maxTurns int, bus *event.Bus, log *logging.Logger) (*Session, error) {
	return NewSession(name, goal, ProtocolDebate, []*Participant{a, b}, maxTurns, bus, log)
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Name returns the session name.
func (s *Session) Name() string { return s.name }

// Goal returns the session goal.
func (s *Session) Goal() string { return s.goal }

// Protocol returns the session protocol.
func (s *Session) Protocol() Protocol { return s.protocol }

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// MaxTurns returns the turn limit.
func (s *Session) MaxTurns() int { return s.maxTurns }

// Status returns the current session status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentTurn returns the turn counter. It increases monotonically and is
// never reset.
func (s *Session) CurrentTurn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTurn
}

// HasReachedMaxTurns returns true once the turn counter reaches the limit.
// Drivers must check this after each advance.
func (s *Session) HasReachedMaxTurns() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTurn >= s.maxTurns
}

// CurrentParticipant returns a copy of the active participant:
// participants[currentTurn mod len(participants)].
func (s *Session) CurrentParticipant() Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.participants[s.currentTurn%len(s.participants)]
}

// Participants returns copies of all participants in turn order.
func (s *Session) Participants() []Participant {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Participant, len(s.participants))
	for i, p := range s.participants {
		out[i] = *p
	}
	return out
}

// Messages returns a copy of the message log in post order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Context returns the current shared context snapshot. The snapshot stays
// valid after later updates.
func (s *Session) Context() SharedContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shared
}

// UpdateContext replaces the shared context with fn(current). The previous
// context value is discarded; snapshots held by callers are unaffected.
func (s *Session) UpdateContext(fn func(SharedContext) SharedContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shared = fn(s.shared)
}

// AdvanceTurn increments the turn counter and returns its new value. The
// counter is unbounded; cycling over the participant list is done modulo its
// size. Advancing a terminal session is an error.
func (s *Session) AdvanceTurn() (int, error) {
	s.mu.Lock()
	if s.status.IsTerminal() {
		s.mu.Unlock()
		return 0, errors.ErrSessionClosed
	}
	s.currentTurn++
	turn := s.currentTurn
	active := s.participants[turn%len(s.participants)].Role
	s.mu.Unlock()

	s.bus.Publish(event.NewTurnAdvancedEvent(s.id, turn, active.String()))
	return turn, nil
}

// PostMessage appends a message to the log, assigning the session ID and
// filling any missing ID or timestamp. Posting to a terminal session is an
// error. The sending participant's message count is incremented and its
// status moves to Responded.
func (s *Session) PostMessage(msg Message) (Message, error) {
	s.mu.Lock()
	if s.status.IsTerminal() {
		s.mu.Unlock()
		return Message{}, errors.ErrSessionClosed
	}

	msg.SessionID = s.id
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.messages = append(s.messages, msg)

	for _, p := range s.participants {
		if p.ID == msg.SenderID {
			p.MessageCount++
			p.Status = ParticipantResponded
			break
		}
	}
	s.mu.Unlock()

	s.bus.Publish(event.NewMessagePostedEvent(s.id, msg.ID, msg.SenderRole.String(), string(msg.Type)))
	return msg, nil
}

// SetParticipantStatus updates one participant's status. Unknown
// participant IDs are an error.
func (s *Session) SetParticipantStatus(participantID string, status ParticipantStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.participants {
		if p.ID == participantID {
			p.Status = status
			return nil
		}
	}
	return fmt.Errorf("unknown participant %q", participantID)
}

// Start moves the session from Created to Active.
func (s *Session) Start() error { return s.transition(StatusActive) }

// Pause suspends an active session.
func (s *Session) Pause() error { return s.transition(StatusPaused) }

// WaitForUser suspends an active session pending user input.
func (s *Session) WaitForUser() error { return s.transition(StatusWaitingForUser) }

// Resume reactivates a paused or waiting session.
func (s *Session) Resume() error { return s.transition(StatusActive) }

// ReachConsensus terminates the session with a consensus decision.
func (s *Session) ReachConsensus() error { return s.transition(StatusConsensusReached) }

// Complete terminates the session normally.
func (s *Session) Complete() error { return s.transition(StatusCompleted) }

// Cancel terminates the session by explicit cancellation.
func (s *Session) Cancel() error { return s.transition(StatusCancelled) }

// Fail terminates the session on an error.
func (s *Session) Fail() error { return s.transition(StatusFailed) }

// transition applies a guarded status change and publishes
// session.status_changed after the state is updated.
func (s *Session) transition(to Status) error {
	s.mu.Lock()
	from := s.status
	if !canTransition(from, to) {
		s.mu.Unlock()
		return fmt.Errorf("%w: session %s -> %s", errors.ErrInvalidTransition, from, to)
	}
	s.status = to
	s.mu.Unlock()

	s.bus.Publish(event.NewSessionStatusChangedEvent(s.id, from.String(), to.String()))
	s.log.Info("session status changed", "from", from.String(), "to", to.String())
	return nil
}
