package collab

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cadre-ai/cadre/internal/errors"
	"github.com/cadre-ai/cadre/internal/event"
	"github.com/cadre-ai/cadre/internal/logging"
)

// snapshot is the JSON form of a session. Bound specialist agents are not
// persisted; a loaded session carries participants without agents and must
// be re-bound before a Runner can drive it.
type snapshot struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Goal         string        `json:"goal"`
	Protocol     Protocol      `json:"protocol"`
	Status       Status        `json:"status"`
	Participants []Participant `json:"participants"`
	Messages     []Message     `json:"messages,omitempty"`
	Shared       SharedContext `json:"shared_context"`
	CurrentTurn  int           `json:"current_turn"`
	MaxTurns     int           `json:"max_turns"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Save writes the session to path as indented JSON, creating parent
// directories as needed.
func (s *Session) Save(path string) error {
	s.mu.Lock()
	snap := snapshot{
		ID:           s.id,
		Name:         s.name,
		Goal:         s.goal,
		Protocol:     s.protocol,
		Status:       s.status,
		Participants: make([]Participant, len(s.participants)),
		Messages:     append([]Message(nil), s.messages...),
		Shared:       s.shared,
		CurrentTurn:  s.currentTurn,
		MaxTurns:     s.maxTurns,
		CreatedAt:    s.createdAt,
	}
	for i, p := range s.participants {
		snap.Participants[i] = *p
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load reads a session previously written by Save. Participants come back
// without bound agents.
func Load(path string, bus *event.Bus, log *logging.Logger) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	// A snapshot must satisfy the same construction invariants NewSession
	// enforces; a session without participants cannot take a turn.
	if !snap.Protocol.IsValid() {
		return nil, fmt.Errorf("load session: unknown protocol %q", snap.Protocol)
	}
	if len(snap.Participants) == 0 {
		return nil, fmt.Errorf("load session: %w", errors.ErrNoParticipants)
	}
	if snap.Protocol == ProtocolDebate && len(snap.Participants) != 2 {
		return nil, fmt.Errorf("load session: %w: debate requires exactly 2 participants, got %d",
			errors.ErrProtocolViolation, len(snap.Participants))
	}
	if bus == nil {
		bus = event.NewBus()
	}
	if log == nil {
		log = logging.NopLogger()
	}

	s := &Session{
		id:          snap.ID,
		name:        snap.Name,
		goal:        snap.Goal,
		protocol:    snap.Protocol,
		status:      snap.Status,
		shared:      snap.Shared,
		messages:    snap.Messages,
		currentTurn: snap.CurrentTurn,
		maxTurns:    snap.MaxTurns,
		createdAt:   snap.CreatedAt,
		bus:         bus,
	}
	s.participants = make([]*Participant, len(snap.Participants))
	for i := range snap.Participants {
		p := snap.Participants[i]
		s.participants[i] = &p
	}
	s.log = log.WithSession(s.id)
	return s, nil
}
