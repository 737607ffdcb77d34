package collab

import (
	"time"

	"github.com/google/uuid"

	"github.com/cadre-ai/cadre/internal/role"
)

// MessageType classifies a collaboration message.
type MessageType string

const (
	MessageContribution      MessageType = "contribution"
	MessageQuestion          MessageType = "question"
	MessageAnswer            MessageType = "answer"
	MessageProposal          MessageType = "proposal"
	MessageVote              MessageType = "vote"
	MessageCritique          MessageType = "critique"
	MessageAgreement         MessageType = "agreement"
	MessageDelegationRequest MessageType = "delegation_request"
	MessageSummary           MessageType = "summary"
	MessageDecision          MessageType = "decision"
	MessageSystem            MessageType = "system"
)

// Message is one entry in a session's append-only message log.
type Message struct {
	// ID uniquely identifies the message.
	ID string `json:"id"`
	// SessionID identifies the owning session.
	SessionID string `json:"session_id"`
	// SenderID identifies the sending participant. System messages use
	// the sentinel sender "system".
	SenderID string `json:"sender_id"`
	// SenderRole is the sender's specialist role.
	SenderRole role.AgentRole `json:"sender_role"`
	// Type classifies the message.
	Type MessageType `json:"type"`
	// Content is the message body.
	Content string `json:"content"`
	// ReplyTo is the ID of the message this one replies to, if any.
	ReplyTo string `json:"reply_to,omitempty"`
	// Mentions lists roles the message explicitly addresses.
	Mentions []role.AgentRole `json:"mentions,omitempty"`
	// Attachments lists artifact names carried by the message.
	Attachments []string `json:"attachments,omitempty"`
	// Metadata carries arbitrary key-value annotations.
	Metadata map[string]string `json:"metadata,omitempty"`
	// Timestamp is when the message was posted.
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a fresh ID and the current time.
// SessionID is assigned when the message is posted to a session.
func NewMessage(senderID string, senderRole role.AgentRole, typ MessageType, content string) Message {
	return Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		SenderRole: senderRole,
		Type:       typ,
		Content:    content,
		Timestamp:  time.Now(),
	}
}

// IsReply returns true if the message replies to another message.
func (m Message) IsReply() bool {
	return m.ReplyTo != ""
}
