// Package sessions provides conversation session persistence for Zenith.
package sessions

import (
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/zenithlabs/zenith/internal/chat"
)

// Status represents the lifecycle state of a session.
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Session holds metadata about one mentoring conversation.
type Session struct {
	ID           string            `json:"id"`
	Title        string            `json:"title,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Status       Status            `json:"status"`
	Model        string            `json:"model,omitempty"`
	MessageCount int               `json:"message_count"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Message is a single turn in a conversation, serializable to JSONL.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	Ts      time.Time `json:"ts"`
}

// ToSchemaMessage converts a stored message to an Eino schema.Message.
func (m Message) ToSchemaMessage() *schema.Message {
	return &schema.Message{
		Role:    schema.RoleType(m.Role),
		Content: m.Content,
	}
}

// ToChatMessage converts a stored message to the engine's transcript form.
func (m Message) ToChatMessage() chat.Message {
	return chat.Message{Role: m.Role, Content: m.Content}
}

// NewMessage creates a timestamped message.
func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content, Ts: time.Now()}
}

// Store defines the persistence interface for sessions.
type Store interface {
	Create() (*Session, error)
	Get(id string) (*Session, error)
	// List returns all sessions sorted by UpdatedAt descending.
	List() ([]*Session, error)
	UpdateMeta(s *Session) error
	Close(id string) error
	Delete(id string) error
	AppendMessage(sessionID string, msg Message) error
	LoadMessages(sessionID string) ([]Message, error)
}
