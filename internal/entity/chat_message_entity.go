package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatScope is the breadth of documents a question is asked against.
type ChatScope string

const (
	ChatScopeFile   ChatScope = "file"
	ChatScopeFolder ChatScope = "folder"
	ChatScopeEntire ChatScope = "entire"
)

type ChatMessage struct {
	Id        uuid.UUID  `json:"id"`
	Role      ChatRole   `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	Citations []Citation `json:"citations,omitempty"`
}

// Clone returns a copy that does not share the citation slice.
func (m ChatMessage) Clone() ChatMessage {
	if m.Citations != nil {
		m.Citations = append([]Citation(nil), m.Citations...)
	}
	return m
}
