package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageKind distinguishes participant text from server announcements.
type MessageKind string

const (
	KindUser   MessageKind = "user"
	KindSystem MessageKind = "system"
)

// Message is one ledger entry. Messages are immutable once admitted and the
// ledger never reorders them; insertion order is the delivery order.
type Message struct {
	ID        string      `json:"id"`
	Kind      MessageKind `json:"kind"`
	Text      string      `json:"text"`
	Author    string      `json:"author"`
	Country   string      `json:"country,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewUserMessage builds a user message from a sender. Text is assumed
// trimmed and validated by the caller.
func NewUserMessage(text string, from Participant) Message {
	return Message{
		ID:        uuid.NewString(),
		Kind:      KindUser,
		Text:      text,
		Author:    from.Username,
		Country:   from.Country,
		CreatedAt: time.Now(),
	}
}

// NewSystemMessage builds a server-generated announcement.
func NewSystemMessage(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Kind:      KindSystem,
		Text:      text,
		Author:    SystemAuthor,
		CreatedAt: time.Now(),
	}
}

// JoinAnnouncement is the system message text for a completed join.
func JoinAnnouncement(p Participant) string {
	return fmt.Sprintf("%s joined from %s", p.Username, p.Country)
}

// LeaveAnnouncement is the system message text for a departure.
func LeaveAnnouncement(p Participant) string {
	return fmt.Sprintf("%s left the chat", p.Username)
}
