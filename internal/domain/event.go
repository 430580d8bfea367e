package domain

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// EventType names an event on the wire, in either direction.
type EventType string

const (
	// Inbound (connection -> core)
	EventJoin   EventType = "join"
	EventSend   EventType = "send"
	EventTyping EventType = "typing"
	EventLeave  EventType = "leave"

	// Outbound (core -> one or all connections)
	EventHistory     EventType = "history"
	EventOnlineCount EventType = "online_count"
	EventOnlineUsers EventType = "online_users"
	EventMessage     EventType = "message"
	EventError       EventType = "error"
)

// Event is the envelope carried on every WebSocket frame.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EncodeEvent marshals a payload into an enveloped frame.
func EncodeEvent(t EventType, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Type: t, Payload: raw})
}

var validate = validator.New()

// JoinRequest is the payload of an inbound join event.
type JoinRequest struct {
	Username string `json:"username" validate:"required,min=2,max=30"`
	Country  string `json:"country"`
}

// Validate trims the username and checks the length bounds.
func (r *JoinRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Country = strings.TrimSpace(r.Country)
	if utf8.RuneCountInString(r.Username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	if err := validate.Struct(r); err != nil {
		return ErrUsernameLength
	}
	return nil
}

// SendRequest is the payload of an inbound send event.
type SendRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// Validate trims the text and checks the 1..500 rune bounds.
func (r *SendRequest) Validate() error {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		return ErrEmptyMessage
	}
	if err := validate.Struct(r); err != nil {
		return ErrMessageTooLong
	}
	return nil
}

// TypingRequest is the payload of an inbound typing event.
type TypingRequest struct {
	IsTyping bool `json:"is_typing"`
}

// CountPayload is the outbound presence count.
type CountPayload struct {
	Count int `json:"count"`
}

// TypingSignal is the outbound typing indicator, fanned out to every
// connection except the originator.
type TypingSignal struct {
	Username string `json:"username"`
	IsTyping bool   `json:"is_typing"`
}

// ErrorPayload is the outbound scoped error.
type ErrorPayload struct {
	Kind   ErrorKind `json:"kind"`
	Detail string    `json:"detail"`
}
