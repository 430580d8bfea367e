package domain

// ErrorKind classifies a scoped error for the wire contract. Errors of any
// kind are delivered only to the connection that caused them, never broadcast.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation_error"
	KindNotJoined  ErrorKind = "not_joined"
)

// Error is a chat-level failure that maps onto a scoped error event.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

var (
	ErrUsernameLength  = &Error{KindValidation, "Username must be at least 2 characters"}
	ErrUsernameTooLong = &Error{KindValidation, "Username too long (max 30 characters)"}
	ErrAlreadyJoined   = &Error{KindValidation, "Already joined the chat"}
	ErrBadPayload      = &Error{KindValidation, "Invalid payload"}
	ErrEmptyMessage    = &Error{KindValidation, "Message cannot be empty"}
	ErrMessageTooLong  = &Error{KindValidation, "Message too long (max 500 characters)"}
	ErrNotJoined       = &Error{KindNotJoined, "Please join the chat first"}
)
