package domain

import "time"

// Participant is the joined identity associated with one live connection.
// It exists iff the connection is transport-open and has completed the join
// transition; an open connection that has not joined has no Participant.
type Participant struct {
	ConnID   string    `json:"-"`
	Username string    `json:"username"`
	Country  string    `json:"country"`
	JoinedAt time.Time `json:"joined_at"`
}

// NewParticipant builds a Participant for a connection. The username is
// assumed trimmed and validated by the caller; an empty country falls back
// to DefaultCountry.
func NewParticipant(connID, username, country string) Participant {
	if country == "" {
		country = DefaultCountry
	}
	return Participant{
		ConnID:   connID,
		Username: username,
		Country:  country,
		JoinedAt: time.Now(),
	}
}
