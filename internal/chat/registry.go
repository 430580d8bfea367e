package chat

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/aryawidjaja/global-chat/internal/domain"
)

// Registry is the source of truth for presence. It maps live connection IDs
// to joined participants; a connection that has not joined has no entry.
type Registry struct {
	mu           sync.RWMutex
	participants map[string]domain.Participant
}

// NewRegistry creates an empty participant registry.
func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[string]domain.Participant),
	}
}

// Register validates the display name and inserts a participant for the
// connection. Duplicate display names are permitted; re-registering an
// already-joined connection is the caller's bug and is rejected.
func (r *Registry) Register(connID, username, country string) (domain.Participant, error) {
	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < domain.MinUsernameLen {
		return domain.Participant{}, domain.ErrUsernameLength
	}
	if utf8.RuneCountInString(username) > domain.MaxUsernameLen {
		return domain.Participant{}, domain.ErrUsernameTooLong
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.participants[connID]; exists {
		return domain.Participant{}, domain.ErrAlreadyJoined
	}

	p := domain.NewParticipant(connID, username, country)
	r.participants[connID] = p
	return p, nil
}

// Unregister removes and returns the participant for a connection.
// Unknown connections are a no-op and report false.
func (r *Registry) Unregister(connID string) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[connID]
	if !ok {
		return domain.Participant{}, false
	}
	delete(r.participants, connID)
	return p, true
}

// Get returns the participant for a connection, if it has joined.
func (r *Registry) Get(connID string) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[connID]
	return p, ok
}

// Snapshot returns the current presence count and roster, computed at the
// instant of the call. The roster is ordered by join time so every observer
// sees the same sequence.
func (r *Registry) Snapshot() (int, []domain.Participant) {
	r.mu.RLock()
	roster := lo.Values(r.participants)
	r.mu.RUnlock()

	sort.Slice(roster, func(i, j int) bool {
		if roster[i].JoinedAt.Equal(roster[j].JoinedAt) {
			return roster[i].Username < roster[j].Username
		}
		return roster[i].JoinedAt.Before(roster[j].JoinedAt)
	})
	return len(roster), roster
}

// Count returns the number of joined participants.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}
