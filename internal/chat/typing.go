package chat

import (
	"sync"
	"time"
)

// Tracker holds the ephemeral per-participant typing state. A true signal
// schedules an automatic revert after the quiet period; a newer signal from
// the same name cancels and replaces the pending timer, so at most one
// revert is ever scheduled per name.
//
// The tracker holds no message content and keeps no history.
type Tracker struct {
	mu       sync.Mutex
	quiet    time.Duration
	states   map[string]bool
	timers   map[string]*time.Timer
	gen      uint64            // monotonic, never reused
	pending  map[string]uint64 // generation of the armed timer, present only while one is pending
	onRevert func(name string) // invoked after an automatic revert, never under the lock
}

// NewTracker creates a tracker with the given quiet period. onRevert may be
// nil; when set, it is called each time a typing state expires on its own.
func NewTracker(quiet time.Duration, onRevert func(name string)) *Tracker {
	return &Tracker{
		quiet:    quiet,
		states:   make(map[string]bool),
		timers:   make(map[string]*time.Timer),
		pending:  make(map[string]uint64),
		onRevert: onRevert,
	}
}

// Set records a typing signal. True arms (or re-arms) the revert timer;
// false clears the state and cancels any pending revert.
func (t *Tracker) Set(name string, isTyping bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked(name)
	if !isTyping {
		delete(t.states, name)
		return
	}

	t.states[name] = true
	t.gen++
	gen := t.gen
	t.pending[name] = gen
	t.timers[name] = time.AfterFunc(t.quiet, func() {
		t.expire(name, gen)
	})
}

// IsTyping reports the current state for a name.
func (t *Tracker) IsTyping(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[name]
}

// Clear drops the state for a departed participant without firing onRevert.
func (t *Tracker) Clear(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked(name)
	delete(t.states, name)
}

// cancelLocked stops any pending timer and withdraws its generation, so a
// timer that already fired cannot act on the new state. Generations are
// drawn from a counter that never repeats, which keeps a late stale timer
// from ever matching a fresh arming; the per-name bookkeeping lives only as
// long as a revert is pending.
func (t *Tracker) cancelLocked(name string) {
	if timer, ok := t.timers[name]; ok {
		timer.Stop()
		delete(t.timers, name)
	}
	delete(t.pending, name)
}

func (t *Tracker) expire(name string, gen uint64) {
	t.mu.Lock()
	if t.pending[name] != gen || !t.states[name] {
		t.mu.Unlock()
		return
	}
	delete(t.states, name)
	delete(t.timers, name)
	delete(t.pending, name)
	cb := t.onRevert
	t.mu.Unlock()

	if cb != nil {
		cb(name)
	}
}
