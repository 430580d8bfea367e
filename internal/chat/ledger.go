package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aryawidjaja/global-chat/internal/domain"
)

// Ledger is a fixed-capacity, insertion-ordered buffer of broadcast messages,
// backed by a ring so appends stay O(1). When full, the oldest entry is
// evicted atomically with the append; the ledger never transiently exceeds
// its capacity.
//
// An optional age-based eviction composes with the size cap: when a TTL is
// configured, Run sweeps expired entries on a fixed interval rather than on
// every append, to bound sweep cost.
type Ledger struct {
	mu   sync.RWMutex
	data []domain.Message
	head int // next write position
	size int // current number of entries

	ttl      time.Duration // 0 disables age-based eviction
	interval time.Duration
}

// NewLedger creates a ledger with the given capacity. A non-zero ttl enables
// age-based eviction, performed by Run every interval.
func NewLedger(capacity int, ttl, interval time.Duration) *Ledger {
	if capacity <= 0 {
		capacity = domain.MaxHistorySize
	}
	if interval <= 0 {
		interval = domain.HistorySweepInterval
	}
	return &Ledger{
		data:     make([]domain.Message, capacity),
		ttl:      ttl,
		interval: interval,
	}
}

// Append admits a message, evicting the oldest entry first when full.
func (l *Ledger) Append(msg domain.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.data[l.head] = msg
	l.head = (l.head + 1) % len(l.data)
	if l.size < len(l.data) {
		l.size++
	}
}

// All returns every retained message in chronological order.
func (l *Ledger) All() []domain.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ordered()
}

// Recent returns the newest n messages in their original chronological
// order, for backfilling a newly joined participant.
func (l *Ledger) Recent(n int) []domain.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	all := l.ordered()
	if n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

// Len returns the number of retained messages.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// Run drives the periodic TTL sweep until the context is cancelled. It
// returns immediately when no TTL is configured.
func (l *Ledger) Run(ctx context.Context, log *slog.Logger) {
	if l.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if evicted := l.evictExpired(now); evicted > 0 {
				log.Debug("ledger sweep evicted messages", "count", evicted)
			}
		}
	}
}

// evictExpired drops entries older than the TTL and reports how many went.
func (l *Ledger) evictExpired(now time.Time) int {
	if l.ttl <= 0 {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for l.size > 0 {
		oldest := (l.head - l.size + len(l.data)) % len(l.data)
		if now.Sub(l.data[oldest].CreatedAt) <= l.ttl {
			break
		}
		l.data[oldest] = domain.Message{}
		l.size--
		evicted++
	}
	return evicted
}

// ordered copies the ring contents oldest-first. The result is never nil so
// an empty ledger still marshals as a JSON array. Caller must hold the lock.
func (l *Ledger) ordered() []domain.Message {
	out := make([]domain.Message, 0, l.size)
	start := (l.head - l.size + len(l.data)) % len(l.data)
	for i := 0; i < l.size; i++ {
		out = append(out, l.data[(start+i)%len(l.data)])
	}
	return out
}
