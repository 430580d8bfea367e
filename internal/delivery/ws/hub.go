package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aryawidjaja/global-chat/internal/chat"
	"github.com/aryawidjaja/global-chat/internal/domain"
)

// Hub owns the set of live connections and is the only component that fans
// events out to them. It composes the participant registry, the message
// ledger and the typing tracker, all injected at construction; no other code
// path writes to them.
type Hub struct {
	mu      sync.RWMutex
	log     *slog.Logger
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	registry *chat.Registry
	ledger   *chat.Ledger
	typing   *chat.Tracker
	backfill int
}

// NewHub wires the hub to its shared state. backfill is how many recent
// messages a joining connection receives.
func NewHub(log *slog.Logger, registry *chat.Registry, ledger *chat.Ledger, typing *chat.Tracker, backfill int) *Hub {
	if backfill <= 0 {
		backfill = domain.BackfillCount
	}
	return &Hub{
		log:        log,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		registry:   registry,
		ledger:     ledger,
		typing:     typing,
		backfill:   backfill,
	}
}

// Run serializes connection lifecycle transitions until the context is
// cancelled. Register adds an open connection; unregister is the single
// departure funnel for both explicit leaves and transport faults, so the
// leave announcement happens exactly once per participant. On return the
// done channel is closed so connection pumps still draining cannot block on
// a lifecycle channel nobody reads anymore.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.log.Debug("connection open", "conn_id", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; !ok {
				h.mu.Unlock()
				continue // already unregistered
			}
			delete(h.clients, client.ID)
			close(client.send)
			h.mu.Unlock()

			if p, ok := h.registry.Unregister(client.ID); ok {
				h.typing.Clear(p.Username)
				h.announceLeave(p)
				h.log.Info("participant left", "username", p.Username, "online", h.registry.Count())
			} else {
				h.log.Debug("connection closed before join", "conn_id", client.ID)
			}
		}
	}
}

// broadcast fans one encoded frame out to every live connection except the
// excluded one. Each send is independent and non-blocking: a client whose
// buffer is full simply misses the frame, and pruning dead connections is
// the transport's job, not the router's.
func (h *Hub) broadcast(data []byte, exclude string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.clients {
		if id == exclude {
			continue
		}
		select {
		case client.send <- data:
		default:
		}
	}
}

// broadcastEvent encodes and fans out one event.
func (h *Hub) broadcastEvent(t domain.EventType, payload any, exclude string) {
	data, err := domain.EncodeEvent(t, payload)
	if err != nil {
		h.log.Error("encode broadcast event", "type", t, "error", err)
		return
	}
	h.broadcast(data, exclude)
}
