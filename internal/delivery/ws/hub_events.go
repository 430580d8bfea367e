package ws

import (
	"encoding/json"
	"errors"

	"github.com/aryawidjaja/global-chat/internal/domain"
)

// Join drives the Open -> Joined transition for one connection: validate the
// request, register the participant, deliver the history backfill and the
// current presence snapshot to the joining connection alone, then announce
// the join to everyone. Validation failures produce a scoped error and leave
// the connection in Open.
func (h *Hub) Join(c *Client, raw json.RawMessage) {
	var req domain.JoinRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(c, domain.ErrBadPayload)
		return
	}
	if err := req.Validate(); err != nil {
		h.sendError(c, err)
		return
	}

	p, err := h.registry.Register(c.ID, req.Username, req.Country)
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.sendEvent(c, domain.EventHistory, h.ledger.Recent(h.backfill))
	count, roster := h.registry.Snapshot()
	h.sendEvent(c, domain.EventOnlineCount, domain.CountPayload{Count: count})
	h.sendEvent(c, domain.EventOnlineUsers, roster)

	h.announceJoin(p)
	h.log.Info("participant joined", "username", p.Username, "country", p.Country, "online", count)
}

// AdmitMessage validates and broadcasts a user message. A send from a
// connection that has not joined never reaches the ledger.
func (h *Hub) AdmitMessage(c *Client, raw json.RawMessage) {
	p, ok := h.registry.Get(c.ID)
	if !ok {
		h.sendError(c, domain.ErrNotJoined)
		return
	}

	var req domain.SendRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(c, domain.ErrBadPayload)
		return
	}
	if err := req.Validate(); err != nil {
		h.sendError(c, err)
		return
	}

	msg := domain.NewUserMessage(req.Text, p)
	h.ledger.Append(msg)
	h.broadcastEvent(domain.EventMessage, msg, "")
}

// RelayTyping updates the typing tracker and relays the signal to every
// connection except the originating one.
func (h *Hub) RelayTyping(c *Client, raw json.RawMessage) {
	p, ok := h.registry.Get(c.ID)
	if !ok {
		h.sendError(c, domain.ErrNotJoined)
		return
	}

	var req domain.TypingRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(c, domain.ErrBadPayload)
		return
	}

	h.typing.Set(p.Username, req.IsTyping)
	h.broadcastEvent(domain.EventTyping, domain.TypingSignal{
		Username: p.Username,
		IsTyping: req.IsTyping,
	}, c.ID)
}

// NotifyTypingExpired broadcasts the cleared typing state after the quiet
// period elapses without a newer signal.
func (h *Hub) NotifyTypingExpired(name string) {
	h.broadcastEvent(domain.EventTyping, domain.TypingSignal{Username: name}, "")
}

// announceJoin appends the join system message and emits, in order, the
// updated presence snapshot and the announcement to all live connections.
func (h *Hub) announceJoin(p domain.Participant) {
	msg := domain.NewSystemMessage(domain.JoinAnnouncement(p))
	h.ledger.Append(msg)
	h.broadcastPresence()
	h.broadcastEvent(domain.EventMessage, msg, "")
}

// announceLeave is symmetric to announceJoin and is reached only through the
// hub's unregister funnel, for voluntary and involuntary departures alike.
func (h *Hub) announceLeave(p domain.Participant) {
	msg := domain.NewSystemMessage(domain.LeaveAnnouncement(p))
	h.ledger.Append(msg)
	h.broadcastPresence()
	h.broadcastEvent(domain.EventMessage, msg, "")
}

// broadcastPresence emits the count then the roster, so observers always see
// the presence update before the textual announcement that caused it.
func (h *Hub) broadcastPresence() {
	count, roster := h.registry.Snapshot()
	h.broadcastEvent(domain.EventOnlineCount, domain.CountPayload{Count: count}, "")
	h.broadcastEvent(domain.EventOnlineUsers, roster, "")
}

// sendEvent delivers one event to a single connection.
func (h *Hub) sendEvent(c *Client, t domain.EventType, payload any) {
	data, err := domain.EncodeEvent(t, payload)
	if err != nil {
		h.log.Error("encode event", "type", t, "error", err)
		return
	}
	c.Send(data)
}

// sendError converts a failure into a scoped error event for the
// originating connection only. Shared state is never mutated on this path.
func (h *Hub) sendError(c *Client, err error) {
	payload := domain.ErrorPayload{Kind: domain.KindValidation, Detail: err.Error()}
	var chatErr *domain.Error
	if errors.As(err, &chatErr) {
		payload.Kind = chatErr.Kind
	}
	h.sendEvent(c, domain.EventError, payload)
}
