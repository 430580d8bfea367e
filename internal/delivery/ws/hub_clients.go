package ws

// Register adds an open connection to the hub. A no-op once the run loop
// has stopped.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a connection from the hub, triggering the departure
// sequence if it had joined. A no-op once the run loop has stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of live connections (joined or not).
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnlineCount returns the number of joined participants.
func (h *Hub) OnlineCount() int {
	return h.registry.Count()
}

// HistorySize returns the current ledger size.
func (h *Hub) HistorySize() int {
	return h.ledger.Len()
}
