package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/aryawidjaja/global-chat/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// Client is one live connection. Its lifecycle is Open (connected, not
// joined), Joined (the registry holds a participant for this connection) and
// Closed (terminal). Joined-ness is not duplicated here: the registry is the
// single source of truth, queried by the hub on every stateful operation.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a client for an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// ReadPump processes inbound events in receipt order until the connection
// closes or the participant leaves. Both paths funnel into Unregister, which
// performs the departure sequence at most once.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(domain.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("unexpected close", "conn_id", c.ID, "error", err)
			}
			return
		}
		if !c.dispatch(data) {
			return
		}
	}
}

// dispatch routes one inbound frame. It reports false when the connection
// should transition to Closed.
func (c *Client) dispatch(data []byte) bool {
	var ev domain.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		c.hub.sendError(c, domain.ErrBadPayload)
		return true
	}

	switch ev.Type {
	case domain.EventJoin:
		c.hub.Join(c, ev.Payload)
	case domain.EventSend:
		c.hub.AdmitMessage(c, ev.Payload)
	case domain.EventTyping:
		c.hub.RelayTyping(c, ev.Payload)
	case domain.EventLeave:
		return false
	default:
		// Unknown event types are ignored.
	}
	return true
}

// WritePump drains the send queue to the peer and keeps the connection
// alive with pings. One goroutine per connection; exits when the hub closes
// the send channel or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues a frame for delivery, dropping it if the buffer is full.
func (c *Client) Send(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}
