package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aryawidjaja/global-chat/internal/config"
	"github.com/aryawidjaja/global-chat/internal/delivery/ws"
)

// Version is reported by the status endpoint.
const Version = "3.0.0"

// Handler exposes the WebSocket upgrade and the read-only status surface.
type Handler struct {
	hub      *ws.Hub
	cfg      *config.Config
	log      *slog.Logger
	upgrader websocket.Upgrader
	started  time.Time
}

// NewHandler wires a handler to the hub.
func NewHandler(hub *ws.Hub, cfg *config.Config, log *slog.Logger) *Handler {
	h := &Handler{
		hub:     hub,
		cfg:     cfg,
		log:     log,
		started: time.Now(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return h.isOriginAllowed(r.Header.Get("Origin"))
		},
	}
	return h
}

// isOriginAllowed checks the Origin header against the configured list.
// An empty origin is allowed (same-origin requests).
func (h *Handler) isOriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

// HandleStatus reports the service banner with live counters. Read-only,
// no side effects.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "Global Chat Server is running",
		"status":         "success",
		"online_users":   h.hub.OnlineCount(),
		"total_messages": h.hub.HistorySize(),
		"timestamp":      time.Now(),
		"version":        Version,
	})
}

// HandleHealth is the liveness endpoint for operational tooling.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"uptime":        time.Since(h.started).Seconds(),
		"online_users":  h.hub.OnlineCount(),
		"message_count": h.hub.HistorySize(),
	})
}

// HandleWebSocket upgrades the request and starts the connection pumps. The
// connection enters the Open state; join happens over the socket itself.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
