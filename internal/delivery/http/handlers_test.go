package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aryawidjaja/global-chat/internal/chat"
	"github.com/aryawidjaja/global-chat/internal/config"
	"github.com/aryawidjaja/global-chat/internal/delivery/ws"
	"github.com/aryawidjaja/global-chat/internal/domain"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := chat.NewRegistry()
	ledger := chat.NewLedger(domain.MaxHistorySize, 0, 0)

	var hub *ws.Hub
	typing := chat.NewTracker(time.Second, func(name string) {
		hub.NotifyTypingExpired(name)
	})
	hub = ws.NewHub(log, registry, ledger, typing, domain.BackfillCount)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cfg := &config.Config{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
	}
	return NewHandler(hub, cfg, log)
}

func TestHandleStatus(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["message"] != "Global Chat Server is running" {
		t.Errorf("unexpected banner: %v", body["message"])
	}
	if body["status"] != "success" {
		t.Errorf("unexpected status: %v", body["status"])
	}
	if body["version"] != Version {
		t.Errorf("unexpected version: %v", body["version"])
	}
	if body["online_users"] != float64(0) {
		t.Errorf("expected 0 online users, got %v", body["online_users"])
	}
	if body["total_messages"] != float64(0) {
		t.Errorf("expected 0 messages, got %v", body["total_messages"])
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.HandleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("unexpected status: %v", body["status"])
	}
	if _, ok := body["uptime"].(float64); !ok {
		t.Errorf("expected numeric uptime, got %T", body["uptime"])
	}
	if body["message_count"] != float64(0) {
		t.Errorf("expected 0 messages, got %v", body["message_count"])
	}
}

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"empty origin", []string{"http://localhost:3000"}, "", true},
		{"listed origin", []string{"http://localhost:3000"}, "http://localhost:3000", true},
		{"unlisted origin", []string{"http://localhost:3000"}, "http://evil.example", false},
		{"wildcard", []string{"*"}, "http://anywhere.example", true},
		{"scheme mismatch", []string{"https://chat.example"}, "http://chat.example", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t)
			h.cfg.AllowedOrigins = tc.allowed
			if got := h.isOriginAllowed(tc.origin); got != tc.want {
				t.Errorf("isOriginAllowed(%q) = %v, want %v", tc.origin, got, tc.want)
			}
		})
	}
}

func TestHandleWebSocket_JoinOverLiveConnection(t *testing.T) {
	h := newTestHandler(t)
	h.cfg.AllowedOrigins = []string{"*"}

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	payload, _ := json.Marshal(domain.JoinRequest{Username: "Ann", Country: "Japan"})
	frame, _ := json.Marshal(domain.Event{Type: domain.EventJoin, Payload: payload})
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var ev domain.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("invalid frame: %v", err)
	}
	if ev.Type != domain.EventHistory {
		t.Errorf("expected history as first event, got %s", ev.Type)
	}
}

func TestHandleWebSocket_RejectsDisallowedOrigin(t *testing.T) {
	h := newTestHandler(t)
	h.cfg.AllowedOrigins = []string{"http://localhost:3000"}

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("expected handshake rejection")
	}
	if resp != nil && resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", resp.StatusCode)
	}
}
