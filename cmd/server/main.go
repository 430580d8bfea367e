package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/aryawidjaja/global-chat/internal/chat"
	"github.com/aryawidjaja/global-chat/internal/config"
	httpHandler "github.com/aryawidjaja/global-chat/internal/delivery/http"
	"github.com/aryawidjaja/global-chat/internal/delivery/ws"
	"github.com/aryawidjaja/global-chat/internal/middleware"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Core state, owned here and injected into the hub.
	registry := chat.NewRegistry()
	ledger := chat.NewLedger(cfg.MaxHistory, cfg.HistoryTTL, cfg.SweepInterval)

	var hub *ws.Hub
	typing := chat.NewTracker(cfg.TypingQuiet, func(name string) {
		hub.NotifyTypingExpired(name)
	})
	hub = ws.NewHub(log, registry, ledger, typing, cfg.BackfillCount)

	go hub.Run(ctx)
	go ledger.Run(ctx, log)

	handler := httpHandler.NewHandler(hub, cfg, log)

	apiLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAPI, cfg.RateLimitAPI*2)
	wsLimiter := middleware.NewIPRateLimiter(cfg.RateLimitWS, cfg.RateLimitWS*2)

	r := mux.NewRouter()
	r.HandleFunc("/", middleware.RateLimitFunc(apiLimiter, handler.HandleStatus)).Methods(http.MethodGet)
	r.HandleFunc("/api/health", middleware.RateLimitFunc(apiLimiter, handler.HandleHealth)).Methods(http.MethodGet)
	r.HandleFunc("/ws", middleware.RateLimitFunc(wsLimiter, handler.HandleWebSocket)).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.SecurityHeaders(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("global chat server running", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server exited gracefully")
}

// newLogger builds a slog logger for the configured level. The "silent"
// level discards all output.
func newLogger(level string) *slog.Logger {
	if level == "silent" || level == "off" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
