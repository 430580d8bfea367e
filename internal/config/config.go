package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration, loaded from the environment.
type Config struct {
	// Server
	Port           string   `envconfig:"PORT" default:"8080"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`

	// Logging. Options: debug, info, warn, error, silent
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Chat
	MaxHistory    int           `envconfig:"MAX_HISTORY" default:"50"`
	BackfillCount int           `envconfig:"BACKFILL_COUNT" default:"20"`
	TypingQuiet   time.Duration `envconfig:"TYPING_QUIET" default:"1s"`

	// Optional age-based history eviction. Zero disables the sweep.
	HistoryTTL    time.Duration `envconfig:"HISTORY_TTL" default:"0"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"5s"`

	// Rate limiting (requests per second)
	RateLimitAPI int `envconfig:"RATE_LIMIT_API" default:"10"`
	RateLimitWS  int `envconfig:"RATE_LIMIT_WS" default:"5"`
}

// Load reads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
