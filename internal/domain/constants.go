package domain

import "time"

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed WebSocket frame size in bytes
const MaxMessageSize = 4096

// ==== Chat Constants ====

const (
	// MaxHistorySize is the maximum number of messages kept in the ledger
	MaxHistorySize = 50

	// BackfillCount is how many recent messages a joining participant receives
	BackfillCount = 20

	// MinUsernameLen and MaxUsernameLen bound the trimmed display name
	MinUsernameLen = 2
	MaxUsernameLen = 30

	// MaxTextLen is the maximum trimmed message length
	MaxTextLen = 500

	// DefaultCountry is used when a participant joins without a location
	DefaultCountry = "Unknown"

	// SystemAuthor is the author of server-generated messages
	SystemAuthor = "System"
)

// ==== Timing Constants ====

const (
	// TypingQuietPeriod is how long after the last typing signal the
	// indicator reverts to false
	TypingQuietPeriod = 1000 * time.Millisecond

	// HistorySweepInterval is how often the ledger TTL sweep runs
	HistorySweepInterval = 5 * time.Second
)

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitAPI is the default rate limit for API endpoints (requests/sec)
	DefaultRateLimitAPI = 10

	// DefaultRateLimitWS is the default rate limit for WebSocket upgrades (req/sec)
	DefaultRateLimitWS = 5
)
