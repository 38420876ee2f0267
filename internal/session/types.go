package session

import (
	"errors"
	"time"

	"github.com/clipforge/realtime/internal/model"
	"github.com/clipforge/realtime/internal/router"
)

// Errors
var (
	ErrClosed      = errors.New("session closed")
	ErrNoIdentity  = errors.New("identity is required")
	ErrPongTimeout = errors.New("pong timeout")

	// errDialSuperseded marks a dial whose result no longer matters
	// (disconnect or identity switch happened while the handshake ran).
	errDialSuperseded = errors.New("dial superseded")
)

// Config configures a Session.
type Config struct {
	WSURL string // Base WebSocket URL; identity is appended as /ws/<identity>

	PingInterval     time.Duration // Heartbeat probe interval
	PongTimeout      time.Duration // Max wait for a pong after a ping
	WriteTimeout     time.Duration // Transport write deadline
	HandshakeTimeout time.Duration // Dial handshake deadline

	ReconnectBaseDelay   time.Duration // Backoff base
	ReconnectMaxDelay    time.Duration // Backoff ceiling
	MaxReconnectAttempts int           // Retries before the terminal error state

	SyncDebounce    time.Duration // Coalescing window for syncSubscriptions
	FinalCheckDelay time.Duration // Wait before the post-terminal REST fetch
	FetchTimeout    time.Duration // Per-REST-fetch deadline

	BufferSize         int // Transport message channel buffer
	RefreshConcurrency int // Parallel cold-load refresh fetches
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PingInterval:         30 * time.Second,
		PongTimeout:          10 * time.Second,
		WriteTimeout:         5 * time.Second,
		HandshakeTimeout:     10 * time.Second,
		ReconnectBaseDelay:   1 * time.Second,
		ReconnectMaxDelay:    30 * time.Second,
		MaxReconnectAttempts: 10,
		SyncDebounce:         300 * time.Millisecond,
		FinalCheckDelay:      1 * time.Second,
		FetchTimeout:         10 * time.Second,
		BufferSize:           1024,
		RefreshConcurrency:   5,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PingInterval == 0 {
		c.PingInterval = def.PingInterval
	}
	if c.PongTimeout == 0 {
		c.PongTimeout = def.PongTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = def.HandshakeTimeout
	}
	if c.ReconnectBaseDelay == 0 {
		c.ReconnectBaseDelay = def.ReconnectBaseDelay
	}
	if c.ReconnectMaxDelay == 0 {
		c.ReconnectMaxDelay = def.ReconnectMaxDelay
	}
	if c.MaxReconnectAttempts == 0 {
		c.MaxReconnectAttempts = def.MaxReconnectAttempts
	}
	if c.SyncDebounce == 0 {
		c.SyncDebounce = def.SyncDebounce
	}
	if c.FinalCheckDelay == 0 {
		c.FinalCheckDelay = def.FinalCheckDelay
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = def.FetchTimeout
	}
	if c.BufferSize == 0 {
		c.BufferSize = def.BufferSize
	}
	if c.RefreshConcurrency == 0 {
		c.RefreshConcurrency = def.RefreshConcurrency
	}
	return c
}

// Stats provides a snapshot of session state for status surfaces.
type Stats struct {
	Status     model.ConnStatus
	Identity   string
	Attempts   int   // Current consecutive failed-reconnect count
	Reconnects int64 // Successful reconnections over the session lifetime
	Subscribed int   // Size of the desired channel set
	Router     router.Stats
}

// backoffDelay returns the reconnect delay for a retry attempt: the base
// delay doubled per attempt, capped at max. The first retry is attempt 1,
// so base=2s yields 4s, 8s, 16s... up to the cap.
func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	return d
}
