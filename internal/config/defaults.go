package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultRestURL              = "https://app.clipforge.io/api/v1"
	DefaultWSURL                = "wss://app.clipforge.io/api"
	DefaultAPITimeout           = 10 * time.Second
	DefaultMaxRetries           = 3
	DefaultPingInterval         = 30 * time.Second
	DefaultPongTimeout          = 10 * time.Second
	DefaultWriteTimeout         = 5 * time.Second
	DefaultHandshakeTimeout     = 10 * time.Second
	DefaultReconnectBaseDelay   = 1 * time.Second
	DefaultReconnectMaxDelay    = 30 * time.Second
	DefaultMaxReconnectAttempts = 10
	DefaultSyncDebounce         = 300 * time.Millisecond
	DefaultFinalCheckDelay      = 1 * time.Second
	DefaultBufferSize           = 1024
	DefaultRefreshConcurrency   = 5
	DefaultMaxRetained          = 50
)

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.RestURL == "" {
		c.Server.RestURL = DefaultRestURL
	}
	if c.Server.WSURL == "" {
		c.Server.WSURL = DefaultWSURL
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = DefaultAPITimeout
	}
	if c.Server.MaxRetries == 0 {
		c.Server.MaxRetries = DefaultMaxRetries
	}

	// Session defaults
	if c.Session.PingInterval == 0 {
		c.Session.PingInterval = DefaultPingInterval
	}
	if c.Session.PongTimeout == 0 {
		c.Session.PongTimeout = DefaultPongTimeout
	}
	if c.Session.WriteTimeout == 0 {
		c.Session.WriteTimeout = DefaultWriteTimeout
	}
	if c.Session.HandshakeTimeout == 0 {
		c.Session.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Session.ReconnectBaseDelay == 0 {
		c.Session.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Session.ReconnectMaxDelay == 0 {
		c.Session.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Session.MaxReconnectAttempts == 0 {
		c.Session.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if c.Session.SyncDebounce == 0 {
		c.Session.SyncDebounce = DefaultSyncDebounce
	}
	if c.Session.FinalCheckDelay == 0 {
		c.Session.FinalCheckDelay = DefaultFinalCheckDelay
	}
	if c.Session.BufferSize == 0 {
		c.Session.BufferSize = DefaultBufferSize
	}
	if c.Session.RefreshConcurrency == 0 {
		c.Session.RefreshConcurrency = DefaultRefreshConcurrency
	}

	// Notifications defaults
	if c.Notifications.MaxRetained == 0 {
		c.Notifications.MaxRetained = DefaultMaxRetained
	}
}
