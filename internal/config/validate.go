package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.WSURL == "" {
		return errors.New("server.ws_url is required")
	}
	if !strings.HasPrefix(c.Server.WSURL, "ws://") && !strings.HasPrefix(c.Server.WSURL, "wss://") {
		return fmt.Errorf("server.ws_url must start with ws:// or wss://, got %q", c.Server.WSURL)
	}
	if c.Server.RestURL == "" {
		return errors.New("server.rest_url is required")
	}

	if c.Session.PingInterval <= 0 {
		return errors.New("session.ping_interval must be > 0")
	}
	if c.Session.PongTimeout <= 0 {
		return errors.New("session.pong_timeout must be > 0")
	}
	if c.Session.PongTimeout >= c.Session.PingInterval {
		return fmt.Errorf("session.pong_timeout (%s) must be shorter than session.ping_interval (%s)",
			c.Session.PongTimeout, c.Session.PingInterval)
	}
	if c.Session.ReconnectBaseDelay <= 0 {
		return errors.New("session.reconnect_base_delay must be > 0")
	}
	if c.Session.ReconnectMaxDelay < c.Session.ReconnectBaseDelay {
		return errors.New("session.reconnect_max_delay must be >= session.reconnect_base_delay")
	}
	if c.Session.MaxReconnectAttempts < 1 {
		return errors.New("session.max_reconnect_attempts must be >= 1")
	}
	if c.Session.BufferSize < 1 {
		return errors.New("session.buffer_size must be >= 1")
	}
	if c.Session.RefreshConcurrency < 1 {
		return errors.New("session.refresh_concurrency must be >= 1")
	}

	if c.Notifications.MaxRetained < 1 {
		return errors.New("notifications.max_retained must be >= 1")
	}

	return nil
}
