package config

import "time"

// Config is the root configuration for the realtime client.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Session       SessionConfig       `yaml:"session"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// ServerConfig holds backend endpoints.
type ServerConfig struct {
	WSURL      string        `yaml:"ws_url"`   // e.g. wss://app.clipforge.io/api
	RestURL    string        `yaml:"rest_url"` // e.g. https://app.clipforge.io/api/v1
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// SessionConfig holds connection lifecycle settings.
type SessionConfig struct {
	PingInterval         time.Duration `yaml:"ping_interval"`
	PongTimeout          time.Duration `yaml:"pong_timeout"`
	WriteTimeout         time.Duration `yaml:"write_timeout"`
	HandshakeTimeout     time.Duration `yaml:"handshake_timeout"`
	ReconnectBaseDelay   time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay    time.Duration `yaml:"reconnect_max_delay"`
	MaxReconnectAttempts int           `yaml:"max_reconnect_attempts"`
	SyncDebounce         time.Duration `yaml:"sync_debounce"`
	FinalCheckDelay      time.Duration `yaml:"final_check_delay"`
	BufferSize           int           `yaml:"buffer_size"`
	RefreshConcurrency   int           `yaml:"refresh_concurrency"`
}

// NotificationsConfig holds notification center settings.
type NotificationsConfig struct {
	MaxRetained int `yaml:"max_retained"`
}
