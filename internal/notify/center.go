package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// DefaultMaxRetained is the buffer bound used when none is configured.
const DefaultMaxRetained = 50

// Notification is one entry in the center.
type Notification struct {
	ID        uuid.UUID
	Key       string // Identity key: kind + title + message
	Kind      string // "system", "error", "task", ...
	Title     string
	Message   string
	Level     Level
	Read      bool
	CreatedAt time.Time
}

// Center holds a bounded, deduplicated set of notifications.
type Center struct {
	logger *slog.Logger

	mu    sync.Mutex
	max   int
	items []Notification // oldest first
}

// NewCenter creates a notification center retaining at most max entries.
func NewCenter(max int, logger *slog.Logger) *Center {
	if max < 1 {
		max = DefaultMaxRetained
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Center{
		logger: logger,
		max:    max,
	}
}

func identityKey(kind, title, message string) string {
	return kind + "|" + title + "|" + message
}

// Push adds a notification. Returns false when an entry with the same
// identity key is already retained (the duplicate is dropped).
func (c *Center) Push(kind, title, message string, level Level) bool {
	key := identityKey(kind, title, message)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range c.items {
		if n.Key == key {
			c.logger.Debug("duplicate notification suppressed", "key", key)
			return false
		}
	}

	c.items = append(c.items, Notification{
		ID:        uuid.New(),
		Key:       key,
		Kind:      kind,
		Title:     title,
		Message:   message,
		Level:     level,
		CreatedAt: time.Now(),
	})

	// Evict oldest beyond the bound
	if len(c.items) > c.max {
		c.items = c.items[len(c.items)-c.max:]
	}

	return true
}

// List returns a copy of retained notifications, newest first.
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.items))
	for i, n := range c.items {
		out[len(c.items)-1-i] = n
	}
	return out
}

// Len returns the number of retained notifications.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Unread returns the number of unread notifications.
func (c *Center) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, n := range c.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead marks a single notification read. Returns false if not found.
func (c *Center) MarkRead(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead marks every retained notification read.
func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		c.items[i].Read = true
	}
}

// Clear discards all retained notifications.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
