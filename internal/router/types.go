package router

import (
	"context"
	"time"

	"github.com/clipforge/realtime/internal/model"
	"github.com/clipforge/realtime/internal/protocol"
)

// Config holds configuration for the Router.
type Config struct {
	FinalCheckDelay time.Duration // Wait before the post-terminal REST fetch
	FetchTimeout    time.Duration // Per-fetch deadline
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		FinalCheckDelay: 1 * time.Second,
		FetchTimeout:    10 * time.Second,
	}
}

// TaskFetcher fetches authoritative task state over REST.
type TaskFetcher interface {
	GetTaskProgress(ctx context.Context, taskID string) (model.TaskSnapshot, error)
}

// Handlers are the per-category consumer callbacks. Nil entries are skipped.
type Handlers struct {
	TaskUpdate         func(protocol.TaskUpdate)
	ProjectUpdate      func(protocol.ProjectUpdate)
	Progress           func(model.TaskProgress)
	SystemNotification func(protocol.SystemNotification)
	ErrorNotification  func(protocol.ErrorNotification)

	// FinalState receives REST-fetched authoritative task state, both from
	// the post-terminal check and from cold-load refresh.
	FinalState func(taskID string, snap model.TaskSnapshot)

	// ProjectState receives REST-fetched authoritative project state from
	// cold-load refresh.
	ProjectState func(projectID string, snap model.ProjectSnapshot)
}

// Stats contains runtime statistics.
type Stats struct {
	Received     int64
	Dispatched   int64
	DroppedStale int64
	ParseErrors  int64
	UnknownTypes int64
	FinalChecks  int64
}
