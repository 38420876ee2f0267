package model

import (
	"strings"
	"time"
)

// ConnStatus is the lifecycle state of the shared connection.
type ConnStatus string

const (
	StatusDisconnected ConnStatus = "disconnected"
	StatusConnecting   ConnStatus = "connecting"
	StatusConnected    ConnStatus = "connected"
	StatusReconnecting ConnStatus = "reconnecting"
	StatusError        ConnStatus = "error"
)

// TaskStatus is the processing state carried by progress events.
type TaskStatus string

const (
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Terminal reports whether the status ends the task's lifecycle.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// TaskProgress is an accepted progress update for a task.
type TaskProgress struct {
	TaskID     string
	ProjectID  string
	Status     TaskStatus
	Progress   int    // Percent complete (0-100)
	StepName   string // Current pipeline phase
	Seq        int64  // Server-assigned monotonic sequence
	TS         int64  // Server wall-clock timestamp (ms since epoch)
	Message    string
	Meta       map[string]any
	ReceivedAt time.Time // Local receive timestamp
}

// TaskSnapshot is the authoritative task state fetched over REST.
type TaskSnapshot struct {
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	CurrentStep string `json:"current_step"`
}

// ProjectSnapshot is the authoritative project state fetched over REST.
type ProjectSnapshot struct {
	ProjectID string `json:"project_id"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
}

// Channel name prefixes.
const (
	taskChannelPrefix    = "task:"
	projectChannelPrefix = "project:"
)

// TaskChannel returns the channel name for a task subscription.
func TaskChannel(taskID string) string {
	return taskChannelPrefix + taskID
}

// ProjectChannel returns the channel name for a project subscription.
func ProjectChannel(projectID string) string {
	return projectChannelPrefix + projectID
}

// TaskIDFromChannel extracts the task ID from a task channel name.
func TaskIDFromChannel(channel string) (string, bool) {
	if rest, ok := strings.CutPrefix(channel, taskChannelPrefix); ok && rest != "" {
		return rest, true
	}
	return "", false
}

// ProjectIDFromChannel extracts the project ID from a project channel name.
func ProjectIDFromChannel(channel string) (string, bool) {
	if rest, ok := strings.CutPrefix(channel, projectChannelPrefix); ok && rest != "" {
		return rest, true
	}
	return "", false
}
