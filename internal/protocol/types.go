package protocol

// Outbound envelope type tags (client → server).
const (
	TypeSubscribe         = "subscribe"
	TypeUnsubscribe       = "unsubscribe"
	TypeSubscribeTask     = "subscribe_task"
	TypeUnsubscribeTask   = "unsubscribe_task"
	TypeSubscribeMany     = "subscribe_many"
	TypeUnsubscribeMany   = "unsubscribe_many"
	TypeSyncSubscriptions = "sync_subscriptions"
	TypePing              = "ping"
	TypeGetStatus         = "get_status"
)

// Inbound envelope type tags (server → client).
const (
	TypeTaskUpdate         = "task_update"
	TypeProjectUpdate      = "project_update"
	TypeTaskProgress       = "task_progress_update"
	TypeSystemNotification = "system_notification"
	TypeErrorNotification  = "error_notification"
	TypePong               = "pong"
)

// Command is an outbound envelope. Every command carries the type tag and a
// client wall-clock timestamp; the remaining fields depend on the type.
type Command struct {
	Type      string   `json:"type"`
	Timestamp int64    `json:"timestamp"` // ms since epoch
	Topic     string   `json:"topic,omitempty"`
	TaskID    string   `json:"task_id,omitempty"`
	Channels  []string `json:"channels,omitempty"`
}

// Message is one decoded inbound envelope.
//
// The set of implementations is closed: TaskUpdate, ProjectUpdate,
// TaskProgressUpdate, SystemNotification, ErrorNotification, Pong. Consumers
// dispatch with a type switch; a new inbound type requires a new case here.
type Message interface {
	messageType() string
}

// TaskUpdate reports a coarse task status change.
type TaskUpdate struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Progress *int   `json:"progress,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ProjectUpdate reports a coarse project status change.
type ProjectUpdate struct {
	ProjectID string `json:"project_id"`
	Status    string `json:"status"`
	Progress  *int   `json:"progress,omitempty"`
	Message   string `json:"message,omitempty"`
}

// TaskProgressUpdate is a fine-grained pipeline progress event. Seq and TS
// order events per task; the router drops anything that does not advance them.
type TaskProgressUpdate struct {
	TaskID    string         `json:"task_id"`
	ProjectID string         `json:"project_id"`
	Status    string         `json:"status"` // running, completed, failed
	Progress  int            `json:"progress"`
	StepName  string         `json:"step_name"`
	Seq       int64          `json:"seq"`
	TS        int64          `json:"ts"` // ms since epoch
	Message   string         `json:"message,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// SystemNotification is a user-facing informational message.
type SystemNotification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Level   string `json:"level"` // info, success, warning, error
}

// ErrorNotification is a user-facing error message.
type ErrorNotification struct {
	ErrorType    string         `json:"error_type"`
	ErrorMessage string         `json:"error_message"`
	Details      map[string]any `json:"details,omitempty"`
}

// Pong is the heartbeat response. Intercepted by the session, never
// forwarded to consumers.
type Pong struct {
	Timestamp int64 `json:"timestamp"`
}

func (TaskUpdate) messageType() string         { return TypeTaskUpdate }
func (ProjectUpdate) messageType() string      { return TypeProjectUpdate }
func (TaskProgressUpdate) messageType() string { return TypeTaskProgress }
func (SystemNotification) messageType() string { return TypeSystemNotification }
func (ErrorNotification) messageType() string  { return TypeErrorNotification }
func (Pong) messageType() string               { return TypePong }
