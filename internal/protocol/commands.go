package protocol

import (
	"encoding/json"
	"time"
)

// now returns the current wall-clock timestamp in milliseconds.
// Overridable in tests.
var now = func() int64 { return time.Now().UnixMilli() }

// NewSubscribe builds a single-topic subscribe command.
func NewSubscribe(topic string) Command {
	return Command{Type: TypeSubscribe, Timestamp: now(), Topic: topic}
}

// NewUnsubscribe builds a single-topic unsubscribe command.
func NewUnsubscribe(topic string) Command {
	return Command{Type: TypeUnsubscribe, Timestamp: now(), Topic: topic}
}

// NewSubscribeTask builds a task subscribe command.
func NewSubscribeTask(taskID string) Command {
	return Command{Type: TypeSubscribeTask, Timestamp: now(), TaskID: taskID}
}

// NewUnsubscribeTask builds a task unsubscribe command.
func NewUnsubscribeTask(taskID string) Command {
	return Command{Type: TypeUnsubscribeTask, Timestamp: now(), TaskID: taskID}
}

// NewSubscribeMany builds a batch subscribe command.
func NewSubscribeMany(channels []string) Command {
	return Command{Type: TypeSubscribeMany, Timestamp: now(), Channels: channels}
}

// NewUnsubscribeMany builds a batch unsubscribe command.
func NewUnsubscribeMany(channels []string) Command {
	return Command{Type: TypeUnsubscribeMany, Timestamp: now(), Channels: channels}
}

// NewSyncSubscriptions builds a full desired-set replacement command. The
// server drops whatever subscription state it holds for this client and
// adopts the given set, so a lost earlier sync cannot cause drift.
func NewSyncSubscriptions(channels []string) Command {
	if channels == nil {
		channels = []string{}
	}
	return Command{Type: TypeSyncSubscriptions, Timestamp: now(), Channels: channels}
}

// NewPing builds a heartbeat probe.
func NewPing() Command {
	return Command{Type: TypePing, Timestamp: now()}
}

// NewGetStatus builds a status query command.
func NewGetStatus() Command {
	return Command{Type: TypeGetStatus, Timestamp: now()}
}

// Encode serializes the command for transmission.
func (c Command) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// MarshalJSON keeps the channels field present for sync_subscriptions even
// when the desired set is empty. The command carries the full set, so an
// empty list means "unsubscribe everything" and must not be omitted.
func (c Command) MarshalJSON() ([]byte, error) {
	if c.Type == TypeSyncSubscriptions {
		channels := c.Channels
		if channels == nil {
			channels = []string{}
		}
		return json.Marshal(struct {
			Type      string   `json:"type"`
			Timestamp int64    `json:"timestamp"`
			Channels  []string `json:"channels"`
		}{c.Type, c.Timestamp, channels})
	}

	type plain Command
	return json.Marshal(plain(c))
}
