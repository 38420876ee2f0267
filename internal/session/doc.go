// Package session implements the shared realtime session façade.
//
// A Session owns the one live transport connection for the whole process and
// exposes connect/disconnect/send/subscribe operations to every consumer.
// It combines:
//   - the reconnection controller: exponential backoff after unexpected
//     closure, bounded attempts, terminal error state when exhausted
//   - the heartbeat monitor: app-level ping/pong with a forced close on a
//     missed pong
//   - the subscription reconciler: a desired channel set synchronized to the
//     server as a full-set replacement, debounced on change and resent
//     unconditionally on every (re)connect
//   - cold-load refresh: authoritative REST fetch for subscribed tasks right
//     after connecting, so consumers attaching mid-task see current state
//
// Consumers share the session by reference counting (Acquire/Release); the
// transport survives any single consumer going away.
package session
