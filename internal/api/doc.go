// Package api provides the REST client for the ClipForge backend.
//
// The realtime layer uses it for final-state reconciliation only: fetching
// authoritative task progress after a terminal event, and on cold load when a
// consumer attaches mid-task. Requests retry with jittered backoff and are
// throttled by a shared rate limiter.
package api
