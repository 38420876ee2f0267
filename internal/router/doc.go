// Package router implements the inbound message router and ordering filter.
//
// The Router:
//   - Classifies raw frames by their type tag and dispatches to per-type
//     handlers; unknown tags are counted and dropped
//   - Intercepts pong frames for the heartbeat monitor; consumers never
//     see them
//   - Applies a per-task staleness filter to progress events: sequence is
//     authoritative, timestamp breaks ties at equal sequence, and anything
//     that does not advance is silently dropped
//   - Schedules one delayed authoritative REST fetch per task after a
//     terminal progress event, compensating for events lost in transit
package router
