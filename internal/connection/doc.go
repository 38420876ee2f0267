// Package connection implements the transport socket wrapper.
//
// A Client owns exactly one physical WebSocket connection:
//   - Connect dials once; Close is the graceful shutdown path
//   - Send transmits only while open, otherwise fails fast
//   - Raw inbound frames are delivered on a buffered channel with
//     local receive timestamps
//   - Read failures surface on the error channel for the session's
//     reconnection controller
//
// Shared-instance ownership (one live connection per process) is the
// session façade's job, not this package's.
package connection
