// Package protocol defines the wire envelopes exchanged with the realtime
// server: outbound commands (subscribe, sync_subscriptions, ping, ...) and the
// closed set of inbound message types, with a single Decode entry point.
package protocol
