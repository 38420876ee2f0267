// Package notify implements the in-memory notification center.
//
// Notifications are ephemeral and client-only: a bounded buffer holds the
// most recent entries (oldest evicted first), duplicates are suppressed by
// an identity key derived from kind+title+message, and each entry carries a
// read flag. Nothing here touches the transport.
package notify
