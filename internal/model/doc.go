// Package model defines shared data types used across the realtime client.
//
// Conventions:
//   - Wire timestamps: int64 milliseconds since Unix epoch (server wall clock)
//   - Local receive timestamps: time.Time
//   - Channels: "task:<id>", "project:<id>", or a bare topic name
package model
