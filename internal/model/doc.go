package model

// Package model defines domain data structures used across the app: track
// references, playback state snapshots, and the session cache projection.
// Track identity comparison lives here because both the playback engine and
// the UI bindings depend on it.
