package session

// Package session persists playback snapshots across view remounts. It
// mirrors engine state into the app preferences under a single key and
// restores it on the next mount, subject to a 5 minute expiry.
