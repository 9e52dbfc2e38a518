package player

// Package player holds the global playback engine. One Service owns one
// Device for the entire process; every view reads and mutates playback
// through it, which is what keeps two screens from playing audio at once.
//
// The Service publishes full immutable snapshots to its subscribers on
// every committed change. Optimistic updates (a select or a play request)
// are pushed first so the UI never waits on device I/O, then confirmed or
// corrected by the device's own events.
