package player

import "context"

// EventType identifies a device-originated playback event
type EventType string

const (
	// EventPlay means the device started or resumed audible playback
	EventPlay EventType = "play"

	// EventPause means the device stopped producing audio but keeps its position
	EventPause EventType = "pause"

	// EventEnded means the bound stream drained with looping disabled
	EventEnded EventType = "ended"

	// EventTimeUpdate carries a fresh playback position
	EventTimeUpdate EventType = "timeupdate"

	// EventDurationChange carries the stream duration once known
	EventDurationChange EventType = "durationchange"

	// EventError means the device failed to decode or play the bound stream
	EventError EventType = "error"
)

// Event is a device notification. Position and Duration are seconds and only
// meaningful for the event types that carry them.
type Event struct {
	Type     EventType
	Position float64
	Duration float64
	Err      error
}

// Device is the single underlying media handle. Exactly one Device exists per
// process and it is owned exclusively by the playback Service; views never
// touch it.
//
// Once a source is bound, device events are the sole source of truth for
// playing state, position and duration. Implementations must deliver events
// from the goroutine calling into the device or from their own background
// goroutines, but never re-entrantly while the Service still holds its lock
// (the Service guarantees it never calls the device under its lock).
type Device interface {
	// Bind loads the given resource so it can be played. Any previously
	// bound source is discarded. Blocks until the stream is ready or fails.
	Bind(ctx context.Context, resourceURL string) error

	// BoundURL returns the currently bound resource URL, "" if never bound
	BoundURL() string

	// Play starts or resumes playback of the bound source
	Play() error

	// Pause stops audio output, keeping the bound source and position
	Pause()

	// SeekTo moves the playback position, in seconds
	SeekTo(seconds float64)

	// Position returns the current playback position in seconds
	Position() float64

	// Duration returns the bound stream duration in seconds, 0 if unknown
	Duration() float64

	// SetVolume sets the output gain, 0..1
	SetVolume(v float64)

	// SetRate sets the playback speed multiplier, 1.0 = normal
	SetRate(r float64)

	// SetLoop toggles restart-on-drain for the bound source
	SetLoop(loop bool)

	// SetEventHandler registers the single event sink. Must be called before
	// the first Bind.
	SetEventHandler(fn func(Event))

	// Close releases the audio output and the bound source
	Close() error
}
