package model

import (
	"fmt"
	"time"
)

// TransportStatus represents where the playback engine is in its lifecycle
type TransportStatus string

const (
	// StatusIdle means nothing has ever been selected in this session
	StatusIdle TransportStatus = "Idle"

	// StatusLoading means a track is selected and the device is binding its source
	StatusLoading TransportStatus = "Loading"

	// StatusPlaying means the device reported active playback
	StatusPlaying TransportStatus = "Playing"

	// StatusPaused means a track is selected but not playing
	StatusPaused TransportStatus = "Paused"
)

// String returns the string representation of TransportStatus
func (ts TransportStatus) String() string {
	return string(ts)
}

// IsActive returns true if the engine is loading or playing
func (ts TransportStatus) IsActive() bool {
	return ts == StatusLoading || ts == StatusPlaying
}

// PlaybackState is an immutable snapshot of the global playback engine.
// ActiveTrack is nil exactly when nothing has been selected this session.
// Volume, Rate and Loop are shared across all tracks, not per-track.
type PlaybackState struct {
	ActiveTrack *TrackRef
	Status      TransportStatus
	IsPlaying   bool
	Position    float64 // seconds, >= 0
	Duration    float64 // seconds, 0 = unknown
	Volume      float64 // [0, 1]
	Rate        float64 // > 0
	Loop        bool
}

// HasTrack returns true if a track has been selected this session
func (ps PlaybackState) HasTrack() bool {
	return ps.ActiveTrack != nil
}

// FormatClock formats a position in seconds as mm:ss, or hh:mm:ss above an hour
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// CacheSnapshot is the serializable projection of PlaybackState persisted by
// the session cache. Timestamp is unix milliseconds at write time.
type CacheSnapshot struct {
	TrackID     string  `json:"trackId"`
	ResourceURL string  `json:"resourceUrl"`
	Title       string  `json:"title"`
	IsPlaying   bool    `json:"isPlaying"`
	Position    float64 `json:"position"`
	Duration    float64 `json:"duration"`
	Volume      float64 `json:"volume"`
	Rate        float64 `json:"rate"`
	Loop        bool    `json:"loop"`
	Timestamp   int64   `json:"timestamp"`
}

// NewCacheSnapshot projects a playback state into its persisted form
func NewCacheSnapshot(ps PlaybackState, now time.Time) CacheSnapshot {
	cs := CacheSnapshot{
		IsPlaying: ps.IsPlaying,
		Position:  ps.Position,
		Duration:  ps.Duration,
		Volume:    ps.Volume,
		Rate:      ps.Rate,
		Loop:      ps.Loop,
		Timestamp: now.UnixMilli(),
	}
	if ps.ActiveTrack != nil {
		cs.TrackID = ps.ActiveTrack.ID
		cs.ResourceURL = ps.ActiveTrack.ResourceURL
		cs.Title = ps.ActiveTrack.Title
	}
	return cs
}

// HasTrack returns true if the snapshot carries a restorable track identity
func (cs CacheSnapshot) HasTrack() bool {
	return cs.TrackID != "" || cs.ResourceURL != ""
}

// Track rebuilds the track reference stored in the snapshot.
// Returns nil when the snapshot carries no track.
func (cs CacheSnapshot) Track() *TrackRef {
	if !cs.HasTrack() {
		return nil
	}
	return &TrackRef{
		ID:          cs.TrackID,
		ResourceURL: cs.ResourceURL,
		Title:       cs.Title,
	}
}

// Age returns how long ago the snapshot was written
func (cs CacheSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(cs.Timestamp))
}
