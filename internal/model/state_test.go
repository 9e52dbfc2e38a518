package model

import (
	"testing"
	"time"
)

func TestTransportStatus(t *testing.T) {
	tests := []struct {
		status TransportStatus
		active bool
	}{
		{StatusIdle, false},
		{StatusLoading, true},
		{StatusPlaying, true},
		{StatusPaused, false},
	}

	for _, tt := range tests {
		if got := tt.status.IsActive(); got != tt.active {
			t.Errorf("%s.IsActive() = %v, want %v", tt.status, got, tt.active)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{-3, "00:00"},
		{0, "00:00"},
		{30, "00:30"},
		{90.7, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.expected {
			t.Errorf("FormatClock(%v) = %s, want %s", tt.seconds, got, tt.expected)
		}
	}
}

func TestCacheSnapshotProjection(t *testing.T) {
	now := time.Now()
	track := &TrackRef{ID: "7", ResourceURL: "/media/7.mp3", Title: "Seven"}
	ps := PlaybackState{
		ActiveTrack: track,
		IsPlaying:   true,
		Position:    12.5,
		Duration:    120,
		Volume:      0.8,
		Rate:        1.25,
		Loop:        true,
	}

	cs := NewCacheSnapshot(ps, now)

	if cs.TrackID != "7" || cs.ResourceURL != "/media/7.mp3" || cs.Title != "Seven" {
		t.Errorf("snapshot track fields = %q/%q/%q", cs.TrackID, cs.ResourceURL, cs.Title)
	}
	if !cs.IsPlaying || cs.Position != 12.5 || cs.Duration != 120 {
		t.Errorf("snapshot transport fields = %v/%v/%v", cs.IsPlaying, cs.Position, cs.Duration)
	}
	if cs.Timestamp != now.UnixMilli() {
		t.Errorf("snapshot timestamp = %d, want %d", cs.Timestamp, now.UnixMilli())
	}

	restored := cs.Track()
	if restored == nil || !SameTrack(*restored, *track) {
		t.Errorf("restored track %+v does not match original %+v", restored, track)
	}
}

func TestCacheSnapshotWithoutTrack(t *testing.T) {
	cs := NewCacheSnapshot(PlaybackState{Volume: 1, Rate: 1}, time.Now())

	if cs.HasTrack() {
		t.Error("snapshot of trackless state should not report a track")
	}
	if cs.Track() != nil {
		t.Error("Track() should return nil for a trackless snapshot")
	}
}

func TestCacheSnapshotAge(t *testing.T) {
	written := time.Now()
	cs := NewCacheSnapshot(PlaybackState{}, written)

	age := cs.Age(written.Add(3 * time.Minute))
	if age < 3*time.Minute-time.Second || age > 3*time.Minute+time.Second {
		t.Errorf("Age() = %v, want ~3m", age)
	}
}
