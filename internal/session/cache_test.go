package session

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/wotu2038/AigcMusic/internal/model"
)

func playingState(id string, position float64) model.PlaybackState {
	return model.PlaybackState{
		ActiveTrack: &model.TrackRef{ID: id, ResourceURL: "https://host/" + id + ".mp3", Title: id},
		Status:      model.StatusPlaying,
		IsPlaying:   true,
		Position:    position,
		Duration:    180,
		Volume:      0.8,
		Rate:        1,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	app := test.NewApp()
	cache := NewCache(app.Preferences())

	cache.Save(playingState("a", 42.5))

	snap, ok := cache.Load()
	if !ok {
		t.Fatal("expected a restorable snapshot")
	}
	if snap.TrackID != "a" {
		t.Errorf("trackId = %q, want a", snap.TrackID)
	}
	if !snap.IsPlaying {
		t.Error("isPlaying should round-trip")
	}
	if snap.Position != 42.5 {
		t.Errorf("position = %v, want 42.5", snap.Position)
	}
}

func TestLoadEmpty(t *testing.T) {
	app := test.NewApp()
	cache := NewCache(app.Preferences())

	if _, ok := cache.Load(); ok {
		t.Error("empty storage should yield no snapshot")
	}
}

func TestLoadExpiredRemovesRecord(t *testing.T) {
	app := test.NewApp()
	cache := NewCache(app.Preferences())

	start := time.Now()
	cache.now = func() time.Time { return start }
	cache.Save(playingState("a", 10))

	cache.now = func() time.Time { return start.Add(SnapshotExpiry + time.Second) }
	if _, ok := cache.Load(); ok {
		t.Fatal("expired snapshot must not be restored")
	}

	// removed lazily, a fresh read finds nothing
	cache.now = func() time.Time { return start }
	if _, ok := cache.Load(); ok {
		t.Error("expired record should have been removed from storage")
	}
}

func TestLoadCorruptClearsAndDisables(t *testing.T) {
	app := test.NewApp()
	app.Preferences().SetString(KeyPlayerState, "{not json")
	cache := NewCache(app.Preferences())

	if _, ok := cache.Load(); ok {
		t.Fatal("corrupt record must not be restored")
	}
	if app.Preferences().String(KeyPlayerState) != "" {
		t.Error("corrupt record should have been cleared")
	}

	// writes are disabled for the rest of the session
	cache.Save(playingState("a", 1))
	if app.Preferences().String(KeyPlayerState) != "" {
		t.Error("cache should stay disabled after corruption")
	}
}

func TestSaveThrottlesPositionTicks(t *testing.T) {
	app := test.NewApp()
	cache := NewCache(app.Preferences())

	start := time.Now()
	cache.now = func() time.Time { return start }
	cache.Save(playingState("a", 1))

	// position-only update inside the throttle window is skipped
	cache.now = func() time.Time { return start.Add(200 * time.Millisecond) }
	cache.Save(playingState("a", 2))

	snap, _ := cache.Load()
	if snap.Position != 1 {
		t.Errorf("position = %v, want 1 (tick inside throttle window dropped)", snap.Position)
	}

	// past the window the tick is persisted
	cache.now = func() time.Time { return start.Add(2 * time.Second) }
	cache.Save(playingState("a", 3))

	snap, _ = cache.Load()
	if snap.Position != 3 {
		t.Errorf("position = %v, want 3", snap.Position)
	}
}

func TestSaveSignificantChangeBypassesThrottle(t *testing.T) {
	app := test.NewApp()
	cache := NewCache(app.Preferences())

	start := time.Now()
	cache.now = func() time.Time { return start }
	cache.Save(playingState("a", 1))

	// pause within the throttle window still writes
	paused := playingState("a", 1.2)
	paused.IsPlaying = false
	paused.Status = model.StatusPaused
	cache.now = func() time.Time { return start.Add(100 * time.Millisecond) }
	cache.Save(paused)

	snap, _ := cache.Load()
	if snap.IsPlaying {
		t.Error("pause must be persisted immediately")
	}

	// so does a track switch
	cache.now = func() time.Time { return start.Add(200 * time.Millisecond) }
	cache.Save(playingState("b", 0))

	snap, _ = cache.Load()
	if snap.TrackID != "b" {
		t.Errorf("trackId = %q, want b (track switch persisted immediately)", snap.TrackID)
	}
}

func TestNilPreferencesDisablesCache(t *testing.T) {
	cache := NewCache(nil)

	cache.Save(playingState("a", 1))
	if _, ok := cache.Load(); ok {
		t.Error("disabled cache must not restore anything")
	}
	cache.Clear()
}

func TestListenerPersists(t *testing.T) {
	app := test.NewApp()
	cache := NewCache(app.Preferences())

	fn := cache.Listener()
	fn(playingState("a", 7))

	snap, ok := cache.Load()
	if !ok || snap.TrackID != "a" {
		t.Errorf("listener write not restorable, snap = %+v ok = %v", snap, ok)
	}
}

func TestClear(t *testing.T) {
	app := test.NewApp()
	cache := NewCache(app.Preferences())

	cache.Save(playingState("a", 1))
	cache.Clear()

	if _, ok := cache.Load(); ok {
		t.Error("cleared cache should be empty")
	}
}
