package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/wotu2038/AigcMusic/internal/model"
	"github.com/wotu2038/AigcMusic/internal/player"
	"github.com/wotu2038/AigcMusic/internal/session"
)

// stubDevice reports success for everything and echoes transport requests
// back as events, which is how a healthy device behaves.
type stubDevice struct {
	mu      sync.Mutex
	handler func(player.Event)
	bound   string
	pos     float64
	dur     float64
}

func (d *stubDevice) emit(ev player.Event) {
	d.mu.Lock()
	fn := d.handler
	d.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func (d *stubDevice) SetEventHandler(fn func(player.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = fn
}

func (d *stubDevice) Bind(_ context.Context, resourceURL string) error {
	d.mu.Lock()
	d.bound = resourceURL
	d.pos = 0
	d.dur = 200
	d.mu.Unlock()
	d.emit(player.Event{Type: player.EventDurationChange, Duration: 200})
	return nil
}

func (d *stubDevice) BoundURL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bound
}

func (d *stubDevice) Play() error {
	d.emit(player.Event{Type: player.EventPlay})
	return nil
}

func (d *stubDevice) Pause() {
	d.emit(player.Event{Type: player.EventPause})
}

func (d *stubDevice) SeekTo(seconds float64) {
	d.mu.Lock()
	d.pos = seconds
	d.mu.Unlock()
	d.emit(player.Event{Type: player.EventTimeUpdate, Position: seconds})
}

func (d *stubDevice) Position() float64 { d.mu.Lock(); defer d.mu.Unlock(); return d.pos }
func (d *stubDevice) Duration() float64 { d.mu.Lock(); defer d.mu.Unlock(); return d.dur }
func (d *stubDevice) SetVolume(float64) {}
func (d *stubDevice) SetRate(float64)   {}
func (d *stubDevice) SetLoop(bool)      {}
func (d *stubDevice) Close() error      { return nil }

var (
	bindTrackA = model.TrackRef{ID: "a", ResourceURL: "https://host/a.mp3", Title: "A"}
	bindTrackB = model.TrackRef{ID: "b", ResourceURL: "https://host/b.mp3", Title: "B", NominalDuration: 240}
)

func newTestWorld(t *testing.T) (*player.Service, *session.Cache) {
	t.Helper()
	app := test.NewApp()
	return player.NewService(&stubDevice{}), session.NewCache(app.Preferences())
}

func cacheSnapshot(id string, playing bool, position float64) model.CacheSnapshot {
	return model.CacheSnapshot{
		TrackID:     id,
		ResourceURL: "https://host/" + id + ".mp3",
		Title:       id,
		IsPlaying:   playing,
		Position:    position,
		Duration:    200,
		Timestamp:   time.Now().UnixMilli(),
	}
}

func saveSnapshot(cache *session.Cache, cs model.CacheSnapshot) {
	cache.Save(model.PlaybackState{
		ActiveTrack: cs.Track(),
		IsPlaying:   cs.IsPlaying,
		Position:    cs.Position,
		Duration:    cs.Duration,
	})
}

func TestAttachPrefersLiveState(t *testing.T) {
	svc, cache := newTestWorld(t)
	ctx := context.Background()

	saveSnapshot(cache, cacheSnapshot("a", false, 99))
	svc.SelectTrack(ctx, bindTrackA, false)
	svc.TogglePlay(ctx)
	svc.SeekTo(30)

	b := NewBinding(svc, cache, bindTrackA)
	view := b.Attach(nil)

	if !view.IsCurrentSong || !view.IsPlaying {
		t.Errorf("view = %+v, want current and playing from live state", view)
	}
	if view.Position != 30 {
		t.Errorf("position = %v, want 30 (live state wins over cache)", view.Position)
	}
}

func TestAttachTrustsCachedPlayOverLivePause(t *testing.T) {
	svc, cache := newTestWorld(t)
	ctx := context.Background()

	svc.SelectTrack(ctx, bindTrackA, false) // selected but paused
	saveSnapshot(cache, cacheSnapshot("a", true, 64))

	b := NewBinding(svc, cache, bindTrackA)
	view := b.Attach(nil)

	if !view.IsPlaying {
		t.Error("cached playing over live paused must win for the same track")
	}
	if view.Position != 64 {
		t.Errorf("position = %v, want 64 from cache", view.Position)
	}

	// and the values were written back into the engine
	state := svc.State()
	if !state.IsPlaying || state.Position != 64 {
		t.Errorf("engine state = playing=%v pos=%v, want true/64", state.IsPlaying, state.Position)
	}
}

func TestAttachAdoptsCacheLocallyWhenEngineIdle(t *testing.T) {
	svc, cache := newTestWorld(t)

	saveSnapshot(cache, cacheSnapshot("a", true, 45))

	b := NewBinding(svc, cache, bindTrackA)
	view := b.Attach(nil)

	if !view.IsCurrentSong || !view.IsPlaying || view.Position != 45 {
		t.Errorf("view = %+v, want cached state adopted locally", view)
	}
	if svc.State().HasTrack() {
		t.Error("lazy adoption must not push the cached track into the engine")
	}
}

func TestViewGatesOtherTracks(t *testing.T) {
	svc, cache := newTestWorld(t)
	ctx := context.Background()

	svc.SelectTrack(ctx, bindTrackA, false)
	svc.TogglePlay(ctx)

	b := NewBinding(svc, cache, bindTrackB)
	view := b.Attach(nil)

	if view.IsCurrentSong {
		t.Error("track B view must not be current while A is active")
	}
	if view.IsPlaying || view.Position != 0 {
		t.Errorf("view = %+v, want inert transport fields", view)
	}
	if view.Duration != 240 {
		t.Errorf("duration = %v, want nominal duration fallback", view.Duration)
	}
}

func TestTogglePlayCurrentTrack(t *testing.T) {
	svc, cache := newTestWorld(t)
	ctx := context.Background()

	svc.SelectTrack(ctx, bindTrackA, false)
	b := NewBinding(svc, cache, bindTrackA)
	b.Attach(nil)

	b.TogglePlay(ctx)
	if !svc.State().IsPlaying {
		t.Error("toggle on the current track should start playback")
	}
	b.TogglePlay(ctx)
	if svc.State().IsPlaying {
		t.Error("second toggle should pause")
	}
}

func TestTogglePlaySwitchesTrackWhilePlaying(t *testing.T) {
	svc, cache := newTestWorld(t)
	ctx := context.Background()

	svc.SelectTrack(ctx, bindTrackA, false)
	svc.TogglePlay(ctx)

	b := NewBinding(svc, cache, bindTrackB)
	b.Attach(nil)
	b.TogglePlay(ctx)

	state := svc.State()
	if state.ActiveTrack == nil || state.ActiveTrack.ID != "b" {
		t.Fatalf("active track = %+v, want b", state.ActiveTrack)
	}
	if !state.IsPlaying {
		t.Error("switching tracks mid-play should keep playing")
	}
}

func TestTogglePlaySwitchesTrackWhilePaused(t *testing.T) {
	svc, cache := newTestWorld(t)
	ctx := context.Background()

	svc.SelectTrack(ctx, bindTrackA, false)

	b := NewBinding(svc, cache, bindTrackB)
	b.Attach(nil)
	b.TogglePlay(ctx)

	state := svc.State()
	if state.ActiveTrack == nil || state.ActiveTrack.ID != "b" {
		t.Fatalf("active track = %+v, want b", state.ActiveTrack)
	}
	if !state.IsPlaying {
		t.Error("toggling a non-current track from pause should play it")
	}
}

func TestSeekToIgnoredForOtherTrack(t *testing.T) {
	svc, cache := newTestWorld(t)
	ctx := context.Background()

	svc.SelectTrack(ctx, bindTrackA, false)
	svc.TogglePlay(ctx)
	svc.SeekTo(10)

	b := NewBinding(svc, cache, bindTrackB)
	b.Attach(nil)
	b.SeekTo(50)

	if got := svc.State().Position; got != 10 {
		t.Errorf("position = %v, want 10 (seek from a non-current view ignored)", got)
	}
}

func TestDetachStopsNotifications(t *testing.T) {
	svc, cache := newTestWorld(t)
	ctx := context.Background()

	var calls int
	b := NewBinding(svc, cache, bindTrackA)
	b.Attach(func(PlayerView) { calls++ })

	svc.SelectTrack(ctx, bindTrackA, false)
	if calls == 0 {
		t.Fatal("attached binding should receive updates")
	}

	before := calls
	b.Detach()
	svc.SetVolume(0.3)
	if calls != before {
		t.Errorf("detached binding still notified, calls = %d want %d", calls, before)
	}
}

func TestLocalAdoptionDroppedOnceEngineActive(t *testing.T) {
	svc, cache := newTestWorld(t)
	ctx := context.Background()

	saveSnapshot(cache, cacheSnapshot("a", false, 45))

	var last PlayerView
	b := NewBinding(svc, cache, bindTrackA)
	b.Attach(func(v PlayerView) { last = v })

	svc.SelectTrack(ctx, bindTrackA, false)
	if last.Position != 0 {
		t.Errorf("position = %v, want 0 (engine state replaces local adoption)", last.Position)
	}
	if view := b.View(); view.Position != 0 {
		t.Errorf("View() position = %v, want engine state", view.Position)
	}
}
