package ui

import (
	"context"
	"sync"

	"github.com/wotu2038/AigcMusic/internal/model"
	"github.com/wotu2038/AigcMusic/internal/player"
	"github.com/wotu2038/AigcMusic/internal/session"
)

// PlayerView is what a single consumer renders for its track. Transport
// fields are gated: a view whose track is not the active one always shows
// inert values, never another track's progress.
type PlayerView struct {
	Track         model.TrackRef
	IsCurrentSong bool
	IsPlaying     bool
	Position      float64
	Duration      float64

	// shared preferences, shown regardless of which track is active
	Volume float64
	Rate   float64
	Loop   bool
}

// Binding connects one UI consumer, identified by its TrackRef, to the
// global playback engine. It reconciles cached and live state on attach and
// exposes the narrow action surface views are allowed to use. The engine
// itself is never touched directly by widgets.
type Binding struct {
	mu    sync.Mutex
	svc   *player.Service
	cache *session.Cache
	track model.TrackRef

	token    string
	onChange func(PlayerView)

	// cache state adopted locally while the engine has no active track;
	// committed to the engine only on the next user interaction
	local *model.PlaybackState
}

// NewBinding creates a binding for the given track. Call Attach before use.
func NewBinding(svc *player.Service, cache *session.Cache, track model.TrackRef) *Binding {
	return &Binding{svc: svc, cache: cache, track: track}
}

// Attach reconciles cached and live state, subscribes for subsequent
// updates and returns the view to render first.
//
// Reconciliation rules: when the engine already has an active track its
// state wins, except that a cached playing snapshot overrides a live pause
// for the same track (a pause forced by a view lifecycle event, not the
// user). When the engine has no track but the cache does, the cached state
// is adopted for this view's rendering only; it reaches the engine when the
// user next interacts.
func (b *Binding) Attach(onChange func(PlayerView)) PlayerView {
	b.mu.Lock()
	b.onChange = onChange
	b.mu.Unlock()

	state := b.svc.State()
	if snap, ok := b.cache.Load(); ok && snap.HasTrack() {
		if state.HasTrack() {
			state = b.svc.AdoptSnapshot(snap)
		} else {
			local := model.PlaybackState{
				ActiveTrack: snap.Track(),
				Status:      model.StatusPaused,
				IsPlaying:   snap.IsPlaying,
				Position:    snap.Position,
				Duration:    snap.Duration,
				Volume:      state.Volume,
				Rate:        state.Rate,
				Loop:        state.Loop,
			}
			if snap.Volume > 0 {
				local.Volume = snap.Volume
			}
			if snap.Rate > 0 {
				local.Rate = snap.Rate
			}
			b.mu.Lock()
			b.local = &local
			b.mu.Unlock()
			state = local
		}
	}

	token := b.svc.Subscribe(b.handleUpdate, false)
	b.mu.Lock()
	b.token = token
	b.mu.Unlock()

	return b.viewFrom(state)
}

// Detach unregisters the subscription. Shared playback is left untouched
// so audio keeps playing across view changes.
func (b *Binding) Detach() {
	b.mu.Lock()
	token := b.token
	b.token = ""
	b.onChange = nil
	b.mu.Unlock()

	if token != "" {
		b.svc.Unsubscribe(token)
	}
}

// View returns the current gated view without waiting for a notification
func (b *Binding) View() PlayerView {
	state := b.svc.State()
	if !state.HasTrack() {
		b.mu.Lock()
		if b.local != nil {
			state = *b.local
		}
		b.mu.Unlock()
	}
	return b.viewFrom(state)
}

// TogglePlay starts or pauses playback for this binding's track. When the
// track is not the active one it is selected first, carrying the previous
// playing flag as the auto-play intent.
func (b *Binding) TogglePlay(ctx context.Context) {
	state := b.svc.State()
	current := state.ActiveTrack != nil && model.SameTrack(b.track, *state.ActiveTrack)
	if current {
		b.svc.TogglePlay(ctx)
		return
	}

	wasPlaying := state.IsPlaying
	if !state.HasTrack() {
		b.mu.Lock()
		if b.local != nil {
			wasPlaying = b.local.IsPlaying
		}
		b.mu.Unlock()
	}

	b.svc.SelectTrack(ctx, b.track, wasPlaying)
	if !wasPlaying {
		b.svc.TogglePlay(ctx)
	}
}

// SeekTo moves playback for the active track; ignored when this binding's
// track is not the active one.
func (b *Binding) SeekTo(seconds float64) {
	state := b.svc.State()
	if state.ActiveTrack == nil || !model.SameTrack(b.track, *state.ActiveTrack) {
		return
	}
	b.svc.SeekTo(seconds)
}

// Shared preference pass-throughs
func (b *Binding) SetVolume(v float64)       { b.svc.SetVolume(v) }
func (b *Binding) SetPlaybackRate(r float64) { b.svc.SetPlaybackRate(r) }
func (b *Binding) ToggleLoop()               { b.svc.ToggleLoop() }

func (b *Binding) handleUpdate(state model.PlaybackState) {
	b.mu.Lock()
	if state.HasTrack() {
		// the engine took over, the locally adopted cache state is obsolete
		b.local = nil
	}
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(b.viewFrom(state))
	}
}

// viewFrom gates the global state down to this binding's track
func (b *Binding) viewFrom(state model.PlaybackState) PlayerView {
	view := PlayerView{
		Track:  b.track,
		Volume: state.Volume,
		Rate:   state.Rate,
		Loop:   state.Loop,
	}
	if state.ActiveTrack != nil && model.SameTrack(b.track, *state.ActiveTrack) {
		view.IsCurrentSong = true
		view.IsPlaying = state.IsPlaying
		view.Position = state.Position
		view.Duration = state.Duration
	}
	if view.Duration == 0 {
		view.Duration = b.track.NominalDuration
	}
	return view
}
