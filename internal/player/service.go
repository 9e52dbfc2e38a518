package player

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wotu2038/AigcMusic/internal/model"
)

// Default shared preference values
const (
	DefaultVolume = 1.0
	DefaultRate   = 1.0
)

// Subscriber is notified synchronously on every committed state change
type Subscriber func(model.PlaybackState)

// Service is the process-wide playback engine: the single source of truth
// for what is playing, where, and how. It owns the one Device for the whole
// application so audio never plays from two places at once.
//
// Construct exactly one Service at application start and inject it into the
// UI bindings; it is never torn down during a session.
type Service struct {
	mu     sync.Mutex
	device Device

	activeTrack *model.TrackRef
	status      model.TransportStatus
	isPlaying   bool
	position    float64
	duration    float64

	// shared across all tracks, last write wins
	volume float64
	rate   float64
	loop   bool

	// generation guards asynchronous load continuations: a continuation
	// captured under an older generation must discard its results
	generation uint64

	subscribers map[string]Subscriber
}

// NewService creates the playback engine around the given device
func NewService(device Device) *Service {
	s := &Service{
		device:      device,
		status:      model.StatusIdle,
		volume:      DefaultVolume,
		rate:        DefaultRate,
		subscribers: make(map[string]Subscriber),
	}
	device.SetEventHandler(s.handleDeviceEvent)
	device.SetVolume(DefaultVolume)
	device.SetRate(DefaultRate)
	return s
}

// Device returns the singleton media handle. Exposed for diagnostics only;
// callers must never mutate playback through it.
func (s *Service) Device() Device {
	return s.device
}

// State returns an immutable snapshot of the playback state
func (s *Service) State() model.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() model.PlaybackState {
	var track *model.TrackRef
	if s.activeTrack != nil {
		t := *s.activeTrack
		track = &t
	}
	return model.PlaybackState{
		ActiveTrack: track,
		Status:      s.status,
		IsPlaying:   s.isPlaying,
		Position:    s.position,
		Duration:    s.duration,
		Volume:      s.volume,
		Rate:        s.rate,
		Loop:        s.loop,
	}
}

// Subscribe registers a listener and returns its token for Unsubscribe.
// When notifyImmediately is set the listener receives the current state
// synchronously before Subscribe returns.
func (s *Service) Subscribe(fn Subscriber, notifyImmediately bool) string {
	s.mu.Lock()
	id, err := uuid.NewV7()
	token := id.String()
	if err != nil {
		token = fmt.Sprintf("sub-%d", time.Now().UnixNano())
	}
	s.subscribers[token] = fn
	state := s.snapshotLocked()
	s.mu.Unlock()

	if notifyImmediately {
		fn(state)
	}
	return token
}

// Unsubscribe removes a listener by its token
func (s *Service) Unsubscribe(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, token)
}

// notifyLocked snapshots state and subscribers under the lock; the returned
// closure performs the synchronous fan-out and must be called after unlock
// (subscribers may call back into the service).
func (s *Service) notifyLocked() func() {
	state := s.snapshotLocked()
	subs := make([]Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return func() {
		for _, fn := range subs {
			fn(state)
		}
	}
}

// SelectTrack makes the given track the active one.
//
// Selecting the currently active track only refreshes the stored reference
// (metadata may have changed) and notifies; position, duration and playback
// are untouched. A genuinely new track pauses the device, zeroes position
// and duration, optimistically keeps playing when autoPlayIfWasPlaying is
// set and the engine was playing, and notifies subscribers before any device
// work so the UI reflects the switch ahead of I/O latency. The subsequent
// load-and-play either starts playback or degrades silently to paused.
func (s *Service) SelectTrack(ctx context.Context, track model.TrackRef, autoPlayIfWasPlaying bool) {
	if track.ID == "" && track.ResourceURL == "" {
		// never comparable, selecting it would wedge identity checks
		log.Printf("ignoring track with no id and no resource url: %q", track.Title)
		return
	}

	s.mu.Lock()
	if s.activeTrack != nil && model.SameTrack(*s.activeTrack, track) {
		t := track
		s.activeTrack = &t
		notify := s.notifyLocked()
		s.mu.Unlock()
		notify()
		return
	}

	wasPlaying := s.isPlaying
	optimistic := autoPlayIfWasPlaying && wasPlaying

	t := track
	s.activeTrack = &t
	s.position = 0
	s.duration = 0
	s.isPlaying = optimistic
	if optimistic {
		s.status = model.StatusLoading
	} else {
		s.status = model.StatusPaused
	}
	s.generation++
	gen := s.generation
	notify := s.notifyLocked()
	s.mu.Unlock()

	if wasPlaying {
		s.device.Pause()
	}
	notify()

	if optimistic {
		s.loadAndPlay(ctx, gen, track)
	}
}

// loadAndPlay binds the device to the track and starts playback. Any result
// observed under a stale generation is discarded: a newer SelectTrack or
// TogglePlay owns the device by then.
func (s *Service) loadAndPlay(ctx context.Context, gen uint64, track model.TrackRef) {
	err := s.device.Bind(ctx, model.NormalizeResourceURL(track.ResourceURL))
	if s.stale(gen) {
		return
	}
	if err != nil {
		log.Printf("failed to load %s: %v", track.DisplayTitle(), err)
		s.failPlayback(gen)
		return
	}

	s.device.SeekTo(0)
	if err := s.device.Play(); err != nil {
		log.Printf("failed to play %s: %v", track.DisplayTitle(), err)
		s.failPlayback(gen)
		return
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.status = model.StatusPlaying
	s.isPlaying = true
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

func (s *Service) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.generation
}

// failPlayback is the silent-degrade path: playback failures force
// isPlaying=false through the normal notification channel, never an error
// to UI callers.
func (s *Service) failPlayback(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.isPlaying = false
	s.status = model.StatusPaused
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

// TogglePlay flips between playing and paused for the active track.
//
// Pausing asks the device to pause; the device's pause event is what
// confirms the state. Starting rebinds the device when its bound source no
// longer matches the active track (or nothing was ever bound), restores a
// nonzero stored position, and requests playback. Blocks until the device
// sequence completes or fails.
func (s *Service) TogglePlay(ctx context.Context) {
	s.mu.Lock()
	if s.activeTrack == nil || s.activeTrack.ResourceURL == "" {
		s.mu.Unlock()
		return
	}

	if s.isPlaying {
		s.isPlaying = false
		s.status = model.StatusPaused
		notify := s.notifyLocked()
		s.mu.Unlock()
		s.device.Pause()
		notify()
		return
	}

	track := *s.activeTrack
	resumePos := s.position
	s.generation++
	gen := s.generation
	s.status = model.StatusLoading
	s.mu.Unlock()

	target := model.NormalizeResourceURL(track.ResourceURL)
	bound := s.device.BoundURL()
	needsBind := bound == "" || model.NormalizeResourceURL(bound) != target

	if needsBind {
		if err := s.device.Bind(ctx, target); err != nil {
			log.Printf("failed to load %s: %v", track.DisplayTitle(), err)
			s.failPlayback(gen)
			return
		}
		if s.stale(gen) {
			return
		}
		// new binds start from zero unless we are resuming this track
		// from a stored position (session restore)
		s.device.SeekTo(resumePos)
	} else if resumePos > 0 {
		s.device.SeekTo(resumePos)
	}

	if err := s.device.Play(); err != nil {
		log.Printf("failed to play %s: %v", track.DisplayTitle(), err)
		s.failPlayback(gen)
		return
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.status = model.StatusPlaying
	s.isPlaying = true
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

// SeekTo clamps the target to [0, duration] and moves both the stored and
// the device position. No-op while the duration is unknown.
func (s *Service) SeekTo(seconds float64) {
	s.mu.Lock()
	if s.duration <= 0 {
		s.mu.Unlock()
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	if seconds > s.duration {
		seconds = s.duration
	}
	s.position = seconds
	notify := s.notifyLocked()
	s.mu.Unlock()

	s.device.SeekTo(seconds)
	notify()
}

// SetVolume sets the global volume, clamped to [0, 1]
func (s *Service) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.mu.Lock()
	s.volume = v
	notify := s.notifyLocked()
	s.mu.Unlock()

	s.device.SetVolume(v)
	notify()
}

// SetPlaybackRate sets the global playback speed; values <= 0 are ignored
func (s *Service) SetPlaybackRate(r float64) {
	if r <= 0 {
		return
	}
	s.mu.Lock()
	s.rate = r
	notify := s.notifyLocked()
	s.mu.Unlock()

	s.device.SetRate(r)
	notify()
}

// SetLoop sets the global loop flag
func (s *Service) SetLoop(loop bool) {
	s.mu.Lock()
	s.loop = loop
	notify := s.notifyLocked()
	s.mu.Unlock()

	s.device.SetLoop(loop)
	notify()
}

// ToggleLoop flips the global loop flag
func (s *Service) ToggleLoop() {
	s.mu.Lock()
	loop := !s.loop
	s.mu.Unlock()
	s.SetLoop(loop)
}

// Restore seeds the engine from a session cache snapshot at startup. Only
// valid while idle; the playing flag is adopted provisionally and confirmed
// or corrected once the user next interacts with the transport.
func (s *Service) Restore(cs model.CacheSnapshot) {
	s.mu.Lock()
	if s.status != model.StatusIdle {
		s.mu.Unlock()
		return
	}

	if track := cs.Track(); track != nil {
		s.activeTrack = track
		s.status = model.StatusPaused
		s.isPlaying = cs.IsPlaying
		s.position = cs.Position
		s.duration = cs.Duration
	}
	if cs.Volume > 0 {
		s.volume = cs.Volume
	}
	if cs.Rate > 0 {
		s.rate = cs.Rate
	}
	s.loop = cs.Loop
	volume, rate, loop := s.volume, s.rate, s.loop
	notify := s.notifyLocked()
	s.mu.Unlock()

	s.device.SetVolume(volume)
	s.device.SetRate(rate)
	s.device.SetLoop(loop)
	notify()
}

// AdoptSnapshot writes cached transport values back into the engine during
// view-mount reconciliation, when the cache shows the same track playing
// while the engine believes it is paused (a forced pause from a view
// lifecycle event, not the user). No notification is sent: the caller
// reconciles before it subscribes and renders from the returned state.
func (s *Service) AdoptSnapshot(cs model.CacheSnapshot) model.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()

	cachedTrack := cs.Track()
	if cachedTrack == nil || s.activeTrack == nil || !model.SameTrack(*cachedTrack, *s.activeTrack) {
		return s.snapshotLocked()
	}
	if !cs.IsPlaying || s.isPlaying {
		return s.snapshotLocked()
	}

	s.isPlaying = true
	s.status = model.StatusPlaying
	s.position = cs.Position
	if cs.Duration > 0 {
		s.duration = cs.Duration
	}
	return s.snapshotLocked()
}

// handleDeviceEvent applies device notifications to the shared state. Once a
// source is bound the device is the sole source of truth for isPlaying,
// position and duration; optimistic values set by SelectTrack/TogglePlay are
// provisional until confirmed or corrected here.
//
// Events for a source that no longer matches the active track are dropped: a
// superseded load continuation may still complete and emit a stray play
// event after a newer track was selected.
func (s *Service) handleDeviceEvent(ev Event) {
	s.mu.Lock()

	if !s.eventMatchesActiveLocked() {
		s.mu.Unlock()
		return
	}

	switch ev.Type {
	case EventPlay:
		s.isPlaying = true
		s.status = model.StatusPlaying
	case EventPause:
		s.isPlaying = false
		s.status = model.StatusPaused
	case EventEnded:
		if !s.loop {
			s.isPlaying = false
			s.status = model.StatusPaused
			s.position = 0
		}
	case EventTimeUpdate:
		s.position = ev.Position
	case EventDurationChange:
		if ev.Duration > 0 {
			s.duration = ev.Duration
		}
	case EventError:
		log.Printf("device error: %v", ev.Err)
		s.isPlaying = false
		s.status = model.StatusPaused
	}

	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

// eventMatchesActiveLocked reports whether the device's bound source still
// denotes the active track
func (s *Service) eventMatchesActiveLocked() bool {
	if s.activeTrack == nil {
		return false
	}
	bound := s.device.BoundURL()
	if bound == "" {
		// nothing bound yet: trust events from the initial load sequence
		return true
	}
	return model.NormalizeResourceURL(bound) == model.NormalizeResourceURL(s.activeTrack.ResourceURL)
}
