package session

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"github.com/wotu2038/AigcMusic/internal/model"
)

// Cache key for Fyne preferences
const KeyPlayerState = "audio_player_state"

const (
	// SnapshotExpiry is how long a persisted snapshot stays restorable
	SnapshotExpiry = 5 * time.Minute

	// SaveThrottle limits position-only writes to one per interval
	SaveThrottle = time.Second
)

// Cache persists playback snapshots to the app preferences so a session
// survives view remounts. It mirrors state, never owns it: a snapshot that
// is missing, corrupt or expired degrades to nothing, and writes are
// best-effort.
type Cache struct {
	mu    sync.Mutex
	prefs fyne.Preferences
	now   func() time.Time

	disabled  bool
	lastWrite time.Time
	lastSnap  model.CacheSnapshot
	hasSnap   bool
}

// NewCache creates a session cache over the given preferences store.
// A nil store disables the cache entirely.
func NewCache(prefs fyne.Preferences) *Cache {
	return &Cache{
		prefs:    prefs,
		now:      time.Now,
		disabled: prefs == nil,
	}
}

// Listener returns a subscriber that persists every significant state change.
// Hand it to the playback engine's Subscribe.
func (c *Cache) Listener() func(model.PlaybackState) {
	return func(ps model.PlaybackState) {
		c.Save(ps)
	}
}

// Save persists a snapshot of the given state. Writes happen immediately when
// isPlaying or the track identity changed; position-only updates are
// throttled so playback ticks do not hammer storage.
func (c *Cache) Save(ps model.PlaybackState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return
	}

	now := c.now()
	snap := model.NewCacheSnapshot(ps, now)

	significant := !c.hasSnap ||
		snap.IsPlaying != c.lastSnap.IsPlaying ||
		!sameIdentity(snap, c.lastSnap)
	if !significant && now.Sub(c.lastWrite) < SaveThrottle {
		return
	}

	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("failed to encode playback snapshot: %v", err)
		return
	}

	c.prefs.SetString(KeyPlayerState, string(data))
	c.lastWrite = now
	c.lastSnap = snap
	c.hasSnap = true
}

// Load reads the persisted snapshot. Returns false when nothing usable is
// stored: absent, corrupt (the record is cleared and further writes are
// disabled for the session) or older than the expiry window (the record is
// removed lazily).
func (c *Cache) Load() (model.CacheSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return model.CacheSnapshot{}, false
	}

	raw := c.prefs.String(KeyPlayerState)
	if raw == "" {
		return model.CacheSnapshot{}, false
	}

	var snap model.CacheSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		log.Printf("discarding corrupt playback snapshot: %v", err)
		c.prefs.RemoveValue(KeyPlayerState)
		c.disabled = true
		return model.CacheSnapshot{}, false
	}

	if snap.Age(c.now()) > SnapshotExpiry {
		c.prefs.RemoveValue(KeyPlayerState)
		return model.CacheSnapshot{}, false
	}

	return snap, true
}

// Clear removes the persisted snapshot
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return
	}
	c.prefs.RemoveValue(KeyPlayerState)
	c.hasSnap = false
}

// sameIdentity reports whether two snapshots denote the same track,
// including both being trackless
func sameIdentity(a, b model.CacheSnapshot) bool {
	ta, tb := a.Track(), b.Track()
	if ta == nil || tb == nil {
		return ta == nil && tb == nil
	}
	return model.SameTrack(*ta, *tb)
}
