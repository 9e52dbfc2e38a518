package model

import (
	"net/url"
	"os"
	"strings"
	"sync"
)

// Default origin used to resolve relative resource URLs. Mirrors the web
// client behavior where relative paths resolve against the page origin.
const DefaultOrigin = "http://localhost:8000"

var (
	originMu sync.RWMutex
	origin   = DefaultOrigin
)

// SetOrigin sets the origin used to resolve relative resource URLs.
// Called once at startup from configuration.
func SetOrigin(o string) {
	originMu.Lock()
	defer originMu.Unlock()
	if o != "" {
		origin = strings.TrimSuffix(o, "/")
	}
}

// Origin returns the configured resolution origin.
func Origin() string {
	originMu.RLock()
	defer originMu.RUnlock()
	return origin
}

// TrackRef identifies a playable track. At least one of ID/ResourceURL must
// be set for identity comparison to succeed; a ref carrying neither never
// equals anything, including itself.
type TrackRef struct {
	ID              string
	ResourceURL     string
	Title           string
	NominalDuration float64 // seconds, 0 if unknown; used before the real duration is known
}

// IsZero returns true if the ref carries no data at all.
func (t TrackRef) IsZero() bool {
	return t.ID == "" && t.ResourceURL == "" && t.Title == ""
}

// DisplayTitle returns the title, or the resource URL as a fallback
func (t TrackRef) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.ResourceURL
}

// NormalizeResourceURL converts a resource URL to absolute form so that
// relative and absolute spellings of the same resource compare equal.
// Unparseable input is returned unchanged.
func NormalizeResourceURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if u.IsAbs() {
		return u.String()
	}

	// local files play directly; only server-relative paths resolve
	// against the origin
	if _, statErr := os.Stat(raw); statErr == nil {
		return raw
	}

	base, err := url.Parse(Origin())
	if err != nil {
		return raw
	}
	return base.ResolveReference(u).String()
}

// SameTrack reports whether two refs denote the same track.
//
// Comparison order matters: a stable ID match short-circuits and skips URL
// comparison entirely. Without IDs on both sides, normalized resource URLs
// are compared. A ref missing both identities matches nothing.
func SameTrack(a, b TrackRef) bool {
	if a.ID != "" && b.ID != "" {
		return a.ID == b.ID
	}
	if a.ResourceURL != "" && b.ResourceURL != "" {
		return NormalizeResourceURL(a.ResourceURL) == NormalizeResourceURL(b.ResourceURL)
	}
	return false
}
