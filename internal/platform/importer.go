package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/wotu2038/AigcMusic/internal/model"
)

// Timeout constants
const (
	DefaultImportTimeout = 60 * time.Second
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// MediaPathTemplate is where the media server exposes a track's audio by id
const MediaPathTemplate = "/media/songs/%s.mp3"

// PlaylistImporter resolves a public playlist into track references that
// point at the media server. Only identity and title come from the playlist;
// durations are learned later from the device.
type PlaylistImporter struct {
	origin  string
	timeout time.Duration
}

// NewPlaylistImporter creates an importer building resource URLs against
// the given media origin
func NewPlaylistImporter(origin string) *PlaylistImporter {
	if origin == "" {
		origin = model.DefaultOrigin
	}
	return &PlaylistImporter{
		origin:  strings.TrimRight(origin, "/"),
		timeout: DefaultImportTimeout,
	}
}

// SetTimeout sets the timeout for import operations
func (p *PlaylistImporter) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// Import fetches all items of the playlist and maps them to track references
func (p *PlaylistImporter) Import(ctx context.Context, url string) ([]model.TrackRef, error) {
	if !p.isValidPlaylistURL(url) {
		return nil, fmt.Errorf("invalid playlist URL: %s", url)
	}

	playlistID := p.extractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %v", err)
	}

	tracks := make([]model.TrackRef, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		tracks = append(tracks, model.TrackRef{
			ID:          it.VideoID,
			ResourceURL: p.origin + fmt.Sprintf(MediaPathTemplate, it.VideoID),
			Title:       it.Title,
		})
	}
	return tracks, nil
}

// isValidPlaylistURL checks if the URL carries a playlist reference. A bare
// playlist ID is accepted too.
func (p *PlaylistImporter) isValidPlaylistURL(url string) bool {
	return strings.Contains(url, PlaylistParam) || !strings.Contains(url, "/")
}

// extractPlaylistID extracts the playlist ID from various URL formats
func (p *PlaylistImporter) extractPlaylistID(url string) string {
	if strings.Contains(url, PlaylistParam) {
		parts := strings.Split(url, PlaylistParam)
		if len(parts) > 1 {
			playlistPart := parts[1]
			if strings.Contains(playlistPart, ParamSeparator) {
				playlistPart = strings.Split(playlistPart, ParamSeparator)[0]
			}
			return playlistPart
		}
		return ""
	}
	// bare ID form
	if !strings.Contains(url, "/") && url != "" {
		return url
	}
	return ""
}
