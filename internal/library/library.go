package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wotu2038/AigcMusic/internal/lyrics"
	"github.com/wotu2038/AigcMusic/internal/model"
	"github.com/wotu2038/AigcMusic/internal/platform"
)

// ManifestFileName is where the default library manifest lives, relative to
// the music directory
const ManifestFileName = "library.yaml"

// Entry describes one track in the manifest
type Entry struct {
	ID         string  `yaml:"id"`
	URL        string  `yaml:"url"`
	Title      string  `yaml:"title"`
	Duration   float64 `yaml:"duration"`
	LyricsFile string  `yaml:"lyrics_file"`
}

// Manifest is the on-disk library format
type Manifest struct {
	Origin string  `yaml:"origin"`
	Tracks []Entry `yaml:"tracks"`
}

// Library holds the resolved track list and the lyric file mapping
type Library struct {
	baseDir    string
	origin     string
	tracks     []model.TrackRef
	lyricFiles map[string]string // track id -> lyrics path
}

// New returns an empty library rooted at the given directory
func New(baseDir string) *Library {
	return &Library{baseDir: baseDir, lyricFiles: make(map[string]string)}
}

// Load reads a YAML manifest. A missing file is not an error; the directory
// holding the manifest is scanned for playable files instead so a plain
// folder of audio works without any setup.
func Load(path string) (*Library, error) {
	lib := &Library{
		baseDir:    filepath.Dir(path),
		lyricFiles: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lib.fromScan()
		}
		return nil, fmt.Errorf("failed to read library %s: %w", path, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse library %s: %w", path, err)
	}

	lib.origin = manifest.Origin
	for _, entry := range manifest.Tracks {
		if entry.ID == "" && entry.URL == "" {
			// not selectable, identity comparison needs at least one
			continue
		}
		lib.tracks = append(lib.tracks, model.TrackRef{
			ID:              entry.ID,
			ResourceURL:     lib.resolvePath(entry.URL),
			Title:           entry.Title,
			NominalDuration: entry.Duration,
		})
		if entry.LyricsFile != "" && entry.ID != "" {
			lib.lyricFiles[entry.ID] = lib.resolvePath(entry.LyricsFile)
		}
	}
	return lib, nil
}

// fromScan builds the library from the audio files next to the manifest
func (l *Library) fromScan() (*Library, error) {
	tracks, err := platform.ScanAudioDir(l.baseDir)
	if err != nil {
		return nil, err
	}
	l.tracks = tracks

	// pick up sidecar lyric files by stem
	for _, track := range tracks {
		for _, ext := range []string{".lrc", ".srt", ".txt"} {
			candidate := strings.TrimSuffix(track.ResourceURL, filepath.Ext(track.ResourceURL)) + ext
			if _, err := os.Stat(candidate); err == nil {
				l.lyricFiles[track.ID] = candidate
				break
			}
		}
	}
	return l, nil
}

// resolvePath leaves absolute paths and URLs alone and anchors bare relative
// paths at the manifest directory
func (l *Library) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) ||
		strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") ||
		strings.HasPrefix(p, "/") {
		return p
	}
	return filepath.Join(l.baseDir, p)
}

// Origin returns the media origin declared by the manifest, if any
func (l *Library) Origin() string {
	return l.origin
}

// Tracks returns the library's tracks in manifest (or scan) order
func (l *Library) Tracks() []model.TrackRef {
	out := make([]model.TrackRef, len(l.tracks))
	copy(out, l.tracks)
	return out
}

// Add appends tracks, skipping ones already present, and returns how many
// were actually added
func (l *Library) Add(tracks []model.TrackRef) int {
	added := 0
	for _, track := range tracks {
		if track.ID == "" && track.ResourceURL == "" {
			continue
		}
		exists := false
		for _, have := range l.tracks {
			if model.SameTrack(have, track) {
				exists = true
				break
			}
		}
		if !exists {
			l.tracks = append(l.tracks, track)
			added++
		}
	}
	return added
}

// LyricsFor loads and parses the lyric document for the track. Returns a
// zero Document when the track has no lyric file or it cannot be read.
func (l *Library) LyricsFor(track model.TrackRef) lyrics.Document {
	path, ok := l.lyricFiles[track.ID]
	if !ok {
		return lyrics.Document{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return lyrics.Document{}
	}
	return lyrics.Parse(string(data))
}

// Save writes the library back as a manifest at the given path
func (l *Library) Save(path string) error {
	manifest := Manifest{Origin: l.origin}
	for _, track := range l.tracks {
		entry := Entry{
			ID:       track.ID,
			URL:      track.ResourceURL,
			Title:    track.Title,
			Duration: track.NominalDuration,
		}
		if lf, ok := l.lyricFiles[track.ID]; ok {
			entry.LyricsFile = lf
		}
		manifest.Tracks = append(manifest.Tracks, entry)
	}
	sort.SliceStable(manifest.Tracks, func(i, j int) bool {
		return manifest.Tracks[i].Title < manifest.Tracks[j].Title
	})

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal library: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write library %s: %w", path, err)
	}
	return nil
}

// DefaultManifestPath returns the default library location under the user's
// music directory
func DefaultManifestPath() string {
	dir, err := platform.GetHomeMusicDir()
	if err != nil {
		return ManifestFileName
	}
	return filepath.Join(dir, ManifestFileName)
}
