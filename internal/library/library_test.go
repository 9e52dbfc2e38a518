package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wotu2038/AigcMusic/internal/lyrics"
	"github.com/wotu2038/AigcMusic/internal/model"
)

const sampleManifest = `origin: https://media.example.com
tracks:
  - id: song-1
    url: /media/songs/song-1.mp3
    title: First Song
    duration: 215
    lyrics_file: song-1.lrc
  - id: song-2
    url: https://cdn.example.com/song-2.mp3
    title: Second Song
  - title: No Identity
`

func writeManifest(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "library.yaml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir)

	lib, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tracks := lib.Tracks()
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2 (identity-less entry skipped)", len(tracks))
	}
	if tracks[0].ID != "song-1" || tracks[0].Title != "First Song" {
		t.Errorf("first track = %+v", tracks[0])
	}
	if tracks[0].NominalDuration != 215 {
		t.Errorf("nominal duration = %v, want 215", tracks[0].NominalDuration)
	}
	// server-relative paths pass through for origin resolution at play time
	if tracks[0].ResourceURL != "/media/songs/song-1.mp3" {
		t.Errorf("resource url = %q", tracks[0].ResourceURL)
	}
	if tracks[1].ResourceURL != "https://cdn.example.com/song-2.mp3" {
		t.Errorf("absolute url changed: %q", tracks[1].ResourceURL)
	}
	if lib.Origin() != "https://media.example.com" {
		t.Errorf("origin = %q", lib.Origin())
	}
}

func TestLoadMissingManifestScansDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"alpha.mp3", "beta.flac", "readme.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// sidecar lyrics for alpha
	if err := os.WriteFile(filepath.Join(dir, "alpha.lrc"), []byte("[00:01.00]Hello"), 0644); err != nil {
		t.Fatal(err)
	}

	lib, err := Load(filepath.Join(dir, "library.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tracks := lib.Tracks()
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2 from scan", len(tracks))
	}

	doc := lib.LyricsFor(tracks[0])
	if doc.Format != lyrics.FormatTimed || len(doc.Lines) != 1 {
		t.Errorf("sidecar lyrics not picked up: %+v", doc)
	}
}

func TestLoadCorruptManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.yaml")
	if err := os.WriteFile(path, []byte("tracks: [not: {valid"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("corrupt manifest should fail to load")
	}
}

func TestLyricsForTrackWithoutFile(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir)
	lib, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	doc := lib.LyricsFor(model.TrackRef{ID: "song-2"})
	if len(doc.Lines) != 0 {
		t.Errorf("expected empty document, got %+v", doc)
	}
}

func TestLyricsForManifestFile(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "song-1.lrc"), []byte("[00:05.00]Line one\n[00:10.00]Line two"), 0644); err != nil {
		t.Fatal(err)
	}

	lib, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	doc := lib.LyricsFor(model.TrackRef{ID: "song-1"})
	if doc.Format != lyrics.FormatTimed {
		t.Fatalf("format = %s, want timed", doc.Format)
	}
	if len(doc.Lines) != 2 || doc.Lines[1].Text != "Line two" {
		t.Errorf("lines = %+v", doc.Lines)
	}
}

func TestAddSkipsDuplicates(t *testing.T) {
	dir := t.TempDir()
	lib, err := Load(writeManifest(t, dir))
	if err != nil {
		t.Fatal(err)
	}

	added := lib.Add([]model.TrackRef{
		{ID: "song-1", ResourceURL: "/elsewhere.mp3", Title: "Dup by id"},
		{ID: "song-9", ResourceURL: "/media/songs/song-9.mp3", Title: "New"},
		{Title: "no identity"},
	})

	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	if len(lib.Tracks()) != 3 {
		t.Errorf("track count = %d, want 3", len(lib.Tracks()))
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	lib, err := Load(writeManifest(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	lib.Add([]model.TrackRef{{ID: "song-9", ResourceURL: "/media/songs/song-9.mp3", Title: "Added"}})

	out := filepath.Join(dir, "out", "library.yaml")
	if err := lib.Save(out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(out)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Tracks()) != 3 {
		t.Errorf("reloaded %d tracks, want 3", len(reloaded.Tracks()))
	}
	if reloaded.Origin() != "https://media.example.com" {
		t.Errorf("origin lost on save: %q", reloaded.Origin())
	}
}
