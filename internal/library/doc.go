package library

// Package library loads the track catalogue. Tracks come from a YAML
// manifest or, when none exists, from scanning the music directory for
// playable files. Lyric files referenced by the manifest (or found as
// sidecars) are parsed on demand.
