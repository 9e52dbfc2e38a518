package platform

// Package platform contains OS/platform integration and external tooling glue:
// filesystem helpers, playlist import via the ytdlp library, and OS reveal.
