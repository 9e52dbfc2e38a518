package ui

// Package ui contains the Fyne-based desktop user interface for the player.
// It binds widgets to the playback engine through per-track view bindings,
// renders the library, transport controls and lyrics, and handles settings.
// All UI strings are localized via Localization.
