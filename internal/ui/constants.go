package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconPause    = "⏸"
	IconLoop     = "🔁"
	IconMusic    = "🎵"
	IconError    = "❌"
	IconLanguage = "🌐"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
	TimeSeparator      = " / "
)

// Layout sizing (TrackRow / lists)
const (
	StatusLabelWidth float32 = 96
	TimeLabelWidth   float32 = 110

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 56
	RowDefaultH  float32 = 52

	LyricsPaneMinHeight float32 = 160
	ControlsRowHeight   float32 = 48
)

// Slider ranges for shared preferences
const (
	VolumeSliderMin float64 = 0
	VolumeSliderMax float64 = 1
	RateSliderMin   float64 = 0.5
	RateSliderMax   float64 = 2.0
)

// Refresh cadence for the position readout and lyric highlighting
const (
	LyricsHighlightDebounce = 100 * time.Millisecond
)

// Dialog sizing
const (
	SettingsDialogWidth  float32 = 420
	SettingsDialogHeight float32 = 260
	ImportDialogWidth    float32 = 420
)
