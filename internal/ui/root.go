package ui

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/wotu2038/AigcMusic/internal/config"
	"github.com/wotu2038/AigcMusic/internal/library"
	"github.com/wotu2038/AigcMusic/internal/lyrics"
	"github.com/wotu2038/AigcMusic/internal/model"
	"github.com/wotu2038/AigcMusic/internal/platform"
	"github.com/wotu2038/AigcMusic/internal/player"
	"github.com/wotu2038/AigcMusic/internal/session"
)

// Playback rate choices offered in the controls row
var rateOptions = []string{"0.5x", "0.75x", "1.0x", "1.25x", "1.5x", "2.0x"}

// RootUI is the main application window: the library list, the transport
// controls for the active track and the lyrics pane.
type RootUI struct {
	app    fyne.App
	window fyne.Window

	playerSvc    *player.Service
	cache        *session.Cache
	settings     *config.Settings
	localization *Localization
	lib          *library.Library
	importer     *platform.PlaylistImporter
	lyricsClient *lyrics.Client

	// UI components
	trackListBox *fyne.Container
	rows         []*TrackRow

	nowPlayingLabel *widget.Label
	positionLabel   *widget.Label
	seekSlider      *widget.Slider
	playPauseBtn    *widget.Button
	volumeSlider    *widget.Slider
	rateSelect      *widget.Select
	loopCheck       *widget.Check
	lyricsView      *LyricsView

	settingsDialog *SettingsDialog

	subToken string

	// guards against feeding slider callbacks back into the engine while
	// the engine itself is updating the controls
	updatingControls bool
	seeking          bool

	// identity key of the track whose lyrics are currently loaded
	lyricsTrackID string
}

// NewRootUI creates the root window controller
func NewRootUI(
	app fyne.App,
	window fyne.Window,
	playerSvc *player.Service,
	cache *session.Cache,
	settings *config.Settings,
	localization *Localization,
	lib *library.Library,
	importer *platform.PlaylistImporter,
) *RootUI {
	return &RootUI{
		app:          app,
		window:       window,
		playerSvc:    playerSvc,
		cache:        cache,
		settings:     settings,
		localization: localization,
		lib:          lib,
		importer:     importer,
		lyricsClient: lyrics.NewClient(),
	}
}

// CreateUI builds the window content and subscribes to the playback engine
func (r *RootUI) CreateUI() fyne.CanvasObject {
	r.createControls()
	r.createTrackList()
	r.lyricsView = NewLyricsView(r.localization)
	r.settingsDialog = NewSettingsDialog(r.settings, r.localization, r.window)
	r.settingsDialog.SetOnSaved(r.reloadLibrary)

	toolbarItems := []fyne.CanvasObject{}
	if logo, err := LoadLogoResource(); err == nil {
		logoImage := canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(32, 32))
		logoImage.FillMode = canvas.ImageFillContain
		toolbarItems = append(toolbarItems, logoImage)
	}
	toolbarItems = append(toolbarItems,
		widget.NewLabel(r.localization.GetText(KeyLibrary)),
		widget.NewButton(IconSettings+" "+r.localization.GetText(KeySettings), func() {
			r.settingsDialog.Show()
		}),
		widget.NewButton(r.localization.GetText(KeyImportPlaylist), r.showImportDialog),
		widget.NewButton(r.localization.GetText(KeyShowInFolder), r.showLibraryInFolder),
	)
	toolbar := container.NewHBox(toolbarItems...)

	listScroll := container.NewVScroll(r.trackListBox)
	left := container.NewBorder(toolbar, nil, nil, nil, listScroll)

	lyricsHeader := widget.NewLabel(r.localization.GetText(KeyLyrics))
	lyricsHeader.TextStyle = fyne.TextStyle{Bold: true}
	right := container.NewBorder(lyricsHeader, nil, nil, nil, r.lyricsView)

	controls := r.buildControlsRow()
	split := container.NewHSplit(left, right)
	split.SetOffset(0.6)

	content := container.NewBorder(nil, controls, nil, nil, split)

	// engine updates drive everything below the toolbar
	r.subToken = r.playerSvc.Subscribe(r.onPlaybackChange, true)

	return content
}

// Close releases the engine subscription
func (r *RootUI) Close() {
	if r.subToken != "" {
		r.playerSvc.Unsubscribe(r.subToken)
		r.subToken = ""
	}
	for _, row := range r.rows {
		row.Detach()
	}
}

// createControls creates the transport widgets for the active track
func (r *RootUI) createControls() {
	r.nowPlayingLabel = widget.NewLabel(r.localization.GetText(KeyNothingSelected))
	r.nowPlayingLabel.TextStyle = fyne.TextStyle{Bold: true}
	r.nowPlayingLabel.Truncation = fyne.TextTruncateEllipsis

	r.positionLabel = widget.NewLabel(model.FormatClock(0) + TimeSeparator + model.FormatClock(0))
	r.positionLabel.TextStyle = fyne.TextStyle{Monospace: true}

	r.seekSlider = widget.NewSlider(0, 1)
	r.seekSlider.Step = 0.1
	r.seekSlider.OnChanged = func(float64) {
		if !r.updatingControls {
			r.seeking = true
		}
	}
	r.seekSlider.OnChangeEnded = func(v float64) {
		r.seeking = false
		if r.updatingControls {
			return
		}
		r.playerSvc.SeekTo(v)
	}

	r.playPauseBtn = widget.NewButton(IconPlay, func() {
		go r.playerSvc.TogglePlay(context.Background())
	})
	r.playPauseBtn.Importance = widget.HighImportance

	r.volumeSlider = widget.NewSlider(VolumeSliderMin, VolumeSliderMax)
	r.volumeSlider.Step = 0.05
	r.volumeSlider.OnChangeEnded = func(v float64) {
		if !r.updatingControls {
			r.playerSvc.SetVolume(v)
		}
	}

	r.rateSelect = widget.NewSelect(rateOptions, func(selected string) {
		if r.updatingControls {
			return
		}
		rate, err := strconv.ParseFloat(strings.TrimSuffix(selected, "x"), 64)
		if err != nil {
			log.Printf("bad rate option %q: %v", selected, err)
			return
		}
		r.playerSvc.SetPlaybackRate(rate)
	})

	r.loopCheck = widget.NewCheck(r.localization.GetText(KeyLoop), func(on bool) {
		if !r.updatingControls {
			r.playerSvc.SetLoop(on)
		}
	})
}

// buildControlsRow lays out the transport controls
func (r *RootUI) buildControlsRow() fyne.CanvasObject {
	nowPlaying := container.NewBorder(nil, nil,
		widget.NewLabel(r.localization.GetText(KeyNowPlaying)+":"), r.positionLabel,
		r.nowPlayingLabel,
	)

	prefs := container.NewHBox(
		r.playPauseBtn,
		widget.NewLabel(r.localization.GetText(KeyVolume)),
	)
	prefsRight := container.NewHBox(
		widget.NewLabel(r.localization.GetText(KeyRate)),
		r.rateSelect,
		r.loopCheck,
	)
	prefRow := container.NewBorder(nil, nil, prefs, prefsRight, r.volumeSlider)

	return container.NewVBox(
		widget.NewSeparator(),
		nowPlaying,
		r.seekSlider,
		prefRow,
	)
}

// createTrackList builds one bound row per library track
func (r *RootUI) createTrackList() {
	r.trackListBox = container.NewVBox()
	for _, track := range r.lib.Tracks() {
		binding := NewBinding(r.playerSvc, r.cache, track)
		row := NewTrackRow(track, binding, r.localization)
		r.rows = append(r.rows, row)
		r.trackListBox.Add(row)
	}
}

// reloadLibrary re-reads the manifest after settings changed
func (r *RootUI) reloadLibrary() {
	lib, err := library.Load(r.settings.GetLibraryPath())
	if err != nil {
		log.Printf("failed to reload library: %v", err)
		dialog.ShowError(err, r.window)
		return
	}
	if lib.Origin() != "" {
		model.SetOrigin(lib.Origin())
	}
	r.lib = lib
	r.rebuildTrackList()
}

// rebuildTrackList replaces the rows after the library changed
func (r *RootUI) rebuildTrackList() {
	fyne.Do(func() {
		for _, row := range r.rows {
			row.Detach()
		}
		r.rows = nil
		r.trackListBox.RemoveAll()
		for _, track := range r.lib.Tracks() {
			binding := NewBinding(r.playerSvc, r.cache, track)
			row := NewTrackRow(track, binding, r.localization)
			r.rows = append(r.rows, row)
			r.trackListBox.Add(row)
		}
		r.trackListBox.Refresh()
	})
}

// showLibraryInFolder reveals the library manifest in the system file manager
func (r *RootUI) showLibraryInFolder() {
	if err := platform.OpenFileInManager(r.settings.GetLibraryPath()); err != nil {
		log.Printf("failed to open library in file manager: %v", err)
	}
}

// showImportDialog asks for a playlist reference and imports it
func (r *RootUI) showImportDialog() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder(r.localization.GetText(KeyEnterPlaylist))

	d := dialog.NewCustomConfirm(
		r.localization.GetText(KeyImportPlaylist),
		r.localization.GetText(KeySave),
		r.localization.GetText(KeyCancel),
		entry,
		func(ok bool) {
			if !ok || entry.Text == "" {
				return
			}
			go r.runImport(entry.Text)
		},
		r.window,
	)
	d.Resize(fyne.NewSize(ImportDialogWidth, 0))
	d.Show()
}

// runImport fetches the playlist and merges it into the library
func (r *RootUI) runImport(ref string) {
	tracks, err := r.importer.Import(context.Background(), ref)
	if err != nil {
		log.Printf("playlist import failed: %v", err)
		fyne.Do(func() {
			dialog.ShowError(fmt.Errorf("%s: %v", r.localization.GetText(KeyImportFailed), err), r.window)
		})
		return
	}

	added := r.lib.Add(tracks)
	log.Printf("imported %d tracks (%d new)", len(tracks), added)
	if added > 0 {
		if err := r.lib.Save(r.settings.GetLibraryPath()); err != nil {
			log.Printf("failed to save library: %v", err)
		}
		r.rebuildTrackList()
	}
}

// onPlaybackChange updates the transport controls and the lyrics pane
func (r *RootUI) onPlaybackChange(state model.PlaybackState) {
	fyne.Do(func() {
		r.updatingControls = true
		defer func() { r.updatingControls = false }()

		if state.ActiveTrack != nil {
			r.nowPlayingLabel.SetText(state.ActiveTrack.DisplayTitle())
		} else {
			r.nowPlayingLabel.SetText(r.localization.GetText(KeyNothingSelected))
		}

		r.positionLabel.SetText(
			model.FormatClock(state.Position) + TimeSeparator + model.FormatClock(state.Duration))

		if state.Duration > 0 {
			r.seekSlider.Max = state.Duration
			if !r.seeking {
				r.seekSlider.SetValue(state.Position)
			}
		} else {
			r.seekSlider.Max = 1
			r.seekSlider.SetValue(0)
		}

		if state.IsPlaying {
			r.playPauseBtn.SetText(IconPause)
		} else {
			r.playPauseBtn.SetText(IconPlay)
		}

		r.volumeSlider.SetValue(state.Volume)
		r.rateSelect.SetSelected(formatRate(state.Rate))
		r.loopCheck.SetChecked(state.Loop)
	})

	r.updateLyrics(state)
}

// updateLyrics keeps the pane in sync with the active track and position
func (r *RootUI) updateLyrics(state model.PlaybackState) {
	if state.ActiveTrack == nil {
		if r.lyricsTrackID != "" {
			r.lyricsTrackID = ""
			r.lyricsView.SetDocument(lyrics.Document{})
		}
		return
	}

	track := *state.ActiveTrack
	key := track.ID + "|" + track.ResourceURL
	if key != r.lyricsTrackID {
		r.lyricsTrackID = key
		doc := r.lib.LyricsFor(track)
		r.lyricsView.SetDocument(doc)
		if len(doc.Lines) == 0 {
			go r.fetchRemoteLyrics(track)
		}
	}
	r.lyricsView.SetPosition(state.Position)
}

// fetchRemoteLyrics asks LRCLib when the library has nothing for the track
func (r *RootUI) fetchRemoteLyrics(track model.TrackRef) {
	result, err := r.lyricsClient.Fetch(context.Background(), "", track.DisplayTitle(), "")
	if err != nil {
		log.Printf("lyrics fetch failed for %s: %v", track.DisplayTitle(), err)
		return
	}
	raw := result.Best()
	if raw == "" {
		return
	}

	// the user may have switched tracks while the request was running
	state := r.playerSvc.State()
	if state.ActiveTrack == nil || !model.SameTrack(track, *state.ActiveTrack) {
		return
	}
	r.lyricsView.SetDocument(lyrics.Parse(raw))
}

// formatRate renders a playback rate the way the select options are written
func formatRate(rate float64) string {
	for _, opt := range rateOptions {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(opt, "x"), 64); err == nil && v == rate {
			return opt
		}
	}
	return fmt.Sprintf("%.2gx", rate)
}
