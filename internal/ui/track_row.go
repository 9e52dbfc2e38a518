package ui

import (
	"context"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/wotu2038/AigcMusic/internal/model"
)

// TrackRow represents a compact track row widget
type TrackRow struct {
	widget.BaseWidget

	track        model.TrackRef
	binding      *Binding
	localization *Localization

	view PlayerView

	// UI components
	titleLabel  *widget.Label
	statusLabel *widget.Label
	timeLabel   *widget.Label

	// Action buttons
	playPauseBtn *widget.Button

	// Callbacks
	onSelect func(track model.TrackRef)
}

// NewTrackRow creates a new track row widget bound to the playback engine
func NewTrackRow(track model.TrackRef, binding *Binding, localization *Localization) *TrackRow {
	if binding == nil {
		log.Printf("Warning: NewTrackRow called with nil binding for %s", track.DisplayTitle())
	}

	tr := &TrackRow{
		track:        track,
		binding:      binding,
		localization: localization,
	}
	tr.ExtendBaseWidget(tr)
	tr.createUI()

	if binding != nil {
		tr.view = binding.Attach(tr.applyView)
		tr.updateFromView()
	}
	return tr
}

// SetOnSelect sets the row selection callback
func (tr *TrackRow) SetOnSelect(onSelect func(track model.TrackRef)) {
	tr.onSelect = onSelect
}

// Detach releases the row's engine subscription. Playback itself is left
// alone; audio keeps going when a row disappears.
func (tr *TrackRow) Detach() {
	if tr.binding != nil {
		tr.binding.Detach()
	}
}

// applyView receives engine updates through the binding
func (tr *TrackRow) applyView(view PlayerView) {
	fyne.Do(func() {
		tr.view = view
		tr.updateFromView()
		tr.Refresh()
	})
}

// createUI creates the UI components
func (tr *TrackRow) createUI() {
	tr.titleLabel = widget.NewLabel(tr.track.DisplayTitle())
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Wrapping = fyne.TextWrapWord
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis
	tr.titleLabel.Alignment = fyne.TextAlignLeading

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing

	tr.timeLabel = widget.NewLabel("")
	tr.timeLabel.Alignment = fyne.TextAlignTrailing
	tr.timeLabel.TextStyle = fyne.TextStyle{Monospace: true}

	tr.playPauseBtn = widget.NewButton(tr.localization.GetText(KeyPlay), func() {
		if tr.binding == nil {
			return
		}
		if tr.onSelect != nil {
			tr.onSelect(tr.track)
		}
		// device binding may hit the network, keep the UI thread free
		go tr.binding.TogglePlay(context.Background())
	})
	tr.playPauseBtn.Importance = widget.MediumImportance
}

// updateFromView updates UI components based on the gated view
func (tr *TrackRow) updateFromView() {
	view := tr.view

	tr.titleLabel.SetText(tr.track.DisplayTitle())

	if view.IsCurrentSong && view.IsPlaying {
		tr.statusLabel.Importance = widget.HighImportance
		tr.statusLabel.SetText(IconPlay + " " + tr.localization.GetText(KeyPlaying))
		tr.playPauseBtn.SetText(tr.localization.GetText(KeyPause))
	} else if view.IsCurrentSong {
		tr.statusLabel.Importance = widget.MediumImportance
		tr.statusLabel.SetText(IconPause + " " + tr.localization.GetText(KeyPaused))
		tr.playPauseBtn.SetText(tr.localization.GetText(KeyPlay))
	} else {
		tr.statusLabel.Importance = widget.LowImportance
		tr.statusLabel.SetText("")
		tr.playPauseBtn.SetText(tr.localization.GetText(KeyPlay))
	}

	timeText := ""
	if view.IsCurrentSong {
		timeText = model.FormatClock(view.Position) + TimeSeparator + model.FormatClock(view.Duration)
	} else if view.Duration > 0 {
		timeText = model.FormatClock(view.Duration)
	} else {
		timeText = DashPlaceholder
	}
	tr.timeLabel.SetText(timeText)
}

// CreateRenderer creates the widget renderer
func (tr *TrackRow) CreateRenderer() fyne.WidgetRenderer {
	return &trackRowRenderer{trackRow: tr}
}

// trackRowRenderer renders the track row widget
type trackRowRenderer struct {
	trackRow *TrackRow
	layout   *fyne.Container
}

// Layout arranges the components
func (r *trackRowRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	if r.layout != nil {
		if size.Width < RowMinWidth {
			size.Width = RowMinWidth
		}
		if size.Height < RowMinHeight {
			size.Height = RowMinHeight
		}
		r.layout.Resize(size)
	}
}

// MinSize returns the minimum size
func (r *trackRowRenderer) MinSize() fyne.Size {
	if r.layout != nil {
		return r.layout.MinSize()
	}
	return fyne.NewSize(RowMinWidth, RowMinHeight)
}

// Refresh refreshes the renderer
func (r *trackRowRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	if r.layout != nil {
		r.layout.Refresh()
	}
}

// Objects returns the container objects
func (r *trackRowRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

// Destroy cleans up the renderer
func (r *trackRowRenderer) Destroy() {}

// createLayout creates the main layout
func (r *trackRowRenderer) createLayout() {
	tr := r.trackRow

	// Left side: track title, wrapping into the remaining space
	leftSide := tr.titleLabel

	// Right side: status over the time readout, fixed widths so rows line up
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	rightSide := container.NewVBox(
		fixedWidth(StatusLabelWidth, tr.statusLabel),
		fixedWidth(TimeLabelWidth, tr.timeLabel),
	)

	actionRow := container.NewHBox(tr.playPauseBtn)

	separator := widget.NewSeparator()

	// Buttons pinned to the right edge, compact info next to them, title
	// taking whatever is left.
	rightCluster := container.NewBorder(nil, nil, nil, actionRow, rightSide)
	mainContent := container.NewBorder(nil, nil, nil, rightCluster, leftSide)

	r.layout = container.NewVBox(
		mainContent,
		separator,
	)

	r.layout.Resize(fyne.NewSize(RowMinWidth, RowDefaultH))
	r.layout.Refresh()
}
