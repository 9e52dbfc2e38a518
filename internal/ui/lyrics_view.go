package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/wotu2038/AigcMusic/internal/lyrics"
)

// LyricsView shows a parsed lyric document and highlights the line matching
// the current playback position. Plain documents have no timing, so they
// scroll freely with no highlight.
type LyricsView struct {
	widget.BaseWidget

	localization *Localization

	doc          lyrics.Document
	currentIndex int

	list  *widget.List
	empty *widget.Label
}

// NewLyricsView creates an empty lyrics pane
func NewLyricsView(localization *Localization) *LyricsView {
	lv := &LyricsView{
		localization: localization,
		currentIndex: -1,
	}
	lv.ExtendBaseWidget(lv)
	lv.createUI()
	return lv
}

// SetDocument replaces the displayed document. Pass a zero Document to show
// the "no lyrics" placeholder.
func (lv *LyricsView) SetDocument(doc lyrics.Document) {
	fyne.Do(func() {
		lv.doc = doc
		lv.currentIndex = -1
		lv.list.Refresh()
		lv.Refresh()
	})
}

// SetPosition moves the highlight to the line active at the given playback
// position. No-op for plain documents.
func (lv *LyricsView) SetPosition(seconds float64) {
	if lv.doc.Format != lyrics.FormatTimed {
		return
	}
	idx := lyrics.FindCurrentLineIndex(lv.doc.Lines, seconds)
	if idx == lv.currentIndex {
		return
	}
	fyne.Do(func() {
		lv.currentIndex = idx
		lv.list.Refresh()
		if idx >= 0 {
			lv.list.ScrollTo(idx)
		}
	})
}

func (lv *LyricsView) createUI() {
	lv.empty = widget.NewLabel(lv.localization.GetText(KeyNoLyrics))
	lv.empty.Alignment = fyne.TextAlignCenter

	lv.list = widget.NewList(
		func() int {
			return len(lv.doc.Lines)
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Alignment = fyne.TextAlignCenter
			label.Wrapping = fyne.TextWrapWord
			return label
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id < 0 || id >= len(lv.doc.Lines) {
				label.SetText("")
				return
			}
			label.SetText(lv.doc.Lines[id].Text)
			if id == lv.currentIndex {
				label.TextStyle = fyne.TextStyle{Bold: true}
				label.Importance = widget.HighImportance
			} else {
				label.TextStyle = fyne.TextStyle{}
				label.Importance = widget.MediumImportance
			}
			label.Refresh()
		},
	)
}

// CreateRenderer creates the widget renderer
func (lv *LyricsView) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewStack(lv.empty, lv.list)
	return &lyricsViewRenderer{view: lv, content: content}
}

type lyricsViewRenderer struct {
	view    *LyricsView
	content *fyne.Container
}

func (r *lyricsViewRenderer) Layout(size fyne.Size) {
	r.content.Resize(size)
}

func (r *lyricsViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(RowMinWidth, LyricsPaneMinHeight)
}

func (r *lyricsViewRenderer) Refresh() {
	if len(r.view.doc.Lines) == 0 {
		r.view.empty.Show()
		r.view.list.Hide()
	} else {
		r.view.empty.Hide()
		r.view.list.Show()
	}
	r.content.Refresh()
}

func (r *lyricsViewRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content}
}

func (r *lyricsViewRenderer) Destroy() {}
