package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/wotu2038/AigcMusic/internal/config"
	"github.com/wotu2038/AigcMusic/internal/model"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog

	// UI components
	libraryPathEntry *widget.Entry
	originEntry      *widget.Entry
	languageSelect   *widget.Select

	// Called after settings were saved
	onSaved func()
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
	}

	sd.createUI()
	return sd
}

// SetOnSaved sets the callback invoked after a successful save
func (sd *SettingsDialog) SetOnSaved(onSaved func()) {
	sd.onSaved = onSaved
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.libraryPathEntry = widget.NewEntry()
	sd.libraryPathEntry.SetPlaceHolder("library.yaml")

	sd.originEntry = widget.NewEntry()
	sd.originEntry.SetPlaceHolder(model.DefaultOrigin)

	languages := sd.localization.GetAvailableLanguages()
	options := make([]string, 0, len(languages)+1)
	options = append(options, config.DefaultLanguage)
	for code := range languages {
		options = append(options, code)
	}
	sd.languageSelect = widget.NewSelect(options, nil)

	form := container.NewVBox(
		widget.NewLabel(sd.localization.GetText(KeyLibraryPath)),
		sd.libraryPathEntry,
		widget.NewLabel(sd.localization.GetText(KeyMediaOrigin)),
		sd.originEntry,
		widget.NewLabel(sd.localization.GetText(KeyLanguage)),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySave),
		sd.localization.GetText(KeyCancel),
		form,
		func(save bool) {
			if save {
				sd.saveSettings()
			}
		},
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings fills the form from the stored settings
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.libraryPathEntry.SetText(sd.settings.GetLibraryPath())
	sd.originEntry.SetText(sd.settings.GetMediaOrigin())
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
}

// saveSettings persists the form and applies the origin immediately
func (sd *SettingsDialog) saveSettings() {
	sd.settings.SetLibraryPath(sd.libraryPathEntry.Text)
	sd.settings.SetMediaOrigin(sd.originEntry.Text)
	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
		sd.localization.SetLanguage(sd.languageSelect.Selected)
	}

	// relative resource URLs resolve against the new origin from now on
	model.SetOrigin(sd.settings.GetMediaOrigin())

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
