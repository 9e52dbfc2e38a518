package config

import (
	"fyne.io/fyne/v2"

	"github.com/wotu2038/AigcMusic/internal/library"
	"github.com/wotu2038/AigcMusic/internal/model"
)

// Settings keys for Fyne preferences
const (
	KeyLibraryPath = "library_path"
	KeyMediaOrigin = "media_origin"
	KeyLanguage    = "app_language"
)

// Default values
const (
	DefaultLanguage = "system"
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetLibraryPath returns the configured library manifest path
func (s *Settings) GetLibraryPath() string {
	path := s.app.Preferences().String(KeyLibraryPath)
	if path == "" {
		defaultPath := library.DefaultManifestPath()
		s.SetLibraryPath(defaultPath)
		return defaultPath
	}
	return path
}

// SetLibraryPath sets the library manifest path
func (s *Settings) SetLibraryPath(path string) {
	s.app.Preferences().SetString(KeyLibraryPath, path)
}

// GetMediaOrigin returns the origin relative resource URLs resolve against
func (s *Settings) GetMediaOrigin() string {
	origin := s.app.Preferences().String(KeyMediaOrigin)
	if origin == "" {
		s.SetMediaOrigin(model.DefaultOrigin)
		return model.DefaultOrigin
	}
	return origin
}

// SetMediaOrigin sets the media server origin
func (s *Settings) SetMediaOrigin(origin string) {
	if origin == "" {
		origin = model.DefaultOrigin
	}
	s.app.Preferences().SetString(KeyMediaOrigin, origin)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}
