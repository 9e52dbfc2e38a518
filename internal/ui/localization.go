package ui

// Package ui provides user interface components

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle        = "app_title"
	KeyPlay            = "play"
	KeyPause           = "pause"
	KeyPlaying         = "playing"
	KeyPaused          = "paused"
	KeyLoop            = "loop"
	KeyVolume          = "volume"
	KeyRate            = "rate"
	KeyLyrics          = "lyrics"
	KeyLibrary         = "library"
	KeyNowPlaying      = "now_playing"
	KeyNothingSelected = "nothing_selected"
	KeyNoLyrics        = "no_lyrics"
	KeySettings        = "settings"
	KeyLanguage        = "language"
	KeyMediaOrigin     = "media_origin"
	KeyLibraryPath     = "library_path"
	KeyImportPlaylist  = "import_playlist"
	KeyEnterPlaylist   = "enter_playlist"
	KeySave            = "save"
	KeyCancel          = "cancel"
	KeySettingsSaved   = "settings_saved"
	KeyImportFailed    = "import_failed"
	KeyShowInFolder    = "show_in_folder"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:        "AigcMusic Player",
		KeyPlay:            "Play",
		KeyPause:           "Pause",
		KeyPlaying:         "Playing",
		KeyPaused:          "Paused",
		KeyLoop:            "Loop",
		KeyVolume:          "Volume",
		KeyRate:            "Speed",
		KeyLyrics:          "Lyrics",
		KeyLibrary:         "Library",
		KeyNowPlaying:      "Now Playing",
		KeyNothingSelected: "Nothing selected",
		KeyNoLyrics:        "No lyrics available",
		KeySettings:        "Settings",
		KeyLanguage:        "Language",
		KeyMediaOrigin:     "Media Server Origin",
		KeyLibraryPath:     "Library File",
		KeyImportPlaylist:  "Import Playlist",
		KeyEnterPlaylist:   "Enter playlist ID or URL",
		KeySave:            "Save",
		KeyCancel:          "Cancel",
		KeySettingsSaved:   "Settings saved successfully!",
		KeyImportFailed:    "Playlist import failed",
		KeyShowInFolder:    "Show in Folder",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:        "AigcMusic Плеер",
		KeyPlay:            "Играть",
		KeyPause:           "Пауза",
		KeyPlaying:         "Играет",
		KeyPaused:          "Пауза",
		KeyLoop:            "Повтор",
		KeyVolume:          "Громкость",
		KeyRate:            "Скорость",
		KeyLyrics:          "Текст",
		KeyLibrary:         "Библиотека",
		KeyNowPlaying:      "Сейчас играет",
		KeyNothingSelected: "Ничего не выбрано",
		KeyNoLyrics:        "Текст недоступен",
		KeySettings:        "Настройки",
		KeyLanguage:        "Язык",
		KeyMediaOrigin:     "Адрес медиасервера",
		KeyLibraryPath:     "Файл библиотеки",
		KeyImportPlaylist:  "Импорт плейлиста",
		KeyEnterPlaylist:   "Введите ID или URL плейлиста",
		KeySave:            "Сохранить",
		KeyCancel:          "Отмена",
		KeySettingsSaved:   "Настройки успешно сохранены!",
		KeyImportFailed:    "Не удалось импортировать плейлист",
		KeyShowInFolder:    "Показать в папке",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:        "AigcMusic Player",
		KeyPlay:            "Tocar",
		KeyPause:           "Pausar",
		KeyPlaying:         "Tocando",
		KeyPaused:          "Pausado",
		KeyLoop:            "Repetir",
		KeyVolume:          "Volume",
		KeyRate:            "Velocidade",
		KeyLyrics:          "Letras",
		KeyLibrary:         "Biblioteca",
		KeyNowPlaying:      "Tocando Agora",
		KeyNothingSelected: "Nada selecionado",
		KeyNoLyrics:        "Letras indisponíveis",
		KeySettings:        "Configurações",
		KeyLanguage:        "Idioma",
		KeyMediaOrigin:     "Origem do Servidor de Mídia",
		KeyLibraryPath:     "Arquivo da Biblioteca",
		KeyImportPlaylist:  "Importar Playlist",
		KeyEnterPlaylist:   "Digite ID ou URL da playlist",
		KeySave:            "Salvar",
		KeyCancel:          "Cancelar",
		KeySettingsSaved:   "Configurações salvas com sucesso!",
		KeyImportFailed:    "Falha ao importar playlist",
		KeyShowInFolder:    "Mostrar na Pasta",
	}
}
