package main

import (
	"fmt"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/wotu2038/AigcMusic/internal/config"
	"github.com/wotu2038/AigcMusic/internal/library"
	"github.com/wotu2038/AigcMusic/internal/model"
	"github.com/wotu2038/AigcMusic/internal/platform"
	"github.com/wotu2038/AigcMusic/internal/player"
	"github.com/wotu2038/AigcMusic/internal/session"
	"github.com/wotu2038/AigcMusic/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.wotu2038.aigcmusic"
	AppName = "AigcMusic"

	WindowWidth  = 900
	WindowHeight = 600
)

func main() {
	// Log version information
	fmt.Printf("AigcMusic v%s starting...\n", version)

	// Create new Fyne app
	myApp := app.NewWithID(AppID)

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	settings := config.NewSettings(myApp)
	localization := ui.NewLocalization()
	localization.SetLanguage(settings.GetLanguage())
	model.SetOrigin(settings.GetMediaOrigin())

	libraryPath := settings.GetLibraryPath()
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(libraryPath)); err != nil {
		log.Printf("failed to ensure library dir: %v", err)
	}
	lib, err := library.Load(libraryPath)
	if err != nil {
		log.Printf("failed to load library: %v", err)
		lib = library.New(filepath.Dir(libraryPath))
	}
	if lib.Origin() != "" {
		model.SetOrigin(lib.Origin())
	}

	device, err := player.NewBeepDevice()
	if err != nil {
		log.Fatalf("failed to initialize audio device: %v", err)
	}
	defer device.Close()

	playerSvc := player.NewService(device)
	cache := session.NewCache(myApp.Preferences())

	// bring back last session's playback state, then mirror every change
	if snap, ok := cache.Load(); ok {
		playerSvc.Restore(snap)
	}
	playerSvc.Subscribe(cache.Listener(), false)

	importer := platform.NewPlaylistImporter(settings.GetMediaOrigin())

	// Create and setup UI
	root := ui.NewRootUI(myApp, myWindow, playerSvc, cache, settings, localization, lib, importer)
	myWindow.SetContent(root.CreateUI())
	myWindow.SetOnClosed(root.Close)

	// Show and run
	myWindow.ShowAndRun()
}
