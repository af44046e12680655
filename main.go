package main

import (
	"embed"
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"

	"qlaunch/internal/app"
	"qlaunch/internal/config"
	apperrors "qlaunch/internal/infrastructure/errors"
	"qlaunch/internal/infrastructure/logging"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to read .env: %v", err)
	}

	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		log.Fatal(err)
	}

	appLogger := logging.NewDefaultLogger(
		logging.WithLevel(settings.Level()),
		logging.WithComponent("qlaunch"),
	)
	apperrors.SetRetryLogger(apperrors.NewLoggerBridge(appLogger))

	application, err := app.NewApp(settings, appLogger)
	if err != nil {
		logging.LogError(appLogger, err, "startup", nil)
		log.Fatal(err)
	}

	wailsLevel := logger.INFO
	if settings.Level() == logging.LevelDebug {
		wailsLevel = logger.DEBUG
	}

	err = wails.Run(&options.App{
		Title:             "qlaunch",
		Width:             720,
		Height:            480,
		MinWidth:          480,
		MinHeight:         320,
		Frameless:         true,
		StartHidden:       false,
		HideWindowOnClose: false,
		AlwaysOnTop:       true,
		BackgroundColour:  &options.RGBA{R: 0, G: 0, B: 0, A: 0},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Logger:           logging.NewWailsLoggerAdapter(appLogger),
		LogLevel:         wailsLevel,
		OnStartup:        application.Startup,
		OnDomReady:       application.DomReady,
		OnBeforeClose:    application.BeforeClose,
		OnShutdown:       application.Shutdown,
		WindowStartState: options.Normal,
		Bind: []interface{}{
			application,
		},
		Windows: &windows.Options{
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
			DisableWindowIcon:    true,
			BackdropType:         windows.Mica,
		},
		Mac: &mac.Options{
			TitleBar:             mac.TitleBarHiddenInset(),
			Appearance:           mac.NSAppearanceNameDarkAqua,
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
			About: &mac.AboutInfo{
				Title:   "qlaunch",
				Message: "Keyboard launcher",
			},
		},
	})
	if err != nil {
		logging.LogError(appLogger, err, "run", nil)
		log.Fatal(err)
	}
}
