// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"log/slog"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/soundmesh/soundmesh/internal/adapter/eventbus"
	"github.com/soundmesh/soundmesh/internal/adapter/repository/memory"
	"github.com/soundmesh/soundmesh/internal/adapter/source/file"
	fyneui "github.com/soundmesh/soundmesh/internal/adapter/ui/fyne"
	"github.com/soundmesh/soundmesh/internal/logger"
	"github.com/soundmesh/soundmesh/internal/mesh"
	"github.com/soundmesh/soundmesh/internal/ports"
	"github.com/soundmesh/soundmesh/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows constructor-based dependency injection: NewApplication builds
// the full graph, Run enters the UI loop, Shutdown tears everything down in
// reverse order.
type Application struct {
	logger  *slog.Logger
	fyneApp fyne.App

	eventBus  ports.EventBus
	simulator ports.MeshSimulator
	source    ports.SpectrumSource

	preferencesRepo ports.PreferencesRepository

	visualizer *service.VisualizerService

	mainWindow *fyneui.MainWindow
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// LogFormat selects the slog handler ("text" or "json")
	LogFormat string

	// TestFyneApp allows injecting a test Fyne app (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
// The log level honors SOUNDMESH_LOG_LEVEL.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:     "com.soundmesh.app",
		AppName:   "SoundMesh",
		LogLevel:  loggerCfg.Level,
		LogFormat: loggerCfg.Format,
	}
}

// NewApplication creates a new application with all dependencies wired.
func NewApplication(config Config) (*Application, error) {
	app := &Application{}

	if config.TestFyneApp != nil {
		app.fyneApp = config.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(config.AppID)
	}

	app.logger = logger.NewLogger(logger.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
	})
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("version", GetVersionInfo().Version))

	app.eventBus = eventbus.NewSyncEventBus(
		app.logger.With(slog.String("component", "eventbus")))

	app.simulator = mesh.NewSimulator(
		app.logger.With(slog.String("component", "simulator")),
		app.eventBus,
		mesh.DefaultTuning(),
	)

	app.source = file.NewSource(
		app.logger.With(slog.String("component", "source")),
		app.eventBus,
	)

	app.preferencesRepo = memory.NewPreferencesRepository(app.fyneApp.Preferences())

	app.visualizer = service.NewVisualizerService(
		app.logger.With(slog.String("service", "visualizer")),
		app.eventBus,
		app.simulator,
		app.source,
		app.preferencesRepo,
	)

	app.mainWindow = fyneui.NewMainWindow(
		app.fyneApp,
		app.logger.With(slog.String("component", "ui")),
		app.visualizer,
		app.simulator,
	)
	app.visualizer.AttachView(app.mainWindow.MeshField())

	return app, nil
}

// Run starts the simulation loop and enters the UI main loop.
// Blocks until the window closes.
func (a *Application) Run() error {
	if err := a.visualizer.Start(); err != nil {
		return err
	}
	a.logger.Info("SoundMesh started", slog.String("version", GetVersionInfo().FullString()))

	a.mainWindow.RestoreLastFile()
	a.mainWindow.ShowAndRun()
	return nil
}

// Shutdown gracefully shuts down the application.
// Safe to call after Run returns or when Run was never called.
func (a *Application) Shutdown() error {
	a.logger.Info("shutting down application")

	err := a.visualizer.Shutdown()
	if closeErr := a.eventBus.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		a.logger.Error("shutdown finished with error", slog.Any("error", err))
	}
	return err
}

// Visualizer exposes the orchestration service, primarily for tests.
func (a *Application) Visualizer() *service.VisualizerService {
	return a.visualizer
}

// EventBus exposes the event bus, primarily for tests.
func (a *Application) EventBus() ports.EventBus {
	return a.eventBus
}
