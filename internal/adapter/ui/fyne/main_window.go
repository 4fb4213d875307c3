// Package fyne provides the desktop UI for the SoundMesh visualizer.
package fyne

import (
	"log/slog"
	"sync"
	"time"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/soundmesh/soundmesh/internal/adapter/ui/fyne/widgets"
	"github.com/soundmesh/soundmesh/internal/domain"
	"github.com/soundmesh/soundmesh/internal/ports"
)

// Window defaults.
const (
	appName      = "SoundMesh"
	windowWidth  = 900
	windowHeight = 560
)

// Controller is the service surface the window drives. Satisfied by
// service.VisualizerService; narrowed here so the window can be tested
// against a mock.
type Controller interface {
	OpenFile(path string) (domain.TrackInfo, error)
	Play() error
	StopPlayback() error
	SetQuality(level domain.QualityLevel) error
	Profile() domain.QualityProfile
	LastFile() string
	ObserveFrameTime(d time.Duration)
}

// MainWindow hosts the mesh field together with the playback and quality
// controls. It is a thin view: every interaction is forwarded to the
// controller, and state flows back in through the MeshField's MeshView
// methods.
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window
	logger *slog.Logger

	controller Controller

	meshField     *widgets.MeshField
	openButton    *widget.Button
	playButton    *widget.Button
	stopButton    *widget.Button
	qualitySelect *widget.Select
	trackLabel    *widget.Label

	closeOnce sync.Once
}

// NewMainWindow builds the window. The mesh field is created around the
// given simulator so the render path can submit frames directly instead of
// round-tripping through the service.
func NewMainWindow(app fyneapp.App, logger *slog.Logger, controller Controller, sim ports.MeshSimulator) *MainWindow {
	w := &MainWindow{
		app:        app,
		logger:     logger,
		controller: controller,
	}

	w.window = app.NewWindow(appName)
	w.meshField = widgets.NewMeshField(sim, controller.ObserveFrameTime)
	w.buildUI()

	w.window.Resize(fyneapp.NewSize(windowWidth, windowHeight))
	w.window.SetMaster()

	return w
}

// MeshField exposes the render adapter for attaching to the service.
func (w *MainWindow) MeshField() ports.MeshView {
	return w.meshField
}

func (w *MainWindow) buildUI() {
	w.openButton = widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), w.onOpenClicked)
	w.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), w.onPlayClicked)
	w.stopButton = widget.NewButtonWithIcon("", theme.MediaStopIcon(), w.onStopClicked)

	w.qualitySelect = widget.NewSelect(
		[]string{string(domain.QualityLow), string(domain.QualityMedium), string(domain.QualityHigh)},
		w.onQualitySelected,
	)
	w.qualitySelect.SetSelected(string(w.controller.Profile().Level))

	w.trackLabel = widget.NewLabel("No track loaded")
	w.trackLabel.Truncation = fyneapp.TextTruncateClip

	controls := container.NewHBox(
		w.openButton,
		w.playButton,
		w.stopButton,
		widget.NewSeparator(),
		widget.NewLabel("Quality:"),
		w.qualitySelect,
	)

	bottom := container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, controls, nil, w.trackLabel),
	)

	w.window.SetContent(container.NewBorder(nil, bottom, nil, nil, w.meshField))
}

func (w *MainWindow) onOpenClicked() {
	NewFileDialog(w.window, w.openPath, w.logger).Show()
}

// openPath loads the chosen file and starts playback immediately. Opening
// a second file while one is playing surfaces ErrSourceRunning as a dialog
// instead of silently swallowing it.
func (w *MainWindow) openPath(path string) {
	track, err := w.controller.OpenFile(path)
	if err != nil {
		w.logger.Error("opening file failed",
			slog.String("path", path), slog.Any("error", err))
		w.showError(err)
		return
	}
	w.trackLabel.SetText(track.DisplayName())

	if err := w.controller.Play(); err != nil {
		w.logger.Error("starting playback failed", slog.Any("error", err))
		w.showError(err)
	}
}

func (w *MainWindow) onPlayClicked() {
	if err := w.controller.Play(); err != nil {
		w.logger.Warn("play failed", slog.Any("error", err))
		w.showError(err)
	}
}

func (w *MainWindow) onStopClicked() {
	if err := w.controller.StopPlayback(); err != nil {
		w.logger.Warn("stop failed", slog.Any("error", err))
	}
}

func (w *MainWindow) onQualitySelected(value string) {
	if err := w.controller.SetQuality(domain.QualityLevel(value)); err != nil {
		w.logger.Warn("quality change rejected",
			slog.String("level", value), slog.Any("error", err))
	}
}

// RestoreLastFile reloads the most recently opened track, if any. Called
// once at startup; a vanished file only logs.
func (w *MainWindow) RestoreLastFile() {
	path := w.controller.LastFile()
	if path == "" {
		return
	}
	track, err := w.controller.OpenFile(path)
	if err != nil {
		w.logger.Info("previous track unavailable",
			slog.String("path", path), slog.Any("error", err))
		return
	}
	w.trackLabel.SetText(track.DisplayName())
}

// ShowAndRun displays the window and enters the Fyne main loop.
// Blocks until the window closes.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Close shuts the window down. Safe to call more than once.
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		w.window.Close()
	})
}
