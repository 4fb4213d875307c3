package fyne

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// supportedExtensions mirrors the decoder's format switch.
var supportedExtensions = []string{".mp3", ".wav"}

// FileDialog is a helper for creating audio file open dialogs.
type FileDialog struct {
	window   fyne.Window
	callback func(string)
	logger   *slog.Logger
}

// NewFileDialog creates a new file dialog.
func NewFileDialog(window fyne.Window, callback func(string), logger *slog.Logger) *FileDialog {
	return &FileDialog{
		window:   window,
		callback: callback,
		logger:   logger,
	}
}

// Show displays the file dialog, filtered to the supported audio formats.
func (d *FileDialog) Show() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			d.logger.Error("file dialog error", slog.Any("error", err))
			return
		}
		if reader == nil {
			return // User cancelled
		}
		defer reader.Close()

		filePath := reader.URI().Path()
		if d.callback != nil {
			d.callback(filePath)
		}
	}, d.window)

	open.SetFilter(storage.NewExtensionFileFilter(supportedExtensions))
	open.Show()
}

// showError surfaces an error to the user without interrupting playback
// state.
func (w *MainWindow) showError(err error) {
	dialog.ShowError(err, w.window)
}
