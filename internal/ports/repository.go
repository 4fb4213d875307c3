package ports

import (
	"github.com/soundmesh/soundmesh/internal/domain"
)

// PreferencesRepository persists user settings across sessions.
//
// Implementations wrap the host toolkit's preference storage (the Fyne
// adapter uses fyne.Preferences). All methods must be thread-safe.
type PreferencesRepository interface {
	// SaveQuality persists the selected quality level.
	SaveQuality(level domain.QualityLevel) error

	// LoadQuality retrieves the saved quality level, or the given fallback
	// when nothing is stored.
	LoadQuality(fallback domain.QualityLevel) (domain.QualityLevel, error)

	// SaveLastFile persists the most recently opened audio file path.
	SaveLastFile(path string) error

	// LoadLastFile retrieves the most recently opened audio file path,
	// empty when nothing is stored.
	LoadLastFile() (string, error)

	// Clear removes all saved preferences.
	Clear() error
}
