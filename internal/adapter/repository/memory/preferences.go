// Package memory provides repository implementations backed by the host
// toolkit's preference storage.
package memory

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/soundmesh/soundmesh/internal/domain"
	"github.com/soundmesh/soundmesh/internal/ports"
)

const (
	keyQuality  = "preferences.quality"
	keyLastFile = "preferences.last_file"
)

// PreferencesRepository implements ports.PreferencesRepository on top of
// Fyne preferences.
//
// Thread-safe: all operations protected by sync.RWMutex.
type PreferencesRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewPreferencesRepository creates a new preferences repository. The prefs
// parameter should be obtained from fyne.CurrentApp().Preferences().
func NewPreferencesRepository(prefs fyne.Preferences) *PreferencesRepository {
	return &PreferencesRepository{
		prefs: prefs,
	}
}

// SaveQuality persists the selected quality level.
func (r *PreferencesRepository) SaveQuality(level domain.QualityLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyQuality, string(level))
	return nil
}

// LoadQuality retrieves the saved quality level. Missing or unrecognized
// values resolve to the fallback; a stale preference written by a newer
// build must not break startup.
func (r *PreferencesRepository) LoadQuality(fallback domain.QualityLevel) (domain.QualityLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := domain.QualityLevel(r.prefs.StringWithFallback(keyQuality, string(fallback)))
	switch stored {
	case domain.QualityLow, domain.QualityMedium, domain.QualityHigh:
		return stored, nil
	default:
		return fallback, nil
	}
}

// SaveLastFile persists the most recently opened audio file path.
func (r *PreferencesRepository) SaveLastFile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyLastFile, path)
	return nil
}

// LoadLastFile retrieves the most recently opened audio file path, empty
// when nothing is stored.
func (r *PreferencesRepository) LoadLastFile() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.String(keyLastFile), nil
}

// Clear removes all saved preferences.
func (r *PreferencesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(keyQuality)
	r.prefs.RemoveValue(keyLastFile)
	return nil
}

// Verify interface implementation
var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
