package memory

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundmesh/soundmesh/internal/domain"
)

func newTestPreferencesRepository() *PreferencesRepository {
	app := test.NewApp()
	return NewPreferencesRepository(app.Preferences())
}

func TestPreferencesRepository_SaveAndLoadQuality(t *testing.T) {
	repo := newTestPreferencesRepository()

	err := repo.SaveQuality(domain.QualityHigh)
	require.NoError(t, err)

	level, err := repo.LoadQuality(domain.QualityMedium)
	require.NoError(t, err)
	assert.Equal(t, domain.QualityHigh, level)
}

func TestPreferencesRepository_LoadQuality_Fallback(t *testing.T) {
	repo := newTestPreferencesRepository()

	level, err := repo.LoadQuality(domain.QualityMedium)
	require.NoError(t, err)
	assert.Equal(t, domain.QualityMedium, level)
}

func TestPreferencesRepository_LoadQuality_UnrecognizedValue(t *testing.T) {
	repo := newTestPreferencesRepository()

	// A stored value this build does not know must not leak through.
	err := repo.SaveQuality(domain.QualityLevel("ultra"))
	require.NoError(t, err)

	level, err := repo.LoadQuality(domain.QualityLow)
	require.NoError(t, err)
	assert.Equal(t, domain.QualityLow, level)
}

func TestPreferencesRepository_SaveQuality_OverwritesPrevious(t *testing.T) {
	repo := newTestPreferencesRepository()

	require.NoError(t, repo.SaveQuality(domain.QualityLow))
	require.NoError(t, repo.SaveQuality(domain.QualityHigh))

	level, err := repo.LoadQuality(domain.QualityMedium)
	require.NoError(t, err)
	assert.Equal(t, domain.QualityHigh, level)
}

func TestPreferencesRepository_SaveAndLoadLastFile(t *testing.T) {
	repo := newTestPreferencesRepository()

	err := repo.SaveLastFile("/music/track.mp3")
	require.NoError(t, err)

	path, err := repo.LoadLastFile()
	require.NoError(t, err)
	assert.Equal(t, "/music/track.mp3", path)
}

func TestPreferencesRepository_LoadLastFile_Empty(t *testing.T) {
	repo := newTestPreferencesRepository()

	path, err := repo.LoadLastFile()
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestPreferencesRepository_Clear(t *testing.T) {
	repo := newTestPreferencesRepository()

	require.NoError(t, repo.SaveQuality(domain.QualityHigh))
	require.NoError(t, repo.SaveLastFile("/music/track.wav"))

	err := repo.Clear()
	require.NoError(t, err)

	level, _ := repo.LoadQuality(domain.QualityMedium)
	assert.Equal(t, domain.QualityMedium, level)

	path, _ := repo.LoadLastFile()
	assert.Empty(t, path)
}

func TestPreferencesRepository_SaveLoadCycle(t *testing.T) {
	repo := newTestPreferencesRepository()

	levels := []domain.QualityLevel{
		domain.QualityLow, domain.QualityMedium, domain.QualityHigh,
	}
	for _, want := range levels {
		require.NoError(t, repo.SaveQuality(want))

		got, err := repo.LoadQuality(domain.QualityLow)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
