package app

import (
	"log/slog"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundmesh/soundmesh/internal/domain"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	config := DefaultConfig()
	config.LogLevel = slog.LevelError
	config.TestFyneApp = test.NewApp()
	t.Cleanup(config.TestFyneApp.Quit)

	app, err := NewApplication(config)
	require.NoError(t, err)
	return app
}

func TestNewApplication(t *testing.T) {
	app := newTestApplication(t)

	assert.NotNil(t, app.Visualizer())
	assert.NotNil(t, app.EventBus())
	assert.Equal(t, domain.QualityMedium, app.Visualizer().Profile().Level)

	require.NoError(t, app.Shutdown())
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "com.soundmesh.app", config.AppID)
	assert.Equal(t, "SoundMesh", config.AppName)
	assert.Equal(t, "text", config.LogFormat)
}

func TestApplicationLifecycle(t *testing.T) {
	app := newTestApplication(t)

	// Run would block in the UI loop; start and stop the simulation
	// directly instead.
	require.NoError(t, app.Visualizer().Start())
	require.NoError(t, app.Shutdown())

	// Shutdown again must not panic. The bus reports it was already
	// closed, which Shutdown forwards.
	assert.Error(t, app.Shutdown())
}

func TestApplicationWiring_PublishedFrameFlowsToView(t *testing.T) {
	app := newTestApplication(t)
	require.NoError(t, app.Visualizer().Start())
	defer app.Shutdown()

	// A frame published on the bus flows through the service into the
	// attached mesh field. The synchronous bus means any wiring gap
	// panics right here.
	spectrum := make([]float64, 64)
	for i := range spectrum {
		spectrum[i] = 0.8
	}
	app.Visualizer().ObserveFrameTime(5 * time.Millisecond)

	app.EventBus().Publish(domain.NewSpectrumFrameEvent(spectrum, 44100))
}

func TestApplicationQualityPersistsAcrossInstances(t *testing.T) {
	fyneApp := test.NewApp()
	defer fyneApp.Quit()

	config := DefaultConfig()
	config.LogLevel = slog.LevelError
	config.TestFyneApp = fyneApp

	first, err := NewApplication(config)
	require.NoError(t, err)
	require.NoError(t, first.Visualizer().SetQuality(domain.QualityHigh))
	require.NoError(t, first.Shutdown())

	// Same Fyne app means same preference store.
	second, err := NewApplication(config)
	require.NoError(t, err)
	assert.Equal(t, domain.QualityHigh, second.Visualizer().Profile().Level)
	require.NoError(t, second.Shutdown())
}
