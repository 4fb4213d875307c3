// Package service provides the orchestration logic for the SoundMesh
// visualizer.
package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/soundmesh/soundmesh/internal/domain"
	"github.com/soundmesh/soundmesh/internal/ports"
)

// VisualizerService wires the spectrum source to the mesh view and owns the
// pieces of state the UI should not: the active quality profile, its
// persistence, and the lifecycles of the simulator and the source.
//
// Spectrum frames flow bus -> service -> view; the view drives the
// simulator at its own render cadence.
type VisualizerService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	bus        ports.EventBus
	simulator  ports.MeshSimulator
	source     ports.SpectrumSource
	repository ports.PreferencesRepository

	mu      sync.RWMutex
	view    ports.MeshView
	profile domain.QualityProfile
	subIDs  []domain.SubscriptionID
}

// NewVisualizerService creates the service, restores the persisted quality
// level, and subscribes to the bus. The view attaches later (the UI is
// built after the services).
func NewVisualizerService(
	logger *slog.Logger,
	bus ports.EventBus,
	simulator ports.MeshSimulator,
	source ports.SpectrumSource,
	repository ports.PreferencesRepository,
) *VisualizerService {
	level, err := repository.LoadQuality(domain.QualityMedium)
	if err != nil {
		logger.Warn("loading quality preference failed", slog.Any("error", err))
		level = domain.QualityMedium
	}

	s := &VisualizerService{
		logger:     logger,
		bus:        bus,
		simulator:  simulator,
		source:     source,
		repository: repository,
		profile:    domain.ProfileFor(level),
	}
	s.subscribe()

	logger.Debug("visualizer service initialized",
		slog.String("quality", string(s.profile.Level)))
	return s
}

func (s *VisualizerService) subscribe() {
	s.subIDs = append(s.subIDs,
		s.bus.Subscribe(domain.EventSpectrumFrame, s.onSpectrumFrame),
		s.bus.Subscribe(domain.EventTrackFinished, s.onTrackFinished),
		s.bus.Subscribe(domain.EventSourceError, s.onSourceError),
	)
}

func (s *VisualizerService) onSpectrumFrame(event domain.Event) {
	frame, ok := event.(domain.SpectrumFrameEvent)
	if !ok {
		return
	}
	s.mu.RLock()
	view := s.view
	s.mu.RUnlock()
	if view != nil {
		view.UpdateSpectrum(frame.Magnitudes)
	}
}

func (s *VisualizerService) onTrackFinished(event domain.Event) {
	finished, ok := event.(domain.TrackFinishedEvent)
	if !ok {
		return
	}
	s.logger.Info("playback finished",
		slog.String("track", finished.Track.DisplayName()))

	s.mu.RLock()
	view := s.view
	s.mu.RUnlock()
	if view != nil {
		view.Reset()
	}
}

func (s *VisualizerService) onSourceError(event domain.Event) {
	srcErr, ok := event.(domain.SourceErrorEvent)
	if !ok {
		return
	}
	s.logger.Warn("source error",
		slog.String("track", srcErr.Track.DisplayName()),
		slog.Any("error", srcErr.Err))
}

// AttachView connects the render adapter and pushes the current profile to
// it. Frames arriving before a view is attached are dropped.
func (s *VisualizerService) AttachView(view ports.MeshView) {
	s.mu.Lock()
	s.view = view
	profile := s.profile
	s.mu.Unlock()

	if view != nil {
		view.SetProfile(profile)
	}
}

// Start spins up the simulation loop.
func (s *VisualizerService) Start() error {
	return s.simulator.Start()
}

// OpenFile prepares the given audio file and remembers it as the last
// opened path.
func (s *VisualizerService) OpenFile(path string) (domain.TrackInfo, error) {
	track, err := s.source.Open(path)
	if err != nil {
		return domain.TrackInfo{}, err
	}
	if err := s.repository.SaveLastFile(path); err != nil {
		s.logger.Warn("saving last file failed", slog.Any("error", err))
	}
	return track, nil
}

// Play begins streaming the opened file.
func (s *VisualizerService) Play() error {
	return s.source.Start()
}

// StopPlayback halts streaming and resets the view to its at-rest state.
func (s *VisualizerService) StopPlayback() error {
	err := s.source.Stop()

	s.mu.RLock()
	view := s.view
	s.mu.RUnlock()
	if view != nil {
		view.Reset()
	}
	return err
}

// LastFile returns the most recently opened file path, empty when none.
func (s *VisualizerService) LastFile() string {
	path, err := s.repository.LoadLastFile()
	if err != nil {
		s.logger.Warn("loading last file failed", slog.Any("error", err))
		return ""
	}
	return path
}

// Profile returns the active quality profile.
func (s *VisualizerService) Profile() domain.QualityProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetQuality switches the active quality level, persists it, pushes the new
// profile to the view, and publishes a QualityChangedEvent. Setting the
// already-active level is a no-op.
func (s *VisualizerService) SetQuality(level domain.QualityLevel) error {
	switch level {
	case domain.QualityLow, domain.QualityMedium, domain.QualityHigh:
	default:
		return domain.NewValidationError("quality", level, "unknown quality level")
	}

	s.mu.Lock()
	if s.profile.Level == level {
		s.mu.Unlock()
		return nil
	}
	s.profile = domain.ProfileFor(level)
	profile := s.profile
	view := s.view
	s.mu.Unlock()

	if err := s.repository.SaveQuality(level); err != nil {
		s.logger.Warn("saving quality preference failed", slog.Any("error", err))
	}
	if view != nil {
		view.SetProfile(profile)
	}

	s.logger.Info("quality changed", slog.String("level", string(level)))
	s.bus.Publish(domain.NewQualityChangedEvent(profile))
	return nil
}

// ObserveFrameTime forwards one render-frame duration to the simulator's
// adaptive resolution controller.
func (s *VisualizerService) ObserveFrameTime(d time.Duration) {
	s.simulator.ObserveFrameTime(d)
}

// Shutdown stops the source and the simulation loop and detaches from the
// bus. Source first: it publishes events the service subscriptions handle.
func (s *VisualizerService) Shutdown() error {
	var firstErr error
	if err := s.source.Close(); err != nil {
		s.logger.Error("closing source failed", slog.Any("error", err))
		firstErr = err
	}
	if err := s.simulator.Stop(); err != nil {
		s.logger.Error("stopping simulator failed", slog.Any("error", err))
		if firstErr == nil {
			firstErr = err
		}
	}

	s.mu.Lock()
	ids := s.subIDs
	s.subIDs = nil
	s.mu.Unlock()
	for _, id := range ids {
		s.bus.Unsubscribe(id)
	}
	return firstErr
}
