// Package file implements the audio-file spectrum source: it decodes a
// local .wav or .mp3 file, plays it through the system audio device, and
// publishes FFT magnitude spectra of the most recently played samples on
// the event bus.
package file

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/soundmesh/soundmesh/internal/domain"
	"github.com/soundmesh/soundmesh/internal/ports"
)

const (
	// analysisInterval paces spectrum publishing at roughly 30 frames per
	// second, matching the render cadence closely enough that the mesh
	// never starves.
	analysisInterval = 33 * time.Millisecond

	// stopTimeout bounds how long Stop waits for the streaming loop.
	stopTimeout = 500 * time.Millisecond
)

// Source streams one audio file at a time. Open prepares a track, Start
// begins playback plus analysis on a dedicated goroutine, Stop halts both,
// Close releases the file. Spectrum frames, track lifecycle, and non-fatal
// errors all surface as bus events.
type Source struct {
	logger    *slog.Logger
	bus       ports.EventBus
	newPlayer playerFactory

	mu      sync.Mutex
	file    *os.File
	dec     pcmDecoder
	track   domain.TrackInfo
	player  pcmPlayer
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewSource creates a file spectrum source playing through the system
// audio device.
func NewSource(logger *slog.Logger, bus ports.EventBus) *Source {
	return &Source{
		logger:    logger,
		bus:       bus,
		newPlayer: newOtoPlayer,
	}
}

// Open prepares the audio file at path and publishes a TrackLoadedEvent.
// A previously opened file is released first. Opening while streaming is
// an error; call Stop first.
func (s *Source) Open(path string) (domain.TrackInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return domain.TrackInfo{}, domain.ErrSourceRunning
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.TrackInfo{}, domain.NewSourceError("open", path, "file not found", domain.ErrFileNotFound)
		}
		return domain.TrackInfo{}, domain.NewSourceError("open", path, "cannot stat file", err)
	}

	s.releaseLocked()

	f, err := os.Open(path)
	if err != nil {
		return domain.TrackInfo{}, domain.NewSourceError("open", path, "cannot open file", err)
	}

	dec, err := newDecoder(f)
	if err != nil {
		_ = f.Close()
		return domain.TrackInfo{}, domain.NewSourceError("open", path, "unsupported or corrupt audio file", err)
	}

	track := domain.TrackInfo{
		FilePath:   path,
		FileFormat: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		SampleRate: dec.SampleRate(),
		Channels:   dec.Channels(),
	}
	if total := dec.Length(); total > 0 {
		bytesPerSec := int64(dec.SampleRate()) * int64(dec.Channels()) * 2
		track.Duration = time.Duration(float64(total) / float64(bytesPerSec) * float64(time.Second))
	}
	fillMetadata(&track)

	s.file = f
	s.dec = dec
	s.track = track

	s.logger.Info("track loaded",
		slog.String("path", path),
		slog.String("title", track.Title),
		slog.Int("sample_rate", track.SampleRate),
		slog.Duration("duration", track.Duration))
	s.bus.Publish(domain.NewTrackLoadedEvent(track))
	return track, nil
}

// Start begins playback and spectrum analysis of the opened track.
func (s *Source) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dec == nil {
		return domain.ErrNoSourceOpen
	}
	if s.running {
		return domain.ErrSourceRunning
	}

	an, err := newAnalyzer()
	if err != nil {
		return domain.NewSourceError("start", s.track.FilePath, "fft plan", err)
	}

	// Four windows of history so the analysis pace never outruns the tap.
	tap := newTapReader(s.dec, s.track.Channels, fftSize*4)

	if contextMismatch(s.track.SampleRate, s.track.Channels) {
		s.logger.Warn("track format differs from audio device context",
			slog.Int("sample_rate", s.track.SampleRate),
			slog.Int("channels", s.track.Channels))
	}
	player, err := s.newPlayer(s.track.SampleRate, s.track.Channels, tap)
	if err != nil {
		return domain.NewSourceError("start", s.track.FilePath, "audio device", err)
	}
	player.Play()

	s.player = player
	s.running = true
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	go s.stream(tap, an, s.track, s.stopCh, s.done)
	return nil
}

// stream is the analysis loop. Once per interval it snapshots the most
// recently played window of samples, transforms it, and publishes the
// magnitudes. It exits on Stop or when the decoder reaches end of stream.
func (s *Source) stream(tap *tapReader, an *analyzer, track domain.TrackInfo, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	window := make([]float64, fftSize)
	ticker := time.NewTicker(analysisInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if tap.finished() {
				s.logger.Info("track finished", slog.String("path", track.FilePath))
				s.bus.Publish(domain.NewTrackFinishedEvent(track))
				s.mu.Lock()
				s.running = false
				if s.player != nil {
					s.player.Pause()
				}
				s.mu.Unlock()
				return
			}

			tap.copyRecent(window)
			mags, err := an.magnitudes(window)
			if err != nil {
				s.logger.Error("spectrum analysis failed",
					slog.String("path", track.FilePath),
					slog.Any("error", err))
				s.bus.Publish(domain.NewSourceErrorEvent(track, err))
				continue
			}
			s.bus.Publish(domain.NewSpectrumFrameEvent(mags, track.SampleRate))
		}
	}
}

// Stop halts playback and the analysis loop. Stopping a source that is not
// streaming is a no-op.
func (s *Source) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	done := s.done
	player := s.player
	s.mu.Unlock()

	select {
	case <-done:
	case <-time.After(stopTimeout):
		s.logger.Error("streaming loop did not stop in time")
		return domain.ErrShutdownTimeout
	}
	if player != nil {
		player.Pause()
	}
	return nil
}

// Close stops streaming and releases the file and the player.
func (s *Source) Close() error {
	err := s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
	return err
}

// releaseLocked frees the player, decoder, and file. Caller holds s.mu.
func (s *Source) releaseLocked() {
	if s.player != nil {
		_ = s.player.Close()
		s.player = nil
	}
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
	s.dec = nil
}

// Verify that Source satisfies the port.
var _ ports.SpectrumSource = (*Source)(nil)
