package ports

import (
	"github.com/soundmesh/soundmesh/internal/domain"
)

// SpectrumSource produces frequency-magnitude frames from an audio stream.
//
// A source owns its own pacing: once started it publishes
// domain.SpectrumFrameEvent on the event bus at its analysis rate until the
// stream ends or Stop is called. Audio playback (if the implementation
// supports it) runs alongside the analysis so the visuals stay in sync with
// what the user hears.
//
// Thread-safety: all methods must be safe to call from any goroutine.
type SpectrumSource interface {
	// Open prepares the source for the given file and reads its metadata.
	// Returns domain.ErrUnsupportedFormat for unknown file types and
	// domain.ErrSourceRunning if the source is already streaming.
	Open(path string) (domain.TrackInfo, error)

	// Start begins streaming: audio playback plus spectrum analysis.
	// Frames are delivered via the event bus, not returned.
	Start() error

	// Stop halts streaming and playback cooperatively. Safe to call when
	// not streaming.
	Stop() error

	// Close releases all resources. The source cannot be reused afterwards.
	Close() error
}
