package file

import (
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// pcmPlayer abstracts the playback device so tests can run the streaming
// loop without a sound card.
type pcmPlayer interface {
	Play()
	Pause()
	Close() error
}

// playerFactory creates a player that pulls 16-bit LE PCM from src.
type playerFactory func(sampleRate, channels int, src io.Reader) (pcmPlayer, error)

// The process may hold at most one oto context, so it is created once with
// the first track's format and reused afterwards.
var (
	otoCtx      *oto.Context
	otoOnce     sync.Once
	otoErr      error
	otoRate     int
	otoChannels int
)

func newOtoPlayer(sampleRate, channels int, src io.Reader) (pcmPlayer, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(op)
		if otoErr == nil {
			<-ready
			otoRate = sampleRate
			otoChannels = channels
		}
	})
	if otoErr != nil {
		return nil, otoErr
	}
	return otoCtx.NewPlayer(src), nil
}

// contextMismatch reports whether a track's format differs from the format
// the shared oto context was created with. Playback still works but pitch
// and channel interleave are off; the caller logs a warning.
func contextMismatch(sampleRate, channels int) bool {
	if otoCtx == nil {
		return false
	}
	return sampleRate != otoRate || channels != otoChannels
}
