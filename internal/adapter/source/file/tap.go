package file

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"
)

// tapReader sits between the decoder and the playback device. Every PCM
// frame the player pulls through is also folded, mono-mixed and normalized
// to [-1,1], into a ring of recent samples that the analysis loop reads at
// its own pace. The ring never blocks the audio path.
type tapReader struct {
	src      io.Reader
	channels int

	mu     sync.Mutex
	ring   []float64
	w      int
	filled int
	eof    bool

	// carry holds a partial PCM frame split across Read calls.
	carry []byte
}

func newTapReader(src io.Reader, channels, ringSize int) *tapReader {
	if channels < 1 {
		channels = 1
	}
	return &tapReader{
		src:      src,
		channels: channels,
		ring:     make([]float64, ringSize),
	}
}

func (t *tapReader) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if n > 0 {
		t.push(p[:n])
	}
	if err != nil && errors.Is(err, io.EOF) {
		t.mu.Lock()
		t.eof = true
		t.mu.Unlock()
	}
	return n, err
}

// push mixes interleaved 16-bit LE frames down to mono ring samples.
func (t *tapReader) push(b []byte) {
	frameBytes := t.channels * 2

	if len(t.carry) > 0 {
		b = append(t.carry, b...)
		t.carry = nil
	}
	whole := len(b) / frameBytes * frameBytes
	if whole < len(b) {
		t.carry = append(t.carry, b[whole:]...)
		b = b[:whole]
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for off := 0; off < len(b); off += frameBytes {
		var sum int
		for ch := 0; ch < t.channels; ch++ {
			sum += int(int16(binary.LittleEndian.Uint16(b[off+ch*2:])))
		}
		t.ring[t.w] = float64(sum) / float64(t.channels) / 32768.0
		t.w = (t.w + 1) % len(t.ring)
		if t.filled < len(t.ring) {
			t.filled++
		}
	}
}

// copyRecent fills dst with the most recent len(dst) samples, oldest first,
// zero-padding the front when fewer samples have been seen.
func (t *tapReader) copyRecent(dst []float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(dst)
	avail := t.filled
	if avail > n {
		avail = n
	}
	pad := n - avail
	for i := 0; i < pad; i++ {
		dst[i] = 0
	}
	start := (t.w - avail + len(t.ring)) % len(t.ring)
	for i := 0; i < avail; i++ {
		dst[pad+i] = t.ring[(start+i)%len(t.ring)]
	}
}

// finished reports whether the decoder has reached end of stream.
func (t *tapReader) finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.eof
}
