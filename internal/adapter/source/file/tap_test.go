package file

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcm16(samples ...int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

func TestTapReader_MonoPassthrough(t *testing.T) {
	src := bytes.NewReader(pcm16(16384, -16384, 0))
	tap := newTapReader(src, 1, 8)

	buf := make([]byte, 6)
	n, err := tap.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	recent := make([]float64, 3)
	tap.copyRecent(recent)
	assert.InDelta(t, 0.5, recent[0], 1e-3)
	assert.InDelta(t, -0.5, recent[1], 1e-3)
	assert.InDelta(t, 0.0, recent[2], 1e-3)
}

func TestTapReader_StereoMixesToMono(t *testing.T) {
	// One frame: left 16384, right -16384 averages to silence.
	src := bytes.NewReader(pcm16(16384, -16384))
	tap := newTapReader(src, 2, 8)

	buf := make([]byte, 4)
	_, err := tap.Read(buf)
	require.NoError(t, err)

	recent := make([]float64, 1)
	tap.copyRecent(recent)
	assert.InDelta(t, 0.0, recent[0], 1e-3)
}

func TestTapReader_ZeroPadsWhenShort(t *testing.T) {
	src := bytes.NewReader(pcm16(16384))
	tap := newTapReader(src, 1, 8)

	buf := make([]byte, 2)
	_, err := tap.Read(buf)
	require.NoError(t, err)

	recent := make([]float64, 4)
	tap.copyRecent(recent)
	assert.Zero(t, recent[0])
	assert.Zero(t, recent[1])
	assert.Zero(t, recent[2])
	assert.InDelta(t, 0.5, recent[3], 1e-3)
}

func TestTapReader_KeepsMostRecentWhenRingWraps(t *testing.T) {
	samples := make([]int16, 16)
	for i := range samples {
		samples[i] = int16(i * 1000)
	}
	src := bytes.NewReader(pcm16(samples...))
	tap := newTapReader(src, 1, 4)

	buf := make([]byte, 32)
	_, err := tap.Read(buf)
	require.NoError(t, err)

	recent := make([]float64, 4)
	tap.copyRecent(recent)
	// Last four samples are 12000..15000, oldest first.
	for i := 0; i < 4; i++ {
		want := float64(int16((12+i)*1000)) / 32768.0
		assert.InDelta(t, want, recent[i], 1e-6, "index %d", i)
	}
}

func TestTapReader_SplitFrameAcrossReads(t *testing.T) {
	// A stereo frame split mid-sample must survive the carry path.
	frame := pcm16(16384, 16384)
	src := bytes.NewReader(frame)
	tap := newTapReader(src, 2, 8)

	buf := make([]byte, 3)
	_, err := tap.Read(buf)
	require.NoError(t, err)
	buf = make([]byte, 1)
	_, err = tap.Read(buf)
	require.NoError(t, err)

	recent := make([]float64, 1)
	tap.copyRecent(recent)
	assert.InDelta(t, 0.5, recent[0], 1e-3)
}

func TestTapReader_ReportsEOF(t *testing.T) {
	src := bytes.NewReader(pcm16(0, 0))
	tap := newTapReader(src, 1, 8)

	require.False(t, tap.finished())

	buf := make([]byte, 16)
	for {
		_, err := tap.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.True(t, tap.finished())
}
