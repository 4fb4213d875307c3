package file

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/soundmesh/soundmesh/internal/domain"
)

// pcmDecoder yields signed 16-bit little-endian interleaved PCM regardless
// of the source format.
type pcmDecoder interface {
	io.Reader
	SampleRate() int
	Channels() int
	// Length returns the total output size in bytes, 0 when unknown.
	Length() int64
}

// newDecoder picks a decoder by file extension.
func newDecoder(f *os.File) (pcmDecoder, error) {
	switch strings.ToLower(filepath.Ext(f.Name())) {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	default:
		return nil, domain.ErrUnsupportedFormat
	}
}

type mp3Decoder struct {
	dec *mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *mp3Decoder) SampleRate() int            { return d.dec.SampleRate() }
func (d *mp3Decoder) Channels() int              { return 2 } // go-mp3 always outputs stereo
func (d *mp3Decoder) Length() int64              { return d.dec.Length() }

// wavDecoder converts 8/16/24/32-bit WAV PCM to 16-bit on the fly.
type wavDecoder struct {
	file       *os.File
	buf        []byte
	totalBytes int64
	sampleRate int
	channels   int
	srcDepth   int
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, domain.ErrUnsupportedFormat
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, err
	}

	channels := int(dec.NumChans)
	depth := int(dec.BitDepth)
	switch depth {
	case 8, 16, 24, 32:
	default:
		return nil, domain.ErrUnsupportedFormat
	}

	srcFrameSize := int64(channels) * int64(depth) / 8
	totalFrames := dec.PCMLen() / srcFrameSize

	return &wavDecoder{
		file:       f,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		srcDepth:   depth,
		totalBytes: totalFrames * int64(channels) * 2,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		n := copy(p, d.buf)
		d.buf = d.buf[n:]
		return n, nil
	}

	srcBytes := d.srcDepth / 8
	wantSamples := len(p) / 2
	if wantSamples == 0 {
		wantSamples = 1
	}
	src := make([]byte, wantSamples*srcBytes)
	n, err := io.ReadFull(d.file, src)
	if n == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	samples := n / srcBytes
	if samples == 0 {
		return 0, io.EOF
	}

	out := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		off := i * srcBytes
		var v int
		switch d.srcDepth {
		case 8:
			// 8-bit WAV is unsigned
			v = (int(src[off]) - 128) << 8
		case 16:
			v = int(int16(binary.LittleEndian.Uint16(src[off:])))
		case 24:
			s := int32(src[off]) | int32(src[off+1])<<8 | int32(src[off+2])<<16
			if s&0x800000 != 0 {
				s |= ^int32(0xFFFFFF)
			}
			v = int(s >> 8)
		case 32:
			v = int(int32(binary.LittleEndian.Uint32(src[off:])) >> 16)
		}
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
	}

	written := copy(p, out)
	if written < len(out) {
		d.buf = out[written:]
	}
	if err == io.ErrUnexpectedEOF {
		err = nil // partial read near EOF; next Read reports it
	}
	return written, err
}

func (d *wavDecoder) SampleRate() int { return d.sampleRate }
func (d *wavDecoder) Channels() int   { return d.channels }
func (d *wavDecoder) Length() int64   { return d.totalBytes }
