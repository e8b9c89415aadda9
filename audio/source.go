// Audio sources for the stand-alone device

package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"xrdpsink/logger"

	"github.com/korandiz/mpa"
)

// A source that never ends and only produces zeroed samples
type Silence struct{}

func (Silence) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = 0
	}
	return len(b), nil
}

// A sine tone generator producing 16 bit samples on every channel
type Tone struct {
	spec  Spec
	order binary.ByteOrder
	step  float64
	phase float64
	gain  float64
	// Bytes of a partially written frame carried to the next read
	rest []byte
}

// Reads the next samples
func (t *Tone) Read(b []byte) (int, error) {
	n := copy(b, t.rest)
	t.rest = t.rest[n:]
	frame := make([]byte, t.spec.FrameSize())
	for n < len(b) {
		v := int16(math.Sin(2*math.Pi*t.phase) * t.gain * math.MaxInt16)
		t.phase += t.step
		if t.phase >= 1 {
			t.phase--
		}
		for c := 0; c < t.spec.Channels; c++ {
			t.order.PutUint16(frame[c*2:], uint16(v))
		}
		m := copy(b[n:], frame)
		n += m
		if m < len(frame) {
			t.rest = append(t.rest[:0], frame[m:]...)
		}
	}
	return n, nil
}

// Constructs a tone generator, only s16 formats are supported
func NewTone(spec Spec, freq float64) (*Tone, error) {
	order, err := S16Order(spec)
	if err != nil {
		return nil, fmt.Errorf("tone: %w", err)
	}
	if freq <= 0 || freq >= float64(spec.Rate)/2 {
		return nil, fmt.Errorf("tone frequency %.1fHz out of range for %dHz", freq, spec.Rate)
	}
	return &Tone{
		spec:  spec,
		order: order,
		step:  freq / float64(spec.Rate),
		gain:  0.2,
	}, nil
}

// A file backed source
type File struct {
	io.Reader
	file *os.File
}

func (f *File) Close() error {
	return f.file.Close()
}

// Opens an audio file. Files ending in .mp3 are decoded to s16le
// interleaved samples, anything else is read as raw samples which must
// match the configured sample spec.
func Open(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewReader(file)
	src := &File{Reader: buf, file: file}
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		logger.WithField("path", path).Debug("decoding mp3 source")
		src.Reader = &mpa.Reader{Decoder: &mpa.Decoder{Input: buf}}
	}
	return src, nil
}

// Builds the named source: "silence", "tone" or a file path
func OpenSource(name string, spec Spec) (io.ReadCloser, error) {
	switch name {
	case "", "silence":
		return io.NopCloser(Silence{}), nil
	case "tone":
		tone, err := NewTone(spec, 440)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(tone), nil
	default:
		return Open(name)
	}
}
