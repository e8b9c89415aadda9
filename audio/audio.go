package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"xrdpsink/clock"
)

const (
	DEFAULT_FORMAT   = "s16le"
	DEFAULT_RATE     = 44100
	DEFAULT_CHANNELS = 2
	MAX_RATE         = 48000 * 8
	MAX_CHANNELS     = 32
)

var (
	ErrUnknownFormat = errors.New("unknown sample format")
	ErrInvalidSpec   = errors.New("invalid sample specification")
	ErrChannelMap    = errors.New("invalid channel map")
	ErrNoOutput      = errors.New("no audio output")
)

// Writes raw sample bytes to an audio output
type Writer interface {
	Write([]byte) (int, error)
}

// Sample format
type Format struct {
	Name string
	// Bytes per sample
	Size int
}

// Byte value of a silent sample
func (f Format) Silence() byte {
	switch f.Name {
	case "u8":
		return 0x80
	case "alaw":
		return 0xd5
	case "ulaw":
		return 0xff
	default:
		return 0
	}
}

// Known sample formats, keyed by name
var formats = map[string]Format{
	"u8":        {"u8", 1},
	"alaw":      {"alaw", 1},
	"ulaw":      {"ulaw", 1},
	"s16le":     {"s16le", 2},
	"s16be":     {"s16be", 2},
	"s24le":     {"s24le", 3},
	"s24be":     {"s24be", 3},
	"s24-32le":  {"s24-32le", 4},
	"s24-32be":  {"s24-32be", 4},
	"s32le":     {"s32le", 4},
	"s32be":     {"s32be", 4},
	"float32le": {"float32le", 4},
	"float32be": {"float32be", 4},
}

// Formats whose bare name means native byte order
var native = map[string]bool{
	"s16":     true,
	"s24":     true,
	"s24-32":  true,
	"s32":     true,
	"float32": true,
}

// Byte order suffix of the machine, "le" or "be"
func NativeSuffix() string {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return "le"
	}
	return "be"
}

// Resolves native order names such as "s16" or "float32ne"
func resolve(name string) string {
	if base, ok := strings.CutSuffix(name, "ne"); ok && native[base] {
		return base + NativeSuffix()
	}
	if native[name] {
		return name + NativeSuffix()
	}
	return name
}

// Look up a sample format by name
func ParseFormat(name string) (Format, error) {
	name = resolve(strings.ToLower(strings.TrimSpace(name)))
	f, ok := formats[name]
	if !ok {
		return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// Spec is the negotiated sample specification, used for all byte and
// time conversions
type Spec struct {
	Format   Format
	Rate     int
	Channels int
}

// Builds and validates a Spec from its configured parts
func NewSpec(format string, rate, channels int) (Spec, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return Spec{}, err
	}
	s := Spec{Format: f, Rate: rate, Channels: channels}
	if err := s.Validate(); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// The default sample spec, s16le 44100Hz stereo
func DefaultSpec() Spec {
	return Spec{Format: formats[DEFAULT_FORMAT], Rate: DEFAULT_RATE, Channels: DEFAULT_CHANNELS}
}

// Validates the sample spec
func (s Spec) Validate() error {
	if s.Format.Size <= 0 {
		return fmt.Errorf("%w: no sample format", ErrInvalidSpec)
	}
	if s.Rate <= 0 || s.Rate > MAX_RATE {
		return fmt.Errorf("%w: rate %d", ErrInvalidSpec, s.Rate)
	}
	if s.Channels <= 0 || s.Channels > MAX_CHANNELS {
		return fmt.Errorf("%w: channels %d", ErrInvalidSpec, s.Channels)
	}
	return nil
}

// Bytes per frame, one sample for every channel
func (s Spec) FrameSize() int {
	return s.Format.Size * s.Channels
}

// Duration in microseconds of n bytes, partial frames are ignored
func (s Spec) BytesToUsec(n int) uint64 {
	if n <= 0 {
		return 0
	}
	frames := uint64(n / s.FrameSize())
	return frames * clock.UsecPerSec / uint64(s.Rate)
}

// Bytes covering usec microseconds, rounded down to whole frames
func (s Spec) UsecToBytes(usec uint64) int {
	frames := usec * uint64(s.Rate) / clock.UsecPerSec
	return int(frames) * s.FrameSize()
}

func (s Spec) String() string {
	return fmt.Sprintf("%s %dch %dHz", s.Format.Name, s.Channels, s.Rate)
}

// Channel positions, one per channel
type ChannelMap []string

// Parse a comma separated channel map such as "front-left,front-right".
// An empty string yields a nil map meaning the default layout.
func ParseChannelMap(str string, channels int) (ChannelMap, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return nil, nil
	}
	var m ChannelMap
	for _, p := range strings.Split(str, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%w: empty position in %q", ErrChannelMap, str)
		}
		m = append(m, p)
	}
	if len(m) != channels {
		return nil, fmt.Errorf("%w: %d positions for %d channels", ErrChannelMap, len(m), channels)
	}
	return m, nil
}
