//go:build pulseaudio
// +build pulseaudio

package audio

import (
	"fmt"

	"xrdpsink/logger"

	pulse "github.com/mesilliac/pulse-simple"
)

func init() {
	RegisterOutput("pulse", openPulse)
}

// Maps a sample spec onto a pulse simple spec
func pulseSpec(spec Spec) (*pulse.SampleSpec, error) {
	var format pulse.SampleFormat
	switch spec.Format.Name {
	case "u8":
		format = pulse.SAMPLE_U8
	case "s16le":
		format = pulse.SAMPLE_S16LE
	case "s16be":
		format = pulse.SAMPLE_S16BE
	case "s32le":
		format = pulse.SAMPLE_S32LE
	case "s32be":
		format = pulse.SAMPLE_S32BE
	case "float32le":
		format = pulse.SAMPLE_FLOAT32LE
	case "float32be":
		format = pulse.SAMPLE_FLOAT32BE
	default:
		return nil, fmt.Errorf("%w: pulse output cannot play %s", ErrUnknownFormat, spec.Format.Name)
	}
	return &pulse.SampleSpec{
		Format:   format,
		Rate:     uint32(spec.Rate),
		Channels: uint8(spec.Channels),
	}, nil
}

// Pulse playback output
type Pulse struct {
	stream *pulse.Stream
}

func (p *Pulse) Write(b []byte) (int, error) {
	return p.stream.Write(b)
}

// Drains and frees the playback stream
func (p *Pulse) Close() error {
	defer p.stream.Free()
	p.stream.Drain()
	return nil
}

func openPulse(target string, spec Spec) (Output, error) {
	ss, err := pulseSpec(spec)
	if err != nil {
		return nil, err
	}
	name := target
	if name == "" {
		name = "xrdpsink"
	}
	logger.WithField("name", name).Debug("setup pulseaudio output stream")
	stream, err := pulse.Playback(name, name, ss)
	if err != nil {
		return nil, err
	}
	return &Pulse{stream: stream}, nil
}
