//go:build portaudio
// +build portaudio

// Port Audio playback output

package audio

import (
	"encoding/binary"
	"fmt"
	"sync"

	"xrdpsink/logger"

	"github.com/gordonklaus/portaudio"
)

// Frames handed to port audio per stream write
const FRAMES_PER_BUFFER = 1024

func init() {
	RegisterOutput("portaudio", openPortAudio)
}

// Port audio playback output. Writes are buffered until a full stream
// buffer of samples is available.
type PortAudio struct {
	mu      sync.Mutex
	stream  *portaudio.Stream
	order   binary.ByteOrder
	samples []int16
	pending []byte
}

func (pa *PortAudio) Write(b []byte) (int, error) {
	pa.mu.Lock()
	defer pa.mu.Unlock()
	pa.pending = append(pa.pending, b...)
	size := len(pa.samples) * 2
	for len(pa.pending) >= size {
		DecodeS16(pa.samples, pa.pending, pa.order)
		n := copy(pa.pending, pa.pending[size:])
		pa.pending = pa.pending[:n]
		if err := pa.stream.Write(); err != nil {
			logger.WithError(err).Warn("stream write error")
		}
	}
	return len(b), nil
}

// Stops the stream and releases port audio
func (pa *PortAudio) Close() error {
	pa.mu.Lock()
	defer pa.mu.Unlock()
	defer portaudio.Terminate()
	logger.Debug("close portaudio stream")
	if err := pa.stream.Stop(); err != nil {
		pa.stream.Close()
		return err
	}
	return pa.stream.Close()
}

// Picks the output device named target, the default output when empty
func outputDevice(host *portaudio.HostApiInfo, target string) (*portaudio.DeviceInfo, error) {
	if target == "" {
		return host.DefaultOutputDevice, nil
	}
	for _, d := range host.Devices {
		if d.Name == target && d.MaxOutputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: no portaudio output device %q", ErrNoOutput, target)
}

func openPortAudio(target string, spec Spec) (Output, error) {
	order, err := S16Order(spec)
	if err != nil {
		return nil, err
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	host, err := portaudio.DefaultHostApi()
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	device, err := outputDevice(host, target)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	params := portaudio.HighLatencyParameters(nil, device)
	params.Output.Channels = spec.Channels
	params.SampleRate = float64(spec.Rate)
	params.FramesPerBuffer = FRAMES_PER_BUFFER
	pa := &PortAudio{
		order:   order,
		samples: make([]int16, FRAMES_PER_BUFFER*spec.Channels),
	}
	logger.WithField("device", device.Name).Debug("open portaudio stream")
	stream, err := portaudio.OpenStream(params, &pa.samples)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}
	pa.stream = stream
	return pa, nil
}
