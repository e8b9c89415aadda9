// Package device implements a stand-alone sink host that renders audio
// from a reader instead of a sound server mixing pipeline.

package device

import (
	"io"
	"sync"

	"xrdpsink/audio"
	"xrdpsink/logger"
	"xrdpsink/sink"
)

// A sink host rendering from a source reader. Short reads are padded with
// silence and rendered samples are kept so a rewind can replay them.
type Device struct {
	mu     sync.Mutex
	name   string
	spec   audio.Spec
	source io.Reader

	maxRequest int
	maxRewind  int
	// Last rendered source samples, at most maxRewind bytes
	history []byte
	// Rewound samples served before reading the source again
	replay []byte
	buf    []byte

	latency    uint64
	latencySet bool
	maxLatency uint64
	volume     float64
	muted      bool
	state      sink.State
	// Set once the source ended or failed
	drained bool

	unloadC    chan bool
	unloadOnce sync.Once
}

func (d *Device) Name() string {
	return d.name
}

// Closed once the engine asked for the device to be unloaded
func (d *Device) Unload() <-chan bool {
	return d.unloadC
}

// Renders up to nbytes whole frames
func (d *Device) Render(nbytes int) sink.Chunk {
	d.mu.Lock()
	defer d.mu.Unlock()
	fs := d.spec.FrameSize()
	n := nbytes - nbytes%fs
	if n <= 0 {
		return sink.NewChunk(nil, 0, 0, nil)
	}
	if cap(d.buf) < n {
		d.buf = make([]byte, n)
	}
	buf := d.buf[:n]
	filled := copy(buf, d.replay)
	d.replay = d.replay[filled:]
	if filled < n {
		filled += d.read(buf[filled:])
	}
	silence := d.spec.Format.Silence()
	for i := filled; i < n; i++ {
		buf[i] = silence
	}
	d.remember(buf)
	if d.muted {
		for i := range buf {
			buf[i] = silence
		}
	}
	return sink.NewChunk(buf, 0, n, nil)
}

// Reads from the source until b is full or the source ends
func (d *Device) read(b []byte) int {
	if d.drained {
		return 0
	}
	n, err := io.ReadFull(d.source, b)
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		logger.WithField("device", d.name).Info("source ended, rendering silence")
		d.drained = true
	default:
		logger.WithField("device", d.name).WithError(err).Error("source read failed, rendering silence")
		d.drained = true
	}
	return n
}

// Appends rendered samples to the rewind history
func (d *Device) remember(b []byte) {
	if d.maxRewind <= 0 {
		d.history = d.history[:0]
		return
	}
	d.history = append(d.history, b...)
	if over := len(d.history) - d.maxRewind; over > 0 {
		d.history = append(d.history[:0], d.history[over:]...)
	}
}

// Moves the last nbytes of history back in front of the source
func (d *Device) ProcessRewind(nbytes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if nbytes <= 0 {
		return
	}
	if nbytes > len(d.history) {
		logger.WithFields(logger.F{
			"requested": nbytes,
			"history":   len(d.history),
		}).Warn("rewind beyond history")
		nbytes = len(d.history)
	}
	keep := len(d.history) - nbytes
	replay := make([]byte, 0, nbytes+len(d.replay))
	replay = append(replay, d.history[keep:]...)
	d.replay = append(replay, d.replay...)
	d.history = d.history[:keep]
}

func (d *Device) MaxRequest() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.maxRequest
}

func (d *Device) SetMaxRequest(nbytes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.maxRequest = nbytes
}

func (d *Device) SetMaxRewind(nbytes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.maxRewind = nbytes
	if over := len(d.history) - nbytes; over > 0 {
		d.history = append(d.history[:0], d.history[over:]...)
	}
}

// Sets the latency requested by the device clients. The engine must be told
// with UpdateRequestedLatency.
func (d *Device) SetRequestedLatency(usec uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latency = usec
	d.latencySet = true
}

// Drops the requested latency, the maximum applies again
func (d *Device) ClearRequestedLatency() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latency = 0
	d.latencySet = false
}

func (d *Device) RequestedLatency() (uint64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latency, d.latencySet
}

func (d *Device) MaxLatency() uint64 {
	return d.maxLatency
}

// Returns the volume and mute flag last applied
func (d *Device) Volume() (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.volume, d.muted
}

// Returns the state last applied by the engine
func (d *Device) State() sink.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Default message handling
func (d *Device) ProcessMessage(msg sink.Message) sink.Reply {
	d.mu.Lock()
	defer d.mu.Unlock()
	log := logger.WithFields(logger.F{"device": d.name, "message": msg.Kind.String()})
	switch msg.Kind {
	case sink.SetVolume:
		d.volume = msg.Volume
		log.WithField("volume", msg.Volume).Debug("volume changed")
	case sink.SetMute:
		d.muted = msg.Mute
		log.WithField("mute", msg.Mute).Debug("mute changed")
	case sink.SetState:
		d.state = msg.State
		log.WithField("state", msg.State.String()).Debug("state changed")
	case sink.GetRequestedLatency:
		lat := d.maxLatency
		if d.latencySet {
			lat = d.latency
		}
		return sink.Reply{Status: sink.StatusOK, Latency: lat}
	default:
		log.Debug("ignored message")
	}
	return sink.Reply{Status: sink.StatusOK}
}

func (d *Device) RequestUnload() {
	d.unloadOnce.Do(func() {
		logger.WithField("device", d.name).Warn("unload requested")
		close(d.unloadC)
	})
}

// Closes the source when it is closable
func (d *Device) Close() error {
	if c, ok := d.source.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Constructs a new Device rendering spec samples from source
func New(name string, spec audio.Spec, source io.Reader, maxLatency uint64) *Device {
	return &Device{
		name:       name,
		spec:       spec,
		source:     source,
		volume:     1,
		maxLatency: maxLatency,
		state:      sink.Init,
		unloadC:    make(chan bool),
	}
}
