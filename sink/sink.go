// Package sink implements the real-time engine of the xrdp sink: it paces
// rendering of host audio against a virtual playback clock and forwards the
// rendered samples to the consumer socket.

package sink

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"xrdpsink/audio"
	"xrdpsink/clock"
	"xrdpsink/logger"
	"xrdpsink/metrics"
	"xrdpsink/sockets/unix"
)

const (
	// Default block budget in microseconds
	BlockUsec uint64 = 30000
	// Largest single render request in bytes
	MaxChunk = 16 * 1024
)

var (
	ErrInvalidConfig = errors.New("invalid sink configuration")
	ErrStarted       = errors.New("sink engine already started or closed")
)

// Options used to construct an Engine
type Options struct {
	Spec       audio.Spec
	SocketPath string
	// Optional, defaults to a monotonic clock
	Clock clock.Clock
	// Optional, nil records nothing
	Metrics *metrics.Metrics
	// Optional socket dialer, defaults to net.Dial
	Dial unix.DialFunc
}

// The sink engine. All of its state is owned by the goroutine started by
// Start; other goroutines talk to it through Post and Send.
type Engine struct {
	host    Host
	spec    audio.Spec
	clock   clock.Clock
	conn    *unix.Client
	metrics *metrics.Metrics

	// Virtual playback position in microseconds
	timestamp uint64
	blockUsec uint64
	state     State
	// Pending rewind, applied on the next iteration
	rewindRequested bool
	rewind          int

	inbox     chan Message
	unloadC   chan bool
	doneC     chan bool
	startOnce sync.Once
	started   bool
	closeOnce sync.Once
}

// Returns the sample spec the engine paces against
func (e *Engine) Spec() audio.Spec {
	return e.spec
}

// Closed once the engine asked the host to unload the device
func (e *Engine) UnloadRequested() <-chan bool {
	return e.unloadC
}

// Closed once the engine goroutine exited
func (e *Engine) Done() <-chan bool {
	return e.doneC
}

// Starts the engine goroutine. When ctx ends before a shutdown the engine
// requests an unload from the host and waits for Close.
func (e *Engine) Start(ctx context.Context) error {
	err := ErrStarted
	e.startOnce.Do(func() {
		err = nil
		e.started = true
		go e.loop(ctx)
	})
	return err
}

// Posts a message without waiting for it to be processed
func (e *Engine) Post(msg Message) {
	select {
	case e.inbox <- msg:
	case <-e.doneC:
		logger.WithField("message", msg.Kind.String()).Debug("engine stopped, message dropped")
	}
}

// Sends a message and waits for its reply. A stopped engine replies with
// StatusFailed.
func (e *Engine) Send(msg Message) Reply {
	reply := make(chan Reply, 1)
	msg.Reply = reply
	select {
	case e.inbox <- msg:
	case <-e.doneC:
		return Reply{Status: StatusFailed}
	}
	select {
	case r := <-reply:
		return r
	case <-e.doneC:
		select {
		case r := <-reply:
			return r
		default:
			return Reply{Status: StatusFailed}
		}
	}
}

// Changes the device state
func (e *Engine) SetState(s State) Reply {
	return e.Send(Message{Kind: SetState, State: s})
}

// Returns the current sink latency in microseconds
func (e *Engine) Latency() uint64 {
	return e.Send(Message{Kind: GetLatency}).Latency
}

// Asks the engine to rewind up to nbytes of produced audio
func (e *Engine) RequestRewind(nbytes int) {
	e.Post(Message{Kind: RequestRewind, Bytes: nbytes})
}

// Tells the engine the latency requested by the host changed
func (e *Engine) UpdateRequestedLatency() {
	e.Post(Message{Kind: UpdateRequestedLatency})
}

func (e *Engine) SetVolume(v float64) {
	e.Post(Message{Kind: SetVolume, Volume: v})
}

func (e *Engine) SetMute(mute bool) {
	e.Post(Message{Kind: SetMute, Mute: mute})
}

// Stops the engine goroutine, waits for it to exit and closes the socket
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		logger.Debug("close sink engine")
		// An engine closed before Start can never be started
		e.startOnce.Do(func() { close(e.doneC) })
		if e.started {
			e.Send(Message{Kind: Shutdown})
			<-e.doneC
		}
		e.conn.Close()
	})
	return nil
}

// Constructs a new Engine for host. Nothing is started and no socket is
// opened until the engine renders.
func New(host Host, opts Options) (*Engine, error) {
	if host == nil {
		return nil, fmt.Errorf("%w: no host", ErrInvalidConfig)
	}
	if err := opts.Spec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if opts.SocketPath == "" {
		return nil, fmt.Errorf("%w: empty socket path", ErrInvalidConfig)
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewMonotonic()
	}
	conn := unix.NewClient(opts.SocketPath, clk)
	conn.Metrics = opts.Metrics
	if opts.Dial != nil {
		conn.Dial = opts.Dial
	}
	e := &Engine{
		host:      host,
		spec:      opts.Spec,
		clock:     clk,
		conn:      conn,
		metrics:   opts.Metrics,
		blockUsec: BlockUsec,
		state:     Init,
		inbox:     make(chan Message, 16),
		unloadC:   make(chan bool),
		doneC:     make(chan bool),
	}
	n := e.spec.UsecToBytes(BlockUsec)
	host.SetMaxRequest(n)
	host.SetMaxRewind(n)
	logger.WithFields(logger.F{
		"spec":   e.spec.String(),
		"socket": opts.SocketPath,
	}).Debug("sink engine created")
	return e, nil
}
