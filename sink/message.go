package sink

import (
	"fmt"

	"xrdpsink/logger"
)

// Message kinds understood by the engine
type Kind int

const (
	SetVolume Kind = iota
	SetMute
	GetLatency
	GetRequestedLatency
	SetState
	UpdateRequestedLatency
	RequestRewind
	Shutdown
)

func (k Kind) String() string {
	switch k {
	case SetVolume:
		return "set-volume"
	case SetMute:
		return "set-mute"
	case GetLatency:
		return "get-latency"
	case GetRequestedLatency:
		return "get-requested-latency"
	case SetState:
		return "set-state"
	case UpdateRequestedLatency:
		return "update-requested-latency"
	case RequestRewind:
		return "request-rewind"
	case Shutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// A message posted to the engine goroutine. Only the fields of its kind are
// meaningful.
type Message struct {
	Kind   Kind
	State  State   // SetState
	Bytes  int     // RequestRewind
	Volume float64 // SetVolume
	Mute   bool    // SetMute
	// Receives the result when set, must be buffered
	Reply chan Reply
}

// Result of a processed message
type Reply struct {
	Status  int
	Latency uint64 // microseconds, GetLatency and GetRequestedLatency
}

// Status of a reply
const (
	StatusOK     = 0
	StatusFailed = -1
)

// Handles one message on the engine goroutine
func (e *Engine) process(msg Message) Reply {
	log := logger.WithField("message", msg.Kind.String())
	switch msg.Kind {
	case SetVolume, SetMute, GetRequestedLatency:
		log.Debug("process message")
	case GetLatency:
		lat := e.latency()
		log.WithField("usec", lat).Debug("process message")
		return Reply{Status: StatusOK, Latency: lat}
	case SetState:
		e.setState(msg.State)
	case UpdateRequestedLatency:
		e.updateRequestedLatency()
		return Reply{Status: StatusOK}
	case RequestRewind:
		e.rewindRequested = true
		e.rewind = max(e.rewind, msg.Bytes)
		return Reply{Status: StatusOK}
	default:
		log.Debug("unhandled message")
	}
	return e.host.ProcessMessage(msg)
}

// Audio produced ahead of now, in microseconds
func (e *Engine) latency() uint64 {
	var lat uint64
	if now := e.clock.Now(); e.timestamp > now {
		lat = e.timestamp - now
	}
	e.metrics.SetLatency(lat)
	return lat
}

// Applies a device state change. Coming out of suspend into an opened state,
// and entering running, resynchronise the virtual clock with now; any state
// other than running tells the consumer the stream is closed.
func (e *Engine) setState(s State) {
	now := e.clock.Now()
	old := e.state
	log := logger.WithFields(logger.F{"from": old.String(), "to": s.String()})
	if (old == Suspended || old == Init) && s.Opened() {
		e.timestamp = now
	}
	if s == Running {
		log.Info("sink running")
		e.timestamp = now
	} else {
		log.Info("sink not running")
		e.conn.CloseAndNotify()
	}
	e.state = s
}

// Recomputes the block budget from the latency requested by the host
func (e *Engine) updateRequestedLatency() {
	usec, ok := e.host.RequestedLatency()
	if !ok {
		usec = e.host.MaxLatency()
	}
	e.blockUsec = usec
	n := e.spec.UsecToBytes(usec)
	e.host.SetMaxRewind(n)
	e.host.SetMaxRequest(n)
	logger.WithFields(logger.F{"block_usec": usec, "bytes": n}).Debug("requested latency updated")
}
