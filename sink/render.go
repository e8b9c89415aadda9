package sink

import (
	"errors"

	"xrdpsink/frame"
	"xrdpsink/logger"
	"xrdpsink/sockets/unix"
)

// Renders and transmits one chunk, returning the duration it covered. The
// virtual clock advances whether or not the chunk reached the consumer.
func (e *Engine) renderOnce() uint64 {
	chunk := e.host.Render(min(e.host.MaxRequest(), MaxChunk))
	defer chunk.Release()
	if e.state == Running && chunk.Length > 0 {
		err := e.conn.Send(frame.Data, chunk.Bytes())
		switch {
		case err == nil, errors.Is(err, unix.ErrNotConnected):
		default:
			logger.WithError(err).Info("data send failed")
		}
	}
	usec := e.spec.BytesToUsec(chunk.Length)
	e.timestamp += usec
	logger.WithFields(logger.F{"bytes": chunk.Length, "timestamp": e.timestamp}).Trace("rendered")
	e.metrics.RecordRender(chunk.Length)
	return usec
}

// Renders until the virtual clock is one block ahead of now
func (e *Engine) processRender(now uint64) {
	for e.timestamp < now+e.blockUsec {
		if e.renderOnce() == 0 {
			logger.WithField("timestamp", e.timestamp).Warn("host rendered nothing")
			return
		}
	}
}
