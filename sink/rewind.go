package sink

import "xrdpsink/logger"

// Applies the pending rewind. Only audio produced ahead of now can be taken
// back; the host always receives the accepted amount, zero when refused.
func (e *Engine) processRewind(now uint64) {
	requested := e.rewind
	e.rewindRequested = false
	e.rewind = 0
	accepted := e.acceptRewind(requested, now)
	logger.WithFields(logger.F{"requested": requested, "accepted": accepted}).Debug("rewind")
	e.host.ProcessRewind(accepted)
	if accepted <= 0 {
		return
	}
	e.timestamp -= e.spec.BytesToUsec(accepted)
	e.metrics.RecordRewind(accepted)
}

func (e *Engine) acceptRewind(requested int, now uint64) int {
	if !e.state.Opened() || requested <= 0 {
		return 0
	}
	if e.timestamp <= now {
		return 0
	}
	available := e.spec.UsecToBytes(e.timestamp - now)
	if available <= 0 {
		return 0
	}
	return min(requested, available)
}
