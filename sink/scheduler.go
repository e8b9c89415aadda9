package sink

import (
	"context"
	"time"

	"xrdpsink/clock"
	"xrdpsink/logger"
	"xrdpsink/run"
)

// Shortest timer wait when the virtual clock is already behind
const stallWait = time.Millisecond

// One scheduler pass: apply a pending rewind, render when due and return the
// timer deadline. armed is false when the device is not opened.
func (e *Engine) iterate(now uint64) (deadline uint64, armed bool) {
	if !e.state.Opened() {
		now = 0
	}
	if e.rewindRequested {
		e.processRewind(now)
	}
	if !e.state.Opened() {
		return 0, false
	}
	if e.timestamp <= now {
		e.processRender(now)
	}
	return e.timestamp, true
}

// Time left until deadline, never below stallWait
func (e *Engine) wait(deadline uint64) time.Duration {
	now := e.clock.Now()
	if deadline <= now {
		return stallWait
	}
	return max(clock.Duration(deadline-now), stallWait)
}

func (e *Engine) loop(ctx context.Context) {
	defer close(e.doneC)
	defer run.Recover()

	logger.Debug("sink engine started")
	e.timestamp = e.clock.Now()

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	defer timer.Stop()

	for {
		var now uint64
		if e.state.Opened() {
			now = e.clock.Now()
		}
		deadline, armed := e.iterate(now)
		var timerC <-chan time.Time
		if armed {
			timer.Reset(e.wait(deadline))
			timerC = timer.C
		}
		select {
		case msg := <-e.inbox:
			stopTimer(timer)
			if e.dispatch(msg) {
				logger.Debug("sink engine shutdown")
				return
			}
		case <-timerC:
		case <-ctx.Done():
			stopTimer(timer)
			e.fail(ctx.Err())
			return
		}
	}
}

// Processes msg and replies. Returns true for Shutdown.
func (e *Engine) dispatch(msg Message) bool {
	if msg.Kind == Shutdown {
		if msg.Reply != nil {
			msg.Reply <- Reply{Status: StatusOK}
		}
		return true
	}
	reply := e.process(msg)
	if msg.Reply != nil {
		msg.Reply <- reply
	}
	return false
}

// Degraded mode after the loop lost its wait: ask the host to unload, keep
// answering messages without rendering until Shutdown arrives.
func (e *Engine) fail(err error) {
	logger.WithError(err).Error("sink engine wait failed, requesting unload")
	e.host.RequestUnload()
	close(e.unloadC)
	for msg := range e.inbox {
		if e.dispatch(msg) {
			logger.Debug("sink engine shutdown")
			return
		}
	}
}

// Stops t and drains a pending fire so Reset starts clean
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
