package audio

import (
	"io"
	"sync"
	"time"

	"xrdpsink/logger"
)

// A Player drains an input at a fixed block pace and writes each block
// to an audio output
type Player struct {
	// Audio input
	input io.Reader
	// Audio output
	output Writer
	// Pacing
	block    []byte
	interval time.Duration
	// Orchestration channels
	stopC   chan bool // Stop draining the input
	resumeC chan bool // Resume draining the input
	// Close orchestration
	closeC  chan bool
	closeWg *sync.WaitGroup
}

// Drains one block from the input, returns false on a fatal error
func (p *Player) drain() bool {
	n, err := p.input.Read(p.block)
	if err != nil && err != io.EOF {
		logger.WithError(err).Error("unexpected player read error")
		return false
	}
	if n == 0 {
		return true // underrun, nothing buffered
	}
	if _, err := p.output.Write(p.block[:n]); err != nil {
		logger.WithError(err).Error("unexpected player write error")
		return false
	}
	return true
}

func (p *Player) play() {
	logger.Debug("start player")
	defer logger.Debug("exit player")
	defer p.closeWg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopC:
			select {
			case <-p.closeC:
				return
			case <-p.resumeC:
				continue
			}
		case <-p.closeC:
			return
		case <-ticker.C:
			if !p.drain() {
				return
			}
		}
	}
}

// Starts the player goroutine
func (p *Player) Play() {
	defer logger.Debug("play")
	p.closeWg.Add(1)
	go p.play()
}

// Stop draining the input
func (p *Player) Stop() {
	defer logger.Debug("stop player")
	select {
	case p.stopC <- true:
	case <-p.closeC:
	}
}

// Resume draining the input
func (p *Player) Resume() {
	defer logger.Debug("resume player")
	select {
	case p.resumeC <- true:
	case <-p.closeC:
	}
}

// Stops the player and waits for it to exit
func (p *Player) Close() {
	defer logger.Debug("player closed")
	close(p.closeC)
	p.closeWg.Wait()
}

// Creates a new player writing interval sized blocks of spec audio
func NewPlayer(i io.Reader, o Writer, spec Spec, interval time.Duration) *Player {
	size := spec.UsecToBytes(uint64(interval / time.Microsecond))
	if size < spec.FrameSize() {
		size = spec.FrameSize()
	}
	return &Player{
		input:    i,
		output:   o,
		block:    make([]byte, size),
		interval: interval,
		stopC:    make(chan bool, 1),
		resumeC:  make(chan bool, 1),
		closeC:   make(chan bool, 1),
		closeWg:  &sync.WaitGroup{},
	}
}
