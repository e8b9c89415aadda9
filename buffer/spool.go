// Package buffer holds received audio between the socket reader and the
// audio output.
package buffer

import (
	"os"
	"sync"

	"xrdpsink/logger"

	"github.com/djherbis/buffer"
)

// A Spool is a fixed size ring of audio bytes safe for one writer and one
// reader goroutine. Writes never block: when the ring is full the oldest
// bytes are overwritten, reads of an empty spool return zero bytes.
type Spool struct {
	mu      sync.Mutex
	file    *os.File
	ring    buffer.Buffer
	size    int64
	dropped int64
}

// Write appends p, overwriting the oldest bytes when full
func (s *Spool) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if over := s.ring.Len() + int64(len(p)) - s.size; over > 0 {
		if over > int64(len(p)) {
			over = int64(len(p))
		}
		s.dropped += over
		logger.WithField("bytes", over).Debug("spool overrun")
	}
	return s.ring.Write(p)
}

// Read reads up to len(p) buffered bytes
func (s *Spool) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ring.Len() == 0 {
		return 0, nil
	}
	return s.ring.Read(p)
}

// Number of buffered bytes
func (s *Spool) Len() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring.Len()
}

// Total bytes lost to overruns
func (s *Spool) Dropped() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Discards all buffered bytes
func (s *Spool) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring.Reset()
}

// Releases the spool backing file
func (s *Spool) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer os.Remove(s.file.Name())
	return s.file.Close()
}

// Creates a new spool holding at most size bytes, backed by a temporary file
func NewSpool(size int64) (*Spool, error) {
	logger.WithField("size", size).Debug("make new spool")
	file, err := os.CreateTemp(os.TempDir(), "xrdpsink.spool")
	if err != nil {
		return nil, err
	}
	logger.WithField("path", file.Name()).Debug("spool file created")
	return &Spool{
		file: file,
		ring: buffer.NewRing(buffer.NewFile(size, file)),
		size: size,
	}, nil
}
