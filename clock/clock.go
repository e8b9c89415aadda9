// Monotonic microsecond clocks for pacing audio against real time

package clock

import (
	"sync"
	"time"
)

// Microseconds per second
const UsecPerSec uint64 = 1000000

// Clock interface, Now returns monotonic microseconds
type Clock interface {
	Now() uint64
}

// A monotonic clock backed by the runtime monotonic reading
type Monotonic struct {
	start time.Time
}

// Returns elapsed microseconds since the clock was created, offset by one
// second so that zero is never a valid reading
func (m Monotonic) Now() uint64 {
	return UsecPerSec + uint64(time.Since(m.start)/time.Microsecond)
}

// Constructs a new Monotonic clock
func NewMonotonic() Monotonic {
	return Monotonic{start: time.Now()}
}

// Converts a microsecond interval into a time.Duration
func Duration(usec uint64) time.Duration {
	return time.Duration(usec) * time.Microsecond
}

// A manually driven clock for tests
type Fake struct {
	mu  sync.Mutex
	now uint64
}

// Returns the current fake reading
func (f *Fake) Now() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set the fake reading
func (f *Fake) Set(usec uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = usec
}

// Advance the fake reading by usec microseconds
func (f *Fake) Advance(usec uint64) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now += usec
	return f.now
}

// Constructs a fake clock starting at usec
func NewFake(usec uint64) *Fake {
	return &Fake{now: usec}
}
