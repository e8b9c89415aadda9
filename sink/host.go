package sink

// Chunk is a borrowed view of host sample memory. It is only valid until
// Release is called at the end of the render step that produced it.
type Chunk struct {
	Data   []byte
	Index  int
	Length int
	// Called once the engine is done with the chunk, may be nil
	release func()
}

// NewChunk returns a chunk viewing data[index:index+length]. release, when
// not nil, runs once the engine no longer needs the memory.
func NewChunk(data []byte, index, length int, release func()) Chunk {
	return Chunk{Data: data, Index: index, Length: length, release: release}
}

// Bytes returns the viewed samples
func (c Chunk) Bytes() []byte {
	return c.Data[c.Index : c.Index+c.Length]
}

// Release hands the memory back to the host
func (c Chunk) Release() {
	if c.release != nil {
		c.release()
	}
}

// Host is the device side of the engine: the mixing pipeline producing
// audio and the owner of device level bookkeeping. Every method is called
// from the engine goroutine only.
type Host interface {
	// Render produces one chunk of at most nbytes bytes
	Render(nbytes int) Chunk
	// ProcessRewind moves the host render cursor back by nbytes, zero when
	// a requested rewind was refused
	ProcessRewind(nbytes int)
	// MaxRequest is the largest render the host wants to serve
	MaxRequest() int
	SetMaxRequest(nbytes int)
	SetMaxRewind(nbytes int)
	// RequestedLatency returns the latency asked for by the device clients
	// in microseconds, ok is false when nothing was requested
	RequestedLatency() (usec uint64, ok bool)
	// MaxLatency is the upper bound of the device latency range
	MaxLatency() uint64
	// ProcessMessage is the default handler for messages the engine passes
	// through
	ProcessMessage(msg Message) Reply
	// RequestUnload asks the host to tear the device down
	RequestUnload()
}
