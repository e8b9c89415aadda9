package sink

import "fmt"

// Device state as seen by the engine
type State int

const (
	Init State = iota
	Suspended
	Idle
	Running
	Unlinked
)

// Opened reports whether the device consumes audio, idle or running
func (s State) Opened() bool {
	return s == Idle || s == Running
}

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Suspended:
		return "suspended"
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Unlinked:
		return "unlinked"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
